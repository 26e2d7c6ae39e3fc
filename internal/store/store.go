// Package store holds the immutable in-memory view of the transaction
// dataset. A Store is never mutated after construction; refreshes swap the
// whole store reference through a Provider so in-flight readers keep a
// consistent snapshot.
package store

import (
	"sort"
	"sync/atomic"
	"time"

	"txninsights/internal/model"
)

type Store struct {
	records  []model.TransactionRecord
	byDay    map[string][]int
	distinct map[string][]string
	firstDay time.Time
	lastDay  time.Time
}

// New builds a Store from loaded records, deriving day_of_week and the
// per-dimension distinct value sets once. The input slice is owned by the
// store afterwards.
func New(records []model.TransactionRecord) *Store {
	s := &Store{
		records:  records,
		byDay:    make(map[string][]int),
		distinct: make(map[string][]string),
	}

	seen := make(map[string]map[string]struct{}, len(model.Dimensions))
	for _, d := range model.Dimensions {
		seen[d] = make(map[string]struct{})
	}

	for i := range s.records {
		r := &s.records[i]
		r.Day = r.Day.Truncate(24 * time.Hour)
		r.DayOfWeek = r.Day.Weekday().String()

		key := r.Day.Format(model.DayFormat)
		s.byDay[key] = append(s.byDay[key], i)

		if s.firstDay.IsZero() || r.Day.Before(s.firstDay) {
			s.firstDay = r.Day
		}
		if r.Day.After(s.lastDay) {
			s.lastDay = r.Day
		}

		for _, d := range model.Dimensions {
			v, _ := r.DimensionValue(d)
			seen[d][v] = struct{}{}
		}
	}

	for d, values := range seen {
		list := make([]string, 0, len(values))
		for v := range values {
			list = append(list, v)
		}
		sort.Strings(list)
		s.distinct[d] = list
	}

	return s
}

func (s *Store) Len() int { return len(s.records) }

// Rows exposes the full record slice. Callers must treat it as read-only.
func (s *Store) Rows() []model.TransactionRecord { return s.records }

func (s *Store) FirstDay() time.Time { return s.firstDay }
func (s *Store) LastDay() time.Time  { return s.lastDay }

// DistinctValues returns the sorted distinct values of a dimension as
// present in the loaded dataset.
func (s *Store) DistinctValues(dim string) []string { return s.distinct[dim] }

// HasValue reports whether a dimension value occurs anywhere in the dataset.
func (s *Store) HasValue(dim, value string) bool {
	values := s.distinct[dim]
	i := sort.SearchStrings(values, value)
	return i < len(values) && values[i] == value
}

// DayRows returns a fresh slice of the records on a single calendar day.
func (s *Store) DayRows(day time.Time) []model.TransactionRecord {
	idx := s.byDay[day.Truncate(24*time.Hour).Format(model.DayFormat)]
	rows := make([]model.TransactionRecord, len(idx))
	for i, j := range idx {
		rows[i] = s.records[j]
	}
	return rows
}

// Filter returns a fresh slice of records matching every filter's accepted
// value set (conjunction across dimensions, disjunction within a set).
// Filters are assumed validated against the dimension vocabulary.
func (s *Store) Filter(filters map[string][]string) []model.TransactionRecord {
	if len(filters) == 0 {
		out := make([]model.TransactionRecord, len(s.records))
		copy(out, s.records)
		return out
	}

	var out []model.TransactionRecord
	for i := range s.records {
		if MatchesFilters(&s.records[i], filters) {
			out = append(out, s.records[i])
		}
	}
	return out
}

func MatchesFilters(r *model.TransactionRecord, filters map[string][]string) bool {
	for dim, accepted := range filters {
		v, ok := r.DimensionValue(dim)
		if !ok {
			return false
		}
		matched := false
		for _, a := range accepted {
			if v == a {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Provider hands out the current store snapshot and swaps in replacements
// atomically. Readers holding an old snapshot keep iterating it safely.
type Provider struct {
	current atomic.Pointer[Store]
}

func NewProvider(s *Store) *Provider {
	p := &Provider{}
	p.current.Store(s)
	return p
}

func (p *Provider) Get() *Store { return p.current.Load() }

func (p *Provider) Replace(s *Store) { p.current.Store(s) }
