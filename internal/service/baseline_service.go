package service

import (
	"math"
	"time"

	"txninsights/internal/metric"
	"txninsights/internal/model"
	"txninsights/internal/store"
)

const DefaultBaselineWindowDays = 14

// BaselineService computes current-day KPI values against historical
// references: exact single-day offsets (D-1, D-7, D-30) and a trailing
// baseline window ending the day before the reference day.
type BaselineService struct {
	windowDays int
}

func NewBaselineService(windowDays int) *BaselineService {
	if windowDays < 1 {
		windowDays = DefaultBaselineWindowDays
	}
	return &BaselineService{windowDays: windowDays}
}

func (s *BaselineService) WindowDays() int { return s.windowDays }

// BaselineSample carries one segment's current value, offset-day references
// and baseline statistics. Nullable fields are nil when the input cannot
// support them (missing offset day, short history, zero variance); alerting
// degrades gracefully instead of raising.
type BaselineSample struct {
	Metric             metric.Metric `json:"metric"`
	SegmentDimension   string        `json:"segment_dimension,omitempty"`
	SegmentValue       string        `json:"segment_value,omitempty"`
	ReferenceDay       string        `json:"reference_day"`
	CurrentValue       float64       `json:"current_value"`
	ValueD1            float64       `json:"value_d1"`
	ValueD7            float64       `json:"value_d7"`
	ValueD30           float64       `json:"value_d30"`
	VarD1              *float64      `json:"var_d1"`
	VarD7              *float64      `json:"var_d7"`
	VarD30             *float64      `json:"var_d30"`
	BaselineMean       *float64      `json:"baseline_mean"`
	BaselineStddev     *float64      `json:"baseline_stddev"`
	VarVsBaseline      *float64      `json:"var_vs_baseline"`
	ZScore             *float64      `json:"z_score"`
	BaselineWindowDays int           `json:"baseline_window_days"`
}

// Variation computes a BaselineSample for a metric at a reference day,
// optionally restricted to one segment value of one dimension.
func (s *BaselineService) Variation(m metric.Metric, refDay time.Time, segmentDim, segmentValue string, st *store.Store) BaselineSample {
	refDay = refDay.Truncate(24 * time.Hour)

	current, _ := s.dayValue(m, refDay, segmentDim, segmentValue, st)
	d1, okD1 := s.dayValue(m, refDay.AddDate(0, 0, -1), segmentDim, segmentValue, st)
	d7, okD7 := s.dayValue(m, refDay.AddDate(0, 0, -7), segmentDim, segmentValue, st)
	d30, okD30 := s.dayValue(m, refDay.AddDate(0, 0, -30), segmentDim, segmentValue, st)

	sample := BaselineSample{
		Metric:             m,
		SegmentDimension:   segmentDim,
		SegmentValue:       segmentValue,
		ReferenceDay:       refDay.Format(model.DayFormat),
		CurrentValue:       current,
		ValueD1:            d1,
		ValueD7:            d7,
		ValueD30:           d30,
		VarD1:              variationPct(current, d1, okD1),
		VarD7:              variationPct(current, d7, okD7),
		VarD30:             variationPct(current, d30, okD30),
		BaselineWindowDays: s.windowDays,
	}

	// One metric value per calendar day present in the trailing window,
	// exclusive of the reference day. Day-level values keep intra-day
	// transaction variance out of the baseline noise estimate.
	var daily []float64
	for offset := s.windowDays; offset >= 1; offset-- {
		v, ok := s.dayValue(m, refDay.AddDate(0, 0, -offset), segmentDim, segmentValue, st)
		if ok {
			daily = append(daily, v)
		}
	}

	if len(daily) < 2 {
		return sample
	}

	mean, stddev := meanStddev(daily)
	sample.BaselineMean = &mean
	sample.BaselineStddev = &stddev
	sample.VarVsBaseline = variationPct(current, mean, true)

	if stddev > 0 {
		z := (current - mean) / stddev
		sample.ZScore = &z
	}

	return sample
}

// dayValue computes the metric over a single day's rows, optionally within a
// segment. ok is false when no rows match, so callers can distinguish a true
// zero from an absent day.
func (s *BaselineService) dayValue(m metric.Metric, day time.Time, segmentDim, segmentValue string, st *store.Store) (float64, bool) {
	rows := st.DayRows(day)
	if segmentDim != "" {
		matched := rows[:0:0]
		for i := range rows {
			v, _ := rows[i].DimensionValue(segmentDim)
			if v == segmentValue {
				matched = append(matched, rows[i])
			}
		}
		rows = matched
	}
	if len(rows) == 0 {
		return 0, false
	}
	return metric.Compute(m, rows), true
}

// variationPct is nil when the past day had no rows or a zero value; a
// signed percentage against nothing would read as a misleading ±100%.
func variationPct(current, past float64, pastPresent bool) *float64 {
	if !pastPresent || past == 0 {
		return nil
	}
	v := (current - past) / math.Abs(past) * 100
	return &v
}

// meanStddev returns the sample mean and sample standard deviation.
func meanStddev(values []float64) (float64, float64) {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(ss / (n - 1))
}
