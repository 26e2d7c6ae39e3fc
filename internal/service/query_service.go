package service

import (
	"sort"
	"strconv"
	"strings"

	"txninsights/internal/dto"
	"txninsights/internal/metric"
	"txninsights/internal/model"
	"txninsights/internal/store"
)

// QueryService executes structured query specifications against a store
// snapshot: validate, filter, group, aggregate, sort, limit.
type QueryService struct{}

func NewQueryService() *QueryService {
	return &QueryService{}
}

type QueryResult struct {
	Rows          []map[string]any `json:"rows"`
	HeadlineValue *float64         `json:"headline_value"`
	Metric        metric.Metric    `json:"metric"`
	MetricName    string           `json:"metric_name"`
	Explanation   string           `json:"explanation"`
}

const sortByMetric = "metric"

type groupRow struct {
	key    string
	values []string
	value  float64
}

func (s *QueryService) Execute(spec dto.QuerySpec, st *store.Store) (*QueryResult, error) {
	m, ok := metric.Parse(spec.Metric)
	if !ok {
		return nil, model.Invalid("metric", "unknown metric '%s'", spec.Metric)
	}

	for _, dim := range spec.GroupBy {
		if !model.IsDimension(dim) {
			return nil, model.Invalid("group_by", "unknown dimension '%s'", dim)
		}
	}

	filters, err := normalizeFilters(spec.Filters, st)
	if err != nil {
		return nil, err
	}

	sortBy := spec.SortBy
	if sortBy == "" {
		sortBy = sortByMetric
	}
	if sortBy != sortByMetric && !containsString(spec.GroupBy, sortBy) {
		return nil, model.Invalid("sort_by", "'%s' is neither 'metric' nor a group_by dimension", sortBy)
	}

	sortOrder := spec.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		return nil, model.Invalid("sort_order", "must be 'asc' or 'desc', got '%s'", spec.SortOrder)
	}

	if spec.Limit != nil && *spec.Limit <= 0 {
		return nil, model.Invalid("limit", "must be a positive integer, got %d", *spec.Limit)
	}

	filtered := st.Filter(filters)
	headline := metric.Compute(m, filtered)

	result := &QueryResult{
		Metric:      m,
		MetricName:  m.DisplayName(),
		Explanation: spec.Explanation,
	}

	if len(spec.GroupBy) == 0 {
		result.HeadlineValue = &headline
		result.Rows = []map[string]any{{"metric_value": headline}}
		return result, nil
	}

	groups := partition(filtered, spec.GroupBy, m)
	sortGroups(groups, spec.GroupBy, sortBy, sortOrder)

	if spec.Limit != nil && len(groups) > *spec.Limit {
		groups = groups[:*spec.Limit]
	}

	result.Rows = make([]map[string]any, len(groups))
	for i, g := range groups {
		row := make(map[string]any, len(spec.GroupBy)+1)
		for j, dim := range spec.GroupBy {
			row[dim] = g.values[j]
		}
		row["metric_value"] = g.value
		result.Rows[i] = row
	}

	// The headline is always the ungrouped value over the filtered set; it is
	// exposed when the result collapses to a single row.
	if len(result.Rows) == 1 {
		result.HeadlineValue = &headline
	}

	return result, nil
}

// normalizeFilters coerces the loosely typed filter mapping into value sets
// and rejects unknown dimensions and values not present in the dataset.
func normalizeFilters(raw map[string]any, st *store.Store) (map[string][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	filters := make(map[string][]string, len(raw))
	for dim, v := range raw {
		if !model.IsDimension(dim) {
			return nil, model.Invalid("filters", "unknown dimension '%s'", dim)
		}

		var values []string
		switch val := v.(type) {
		case string:
			values = []string{val}
		case float64:
			values = []string{formatNumber(val)}
		case []any:
			for _, item := range val {
				switch iv := item.(type) {
				case string:
					values = append(values, iv)
				case float64:
					values = append(values, formatNumber(iv))
				default:
					return nil, model.Invalid("filters", "unsupported value type for dimension '%s'", dim)
				}
			}
		default:
			return nil, model.Invalid("filters", "unsupported value type for dimension '%s'", dim)
		}

		if len(values) == 0 {
			return nil, model.Invalid("filters", "empty value set for dimension '%s'", dim)
		}
		for _, value := range values {
			if !st.HasValue(dim, value) {
				return nil, model.Invalid("filters", "unknown value '%s' for dimension '%s'", value, dim)
			}
		}
		filters[dim] = values
	}
	return filters, nil
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func partition(rows []model.TransactionRecord, groupBy []string, m metric.Metric) []groupRow {
	buckets := make(map[string][]model.TransactionRecord)
	valuesByKey := make(map[string][]string)

	for i := range rows {
		values := make([]string, len(groupBy))
		for j, dim := range groupBy {
			values[j], _ = rows[i].DimensionValue(dim)
		}
		key := strings.Join(values, "\x1f")
		buckets[key] = append(buckets[key], rows[i])
		valuesByKey[key] = values
	}

	groups := make([]groupRow, 0, len(buckets))
	for key, bucket := range buckets {
		groups = append(groups, groupRow{
			key:    key,
			values: valuesByKey[key],
			value:  metric.Compute(m, bucket),
		})
	}
	return groups
}

// sortGroups orders partitions by the requested sort key, breaking every tie
// by ascending group key so two identical calls deliver identical row order.
func sortGroups(groups []groupRow, groupBy []string, sortBy, sortOrder string) {
	asc := sortOrder == "asc"

	if sortBy == sortByMetric {
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].value != groups[j].value {
				if asc {
					return groups[i].value < groups[j].value
				}
				return groups[i].value > groups[j].value
			}
			return groups[i].key < groups[j].key
		})
		return
	}

	dimIdx := 0
	for j, dim := range groupBy {
		if dim == sortBy {
			dimIdx = j
			break
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		vi, vj := groups[i].values[dimIdx], groups[j].values[dimIdx]
		if vi != vj {
			if asc {
				return vi < vj
			}
			return vi > vj
		}
		return groups[i].key < groups[j].key
	})
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
