package dto

// QueryResponse mirrors what the query endpoint returns: the result rows,
// the scalar headline value when one applies, and the spec that produced it.
type QueryResponse struct {
	Data        []map[string]any `json:"data"`
	MetricValue *float64         `json:"metric_value"`
	MetricName  string           `json:"metric_name"`
	Explanation string           `json:"explanation"`
	QuerySpec   QuerySpec        `json:"query_spec"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
