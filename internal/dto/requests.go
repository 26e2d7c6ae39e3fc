package dto

// QueryRequest carries a free-text business question to be translated into a
// QuerySpec by the language model collaborator.
type QueryRequest struct {
	Question string `json:"question" binding:"required,min=3,max=500"`
}

// QuerySpec is the structured query specification. It is produced either by
// the translation step or directly by the caller, and is always validated
// defensively before execution; the producer is never trusted to have
// respected its own contract.
type QuerySpec struct {
	Metric      string         `json:"metric" binding:"required"`
	GroupBy     []string       `json:"group_by"`
	Filters     map[string]any `json:"filters"`
	SortBy      string         `json:"sort_by"`
	SortOrder   string         `json:"sort_order"`
	Limit       *int           `json:"limit"`
	Explanation string         `json:"explanation"`
}
