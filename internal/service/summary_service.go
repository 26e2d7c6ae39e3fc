package service

import (
	"txninsights/internal/metric"
	"txninsights/internal/model"
	"txninsights/internal/store"
)

type SummaryService struct{}

func NewSummaryService() *SummaryService {
	return &SummaryService{}
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DatasetSummary struct {
	TotalRows      int       `json:"total_rows"`
	DateRange      DateRange `json:"date_range"`
	TotalTPV       float64   `json:"total_tpv"`
	AverageTicket  float64   `json:"average_ticket"`
	UniqueEntities int       `json:"unique_entities"`
	UniqueProducts int       `json:"unique_products"`
	TotalMerchants float64   `json:"total_merchants"`
}

func (s *SummaryService) Summarize(st *store.Store) DatasetSummary {
	rows := st.Rows()

	summary := DatasetSummary{
		TotalRows:      st.Len(),
		TotalTPV:       metric.Compute(metric.TPV, rows),
		AverageTicket:  metric.Compute(metric.AverageTicket, rows),
		TotalMerchants: metric.Compute(metric.MerchantCount, rows),
		UniqueEntities: len(st.DistinctValues("entity")),
		UniqueProducts: len(st.DistinctValues("product")),
	}
	if st.Len() > 0 {
		summary.DateRange = DateRange{
			Start: st.FirstDay().Format(model.DayFormat),
			End:   st.LastDay().Format(model.DayFormat),
		}
	}
	return summary
}
