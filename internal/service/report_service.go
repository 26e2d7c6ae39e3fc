package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"txninsights/internal/metric"
	"txninsights/internal/store"
)

// ReportService assembles the daily KPI report: per-metric summaries,
// anomaly alerts and top insights for the reference day.
type ReportService struct {
	alertSvc *AlertService
}

func NewReportService(alertSvc *AlertService) *ReportService {
	return &ReportService{alertSvc: alertSvc}
}

type ReportData struct {
	GeneratedAt  string         `json:"generated_at"`
	ReferenceDay string         `json:"reference_day"`
	Summaries    []DailySummary `json:"summaries"`
	Alerts       []Alert        `json:"alerts"`
	TopInsights  []TopInsight   `json:"top_insights"`
}

func (s *ReportService) GenerateReport(ctx context.Context, refDay time.Time, st *store.Store) (*ReportData, error) {
	summaries := make([]DailySummary, 0, len(metric.All))
	for _, m := range metric.All {
		summaries = append(summaries, s.alertSvc.DailySummary(m, refDay, st))
	}

	var alerts []Alert
	for _, m := range []metric.Metric{metric.TPV, metric.AverageTicket} {
		scanned, err := s.alertSvc.Scan(ctx, m, refDay, st)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, scanned...)
	}

	insights, err := s.alertSvc.TopInsights(metric.TPV, refDay, "d7", "", st)
	if err != nil {
		return nil, err
	}

	return &ReportData{
		GeneratedAt:  time.Now().Format("2006-01-02 15:04:05 MST"),
		ReferenceDay: refDay.Format("2006-01-02"),
		Summaries:    summaries,
		Alerts:       alerts,
		TopInsights:  insights,
	}, nil
}

var ReportTemplate string // Set from main via embed

func (s *ReportService) RenderHTML(data *ReportData) (string, error) {
	funcMap := template.FuncMap{
		"toLower": strings.ToLower,
		"pct": func(v *float64) string {
			if v == nil {
				return "n/a"
			}
			return fmt.Sprintf("%+.1f%%", *v)
		},
		"money": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(ReportTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
