package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"txninsights/internal/dto"
	"txninsights/internal/metric"
	"txninsights/internal/model"
	"txninsights/internal/service"
	"txninsights/internal/store"
)

type AlertHandler struct {
	svc      *service.AlertService
	provider *store.Provider
}

func NewAlertHandler(svc *service.AlertService, provider *store.Provider) *AlertHandler {
	return &AlertHandler{svc: svc, provider: provider}
}

// GetAlerts runs the daily anomaly scan for the reference day and returns
// the per-metric summary, the flagged segments and the ranked insights.
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	st := h.provider.Get()

	m, ok := metric.Parse(c.DefaultQuery("metric", string(metric.TPV)))
	if !ok {
		c.Error(model.Invalid("metric", "unknown metric %q", c.Query("metric")))
		return
	}
	period := c.DefaultQuery("period", "d7")
	dimension := c.Query("dimension")

	refDay, err := referenceDay(c, st)
	if err != nil {
		c.Error(err)
		return
	}

	var alerts []service.Alert
	for _, am := range []metric.Metric{metric.TPV, metric.AverageTicket} {
		scanned, err := h.svc.Scan(c.Request.Context(), am, refDay, st)
		if err != nil {
			c.Error(err)
			return
		}
		alerts = append(alerts, scanned...)
	}

	insights, err := h.svc.TopInsights(m, refDay, period, dimension, st)
	if err != nil {
		c.Error(err)
		return
	}

	params := dto.ParsePagination(c)
	total := len(alerts)
	page := paginateAlerts(alerts, params)

	c.JSON(http.StatusOK, gin.H{
		"reference_day": refDay.Format(model.DayFormat),
		"daily_summary": h.svc.DailySummary(m, refDay, st),
		"alerts":        page,
		"top_insights":  insights,
		"pagination":    dto.NewPagination(params.Page, params.PageSize, total),
	})
}

func paginateAlerts(alerts []service.Alert, p dto.PaginationParams) []service.Alert {
	if p.Offset >= len(alerts) {
		return []service.Alert{}
	}
	end := p.Offset + p.PageSize
	if end > len(alerts) {
		end = len(alerts)
	}
	return alerts[p.Offset:end]
}

// referenceDay resolves the optional date query param, defaulting to the
// most recent day in the dataset.
func referenceDay(c *gin.Context, st *store.Store) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return st.LastDay(), nil
	}
	day, err := time.Parse(model.DayFormat, raw)
	if err != nil {
		return time.Time{}, model.Invalid("date", "expected %s, got %q", model.DayFormat, raw)
	}
	return day, nil
}
