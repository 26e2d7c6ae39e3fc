package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txninsights/internal/service"
)

type alertsResponse struct {
	ReferenceDay string               `json:"reference_day"`
	DailySummary service.DailySummary `json:"daily_summary"`
	Alerts       []service.Alert      `json:"alerts"`
	TopInsights  []service.TopInsight `json:"top_insights"`
	Pagination   struct {
		TotalItems int `json:"total_items"`
	} `json:"pagination"`
}

func getURL(t *testing.T, router http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", url, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestAlertHandler_GetAlerts(t *testing.T) {
	t.Run("happy: pix collapse is flagged as a warning", func(t *testing.T) {
		router, _ := setupRouter(t, nil)

		w := getURL(t, router, "/api/v1/alerts")
		require.Equal(t, http.StatusOK, w.Code)

		var resp alertsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, fixtureLastDay, resp.ReferenceDay)
		assert.Equal(t, fixtureLastDay, resp.DailySummary.Date)
		assert.InDelta(t, 4500, resp.DailySummary.ValueCurrent, 1e-9)
		require.NotNil(t, resp.DailySummary.VarD7)
		assert.InDelta(t, -6.25, *resp.DailySummary.VarD7, 1e-9)
		assert.Nil(t, resp.DailySummary.VarD30)

		var pixAlert *service.Alert
		for i := range resp.Alerts {
			a := resp.Alerts[i]
			if a.SegmentDimension == "payment_method" && a.SegmentValue == "pix" && a.Metric == "tpv" {
				pixAlert = &resp.Alerts[i]
				break
			}
		}
		require.NotNil(t, pixAlert, "expected a tpv alert for payment_method=pix")
		assert.Equal(t, service.SeverityWarning, pixAlert.Severity)
		require.NotNil(t, pixAlert.VariationPct)
		assert.InDelta(t, -50, *pixAlert.VariationPct, 1e-9)
		assert.NotEmpty(t, pixAlert.AlertID)
		assert.Contains(t, pixAlert.Message, "pix")

		assert.Equal(t, len(resp.Alerts), resp.Pagination.TotalItems)
		assert.NotEmpty(t, resp.TopInsights)
	})

	t.Run("happy: growth shows up as info severity", func(t *testing.T) {
		router, _ := setupRouter(t, nil)

		w := getURL(t, router, "/api/v1/alerts")
		require.Equal(t, http.StatusOK, w.Code)

		var resp alertsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		found := false
		for _, a := range resp.Alerts {
			if a.SegmentDimension == "payment_method" && a.SegmentValue == "debit" && a.Metric == "tpv" {
				found = true
				assert.Equal(t, service.SeverityInfo, a.Severity)
				require.NotNil(t, a.VariationPct)
				assert.InDelta(t, 25, *a.VariationPct, 1e-9)
			}
		}
		assert.True(t, found, "expected a tpv alert for payment_method=debit")
	})

	t.Run("happy: page_size slices alerts but keeps total", func(t *testing.T) {
		router, _ := setupRouter(t, nil)

		w := getURL(t, router, "/api/v1/alerts?page_size=1")
		require.Equal(t, http.StatusOK, w.Code)

		var resp alertsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Alerts, 1)
		assert.Greater(t, resp.Pagination.TotalItems, 1)
	})

	t.Run("happy: scan output is deterministic", func(t *testing.T) {
		router, _ := setupRouter(t, nil)

		first := getURL(t, router, "/api/v1/alerts").Body.String()
		second := getURL(t, router, "/api/v1/alerts").Body.String()
		assert.Equal(t, first, second)
	})

	t.Run("bad: unknown metric", func(t *testing.T) {
		router, _ := setupRouter(t, nil)
		w := getURL(t, router, "/api/v1/alerts?metric=revenue")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: unknown period", func(t *testing.T) {
		router, _ := setupRouter(t, nil)
		w := getURL(t, router, "/api/v1/alerts?period=d90")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: malformed date", func(t *testing.T) {
		router, _ := setupRouter(t, nil)
		w := getURL(t, router, "/api/v1/alerts?date=16-03-2026")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
