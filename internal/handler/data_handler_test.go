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

func TestDataHandler_GetSummary(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := getURL(t, router, "/api/v1/data/summary")
	require.Equal(t, http.StatusOK, w.Code)

	var resp service.DatasetSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 48, resp.TotalRows)
	assert.Equal(t, "2026-03-01", resp.DateRange.Start)
	assert.Equal(t, fixtureLastDay, resp.DateRange.End)
	assert.InDelta(t, 76500, resp.TotalTPV, 1e-9)
	assert.Equal(t, 2, resp.UniqueEntities)
	assert.Equal(t, 3, resp.UniqueProducts)
	assert.Greater(t, resp.AverageTicket, 0.0)
}

func TestDataHandler_Reload(t *testing.T) {
	t.Run("happy: swaps the store atomically", func(t *testing.T) {
		router, provider := setupRouter(t, nil)
		before := provider.Get()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/data/reload", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Status string `json:"status"`
			Rows   int    `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "reloaded", resp.Status)
		assert.Equal(t, 48, resp.Rows)

		after := provider.Get()
		assert.NotSame(t, before, after)
		assert.Equal(t, before.Len(), after.Len())
	})
}
