package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txninsights/internal/store"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("happy: loaded dataset reports healthy", func(t *testing.T) {
		router, _ := setupRouter(t, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Status    string `json:"status"`
			Dataset   string `json:"dataset"`
			Rows      int    `json:"rows"`
			DateRange struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"date_range"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "loaded", resp.Dataset)
		assert.Equal(t, 48, resp.Rows)
		assert.Equal(t, "2026-03-01", resp.DateRange.Start)
		assert.Equal(t, fixtureLastDay, resp.DateRange.End)
	})

	t.Run("bad: empty dataset reports unhealthy", func(t *testing.T) {
		provider := store.NewProvider(store.New(nil))
		router := gin.New()
		router.GET("/health", NewHealthHandler(provider).Health)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
