package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"txninsights/internal/model"
	"txninsights/internal/store"
)

type HealthHandler struct {
	provider *store.Provider
}

func NewHealthHandler(provider *store.Provider) *HealthHandler {
	return &HealthHandler{provider: provider}
}

func (h *HealthHandler) Health(c *gin.Context) {
	st := h.provider.Get()

	if st == nil || st.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"dataset": "empty",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"dataset": "loaded",
		"rows":    st.Len(),
		"date_range": gin.H{
			"start": st.FirstDay().Format(model.DayFormat),
			"end":   st.LastDay().Format(model.DayFormat),
		},
	})
}
