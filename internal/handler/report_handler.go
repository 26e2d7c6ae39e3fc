package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"txninsights/internal/service"
	"txninsights/internal/store"
)

type ReportHandler struct {
	svc      *service.ReportService
	provider *store.Provider
}

func NewReportHandler(svc *service.ReportService, provider *store.Provider) *ReportHandler {
	return &ReportHandler{svc: svc, provider: provider}
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	st := h.provider.Get()

	refDay, err := referenceDay(c, st)
	if err != nil {
		c.Error(err)
		return
	}

	data, err := h.svc.GenerateReport(c.Request.Context(), refDay, st)
	if err != nil {
		c.Error(err)
		return
	}

	format := c.Query("format")
	wantsHTML := format == "html" || strings.Contains(c.GetHeader("Accept"), "text/html")

	if wantsHTML {
		html, err := h.svc.RenderHTML(data)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render HTML: " + err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	c.JSON(http.StatusOK, data)
}
