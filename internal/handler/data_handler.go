package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"txninsights/internal/dataset"
	"txninsights/internal/service"
	"txninsights/internal/store"
)

type DataHandler struct {
	svc      *service.SummaryService
	provider *store.Provider
	source   dataset.Source
}

func NewDataHandler(svc *service.SummaryService, provider *store.Provider, source dataset.Source) *DataHandler {
	return &DataHandler{svc: svc, provider: provider, source: source}
}

func (h *DataHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Summarize(h.provider.Get()))
}

// Reload re-reads the dataset source and swaps the store atomically.
// In-flight requests keep the snapshot they started with.
func (h *DataHandler) Reload(c *gin.Context) {
	records, err := h.source.Load(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	st := store.New(records)
	h.provider.Replace(st)

	log.Info().Int("rows", st.Len()).Msg("dataset reloaded")
	c.JSON(http.StatusOK, gin.H{
		"status": "reloaded",
		"rows":   st.Len(),
	})
}
