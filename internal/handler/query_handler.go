package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"txninsights/internal/dto"
	"txninsights/internal/llm"
	"txninsights/internal/service"
	"txninsights/internal/store"
)

type QueryHandler struct {
	translator llm.Translator
	svc        *service.QueryService
	provider   *store.Provider
}

func NewQueryHandler(translator llm.Translator, svc *service.QueryService, provider *store.Provider) *QueryHandler {
	return &QueryHandler{translator: translator, svc: svc, provider: provider}
}

// Ask answers a free-text business question: the translator turns it into a
// structured spec, which then runs through the same path as Execute.
func (h *QueryHandler) Ask(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if h.translator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "query translation is not configured"})
		return
	}

	spec, err := h.translator.Translate(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to translate question: " + err.Error()})
		return
	}

	h.respond(c, *spec)
}

// Execute runs a structured query spec directly, bypassing the translator.
func (h *QueryHandler) Execute(c *gin.Context) {
	var spec dto.QuerySpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	h.respond(c, spec)
}

func (h *QueryHandler) respond(c *gin.Context, spec dto.QuerySpec) {
	result, err := h.svc.Execute(spec, h.provider.Get())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.QueryResponse{
		Data:        result.Rows,
		MetricValue: result.HeadlineValue,
		MetricName:  result.MetricName,
		Explanation: result.Explanation,
		QuerySpec:   spec,
	})
}
