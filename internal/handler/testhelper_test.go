package handler

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"txninsights/internal/dto"
	"txninsights/internal/middleware"
	"txninsights/internal/model"
	"txninsights/internal/service"
	"txninsights/internal/store"
)

const fixtureLastDay = "2026-03-16"

// fixtureRecords builds 16 days of deterministic data with three known
// stories on the last day: pix collapses, credit holds steady and debit
// grows.
func fixtureRecords() []model.TransactionRecord {
	start, _ := time.Parse(model.DayFormat, "2026-03-01")

	var records []model.TransactionRecord
	for i := 0; i < 16; i++ {
		day := start.AddDate(0, 0, i)
		last := i == 15

		pixAmount := 1000.0
		pixQty := 100
		if last {
			pixAmount = 500.0
			pixQty = 50
		}
		records = append(records, model.TransactionRecord{
			Day:                  day,
			Entity:               "individual",
			Product:              "pix",
			PriceTier:            "standard",
			AnticipationMethod:   "none",
			SettlementSpeed:      "d0",
			PaymentMethod:        "pix",
			Installments:         1,
			AmountTransacted:     pixAmount,
			QuantityTransactions: pixQty,
			QuantityOfMerchants:  10,
		})

		records = append(records, model.TransactionRecord{
			Day:                  day,
			Entity:               "business",
			Product:              "pos",
			PriceTier:            "premium",
			AnticipationMethod:   "automatic",
			SettlementSpeed:      "d1",
			PaymentMethod:        "credit",
			Installments:         3,
			AmountTransacted:     3000.0,
			QuantityTransactions: 60,
			QuantityOfMerchants:  20,
		})

		debitAmount := 800.0
		if last {
			debitAmount = 1000.0
		}
		records = append(records, model.TransactionRecord{
			Day:                  day,
			Entity:               "individual",
			Product:              "link",
			PriceTier:            "standard",
			AnticipationMethod:   "none",
			SettlementSpeed:      "d1",
			PaymentMethod:        "debit",
			Installments:         1,
			AmountTransacted:     debitAmount,
			QuantityTransactions: 40,
			QuantityOfMerchants:  5,
		})
	}
	return records
}

func fixtureStore() *store.Store {
	return store.New(fixtureRecords())
}

type stubTranslator struct {
	spec *dto.QuerySpec
	err  error
}

func (s *stubTranslator) Translate(_ context.Context, _ string) (*dto.QuerySpec, error) {
	return s.spec, s.err
}

type stubSource struct {
	records []model.TransactionRecord
	err     error
}

func (s *stubSource) Load(_ context.Context) ([]model.TransactionRecord, error) {
	return s.records, s.err
}

func setupRouter(t *testing.T, translator *stubTranslator) (*gin.Engine, *store.Provider) {
	t.Helper()

	provider := store.NewProvider(fixtureStore())

	querySvc := service.NewQueryService()
	baselineSvc := service.NewBaselineService(service.DefaultBaselineWindowDays)
	alertSvc := service.NewAlertService(baselineSvc,
		service.DefaultVariationThresholdPct, service.DefaultZScoreThreshold)
	summarySvc := service.NewSummaryService()
	reportSvc := service.NewReportService(alertSvc)

	healthHandler := NewHealthHandler(provider)
	queryHandler := NewQueryHandler(nil, querySvc, provider)
	if translator != nil {
		queryHandler = NewQueryHandler(translator, querySvc, provider)
	}
	alertHandler := NewAlertHandler(alertSvc, provider)
	dataHandler := NewDataHandler(summarySvc, provider, &stubSource{records: fixtureRecords()})
	reportHandler := NewReportHandler(reportSvc, provider)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())

	router.GET("/health", healthHandler.Health)
	api := router.Group("/api/v1")
	api.POST("/query", queryHandler.Ask)
	api.POST("/query/execute", queryHandler.Execute)
	api.GET("/alerts", alertHandler.GetAlerts)
	api.GET("/data/summary", dataHandler.GetSummary)
	api.POST("/data/reload", dataHandler.Reload)
	api.GET("/reports/daily", reportHandler.GetReport)

	return router, provider
}
