package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"txninsights/internal/config"
	"txninsights/internal/database"
	"txninsights/internal/dataset"
	"txninsights/internal/handler"
	"txninsights/internal/llm"
	"txninsights/internal/middleware"
	"txninsights/internal/service"
	"txninsights/internal/store"
	"txninsights/internal/templates"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	service.ReportTemplate = templates.ReportHTML

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	source := buildSource(ctx, cfg)

	records, err := source.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dataset")
	}
	cancel()

	st := store.New(records)
	if st.Len() == 0 {
		log.Warn().Msg("dataset is empty; queries will return no data until a reload")
	} else {
		log.Info().
			Int("rows", st.Len()).
			Str("first_day", st.FirstDay().Format("2006-01-02")).
			Str("last_day", st.LastDay().Format("2006-01-02")).
			Msg("dataset loaded")
	}
	provider := store.NewProvider(st)

	translator := buildTranslator(cfg)

	querySvc := service.NewQueryService()
	baselineSvc := service.NewBaselineService(cfg.BaselineWindowDays)
	alertSvc := service.NewAlertService(baselineSvc, cfg.VariationThresholdPct, cfg.ZScoreThreshold)
	summarySvc := service.NewSummaryService()
	reportSvc := service.NewReportService(alertSvc)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(provider)
	queryHandler := handler.NewQueryHandler(translator, querySvc, provider)
	alertHandler := handler.NewAlertHandler(alertSvc, provider)
	dataHandler := handler.NewDataHandler(summarySvc, provider, source)
	reportHandler := handler.NewReportHandler(reportSvc, provider)

	router.GET("/health", healthHandler.Health)
	api := router.Group("/api/v1")
	{
		api.POST("/query", queryHandler.Ask)
		api.POST("/query/execute", queryHandler.Execute)
		api.GET("/alerts", alertHandler.GetAlerts)
		api.GET("/data/summary", dataHandler.GetSummary)
		api.POST("/data/reload", dataHandler.Reload)
		api.GET("/reports/daily", reportHandler.GetReport)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// buildSource picks the dataset source. The store itself is always
// in-memory; Postgres and CSV only differ in where the rows come from.
func buildSource(ctx context.Context, cfg *config.Config) dataset.Source {
	switch cfg.DataSource {
	case "postgres":
		pool, err := database.NewPool(ctx, cfg.DatabaseURL())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}

		if cfg.AutoMigrate {
			if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
				log.Fatal().Err(err).Msg("failed to run migrations")
			}
		}
		if cfg.AutoSeed {
			if err := database.SeedData(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("failed to seed data")
			}
		}

		return dataset.NewPostgresSource(pool)
	case "csv":
		return dataset.NewCSVSource(cfg.CSVPath)
	default:
		log.Fatal().Str("source", cfg.DataSource).Msg("unknown DATA_SOURCE, expected csv or postgres")
		return nil
	}
}

// buildTranslator is best-effort: without an API key the query translation
// endpoint reports itself unavailable and everything else still works.
func buildTranslator(cfg *config.Config) llm.Translator {
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		log.Warn().Msg("no Gemini API key configured; free-text queries disabled")
		return nil
	}

	translator, err := llm.NewGeminiTranslator(context.Background(), cfg.GeminiModel)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Gemini client; free-text queries disabled")
		return nil
	}
	return translator
}
