package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port    string
	GinMode string

	// Dataset source: "csv" reads CSVPath, "postgres" reads the
	// transactions table behind DatabaseURL().
	DataSource string
	CSVPath    string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	AutoSeed    bool

	GeminiModel string

	BaselineWindowDays    int
	VariationThresholdPct float64
	ZScoreThreshold       float64
}

func Load() *Config {
	return &Config{
		Port:       getEnv("PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		DataSource: getEnv("DATA_SOURCE", "csv"),
		CSVPath:    getEnv("CSV_PATH", "transactions.csv"),

		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "txninsights"),
		DBPassword:  getEnv("DB_PASSWORD", "txninsights_secret"),
		DBName:      getEnv("DB_NAME", "txninsights"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		AutoSeed:    getEnv("AUTO_SEED", "false") == "true",

		GeminiModel: getEnv("GEMINI_MODEL", ""),

		BaselineWindowDays:    getEnvInt("BASELINE_WINDOW_DAYS", 14),
		VariationThresholdPct: getEnvFloat("VARIATION_THRESHOLD_PCT", 15),
		ZScoreThreshold:       getEnvFloat("ZSCORE_THRESHOLD", 2),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
