package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultTickers is the BIST portfolio covered by the dashboard and the
// assistant's quote functions. Overridable via the TICKERS env var.
var DefaultTickers = []string{
	"HALKB", // Turkiye Halk Bankasi
	"VAKBN", // Turkiye Vakiflar Bankasi
	"TURSG", // Turkiye Sigorta
	"TTKOM", // Turk Telekom
	"TRMET", // Turk Metal
	"TRENJ", // Turk Traktor
	"TRALT", // Turk Altin
	"THYAO", // Turkish Airlines
	"TCELL", // Turkcell
	"KRDMD", // Kardemir
}

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	LogLevel     string
	WorkbookPath string // local .xlsx path or s3://bucket/key
	DatabasePath string
	DataDir      string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	RefreshSchedule   string
	QuotePollSchedule string

	Tickers []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvAsInt("PORT", 8090),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		WorkbookPath:      getEnv("WORKBOOK_PATH", "./data/TVF Portfolio V4.xlsx"),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/bistboard.db"),
		DataDir:           getEnv("DATA_DIR", "./data"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		RefreshSchedule:   getEnv("REFRESH_SCHEDULE", "@every 30m"),
		QuotePollSchedule: getEnv("QUOTE_POLL_SCHEDULE", "@every 15m"),
		Tickers:           getEnvAsList("TICKERS", DefaultTickers),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.WorkbookPath == "" {
		return fmt.Errorf("WORKBOOK_PATH is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	// Note: OPENAI_API_KEY is optional; without it the chat assistant is
	// disabled but the dashboard still serves.

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
