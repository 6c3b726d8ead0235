package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
)

// DefaultSheetURL is the shared spreadsheet the dashboard reads by default
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/1xLbLDnolTc9Cx9AfcNZeAJZ7HXglu-0w58kaDxLrSjc/edit?usp=sharing"

// Config holds application configuration
type Config struct {
	HTTPPort  int
	LogLevel  string
	PublicDir string

	// Stock spreadsheet
	Sheet SheetConfig

	// Analysis provider
	LLM LLMConfig

	// Redis configuration
	Redis RedisConfig

	// Analysis history archive
	Database DatabaseConfig

	// Webhook notifications
	Webhook WebhookConfig
}

// SheetConfig holds the stock source configuration
type SheetConfig struct {
	URL         string
	CSVBaseURL  string
	RefreshCron string        // empty disables scheduled reloads
	CacheTTL    time.Duration // CSV cache in Redis, 0 disables
}

// LLMConfig holds analysis provider configuration
type LLMConfig struct {
	Provider    string // gemini, openai or anthropic
	APIKey      string
	Endpoint    string // OpenAI-compatible base URL
	Model       string
	Temperature float64
	MaxTokens   int
	WebSearch   bool          // Gemini Google Search grounding
	CacheTTL    time.Duration // analysis cache in Redis, 0 disables
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// WebhookConfig holds webhook delivery settings
type WebhookConfig struct {
	URLs     []string
	Timeout  time.Duration
	Attempts int // delivery attempts per URL
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}

	return &Config{
		HTTPPort:  getEnvInt("HTTP_PORT", 8080),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		PublicDir: getEnvOrDefault("PUBLIC_DIR", "./public"),

		Sheet: SheetConfig{
			URL:         getEnvOrDefault("SHEET_URL", DefaultSheetURL),
			CSVBaseURL:  getEnvOrDefault("SHEET_CSV_BASE_URL", "https://docs.google.com"),
			RefreshCron: os.Getenv("STOCKS_REFRESH_CRON"),
			CacheTTL:    getEnvDuration("STOCKS_CACHE_TTL", 5*time.Minute),
		},

		LLM: LLMConfig{
			Provider:    strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "gemini")),
			APIKey:      apiKey,
			Endpoint:    getEnvOrDefault("LLM_ENDPOINT", "https://api.openai.com/v1"),
			Model:       os.Getenv("LLM_MODEL"),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.3),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 2048),
			WebSearch:   getEnvBool("LLM_WEB_SEARCH", true),
			CacheTTL:    getEnvDuration("ANALYSIS_CACHE_TTL", 0),
		},

		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
		},

		Database: DatabaseConfig{
			Enabled:  getEnvBool("DB_ENABLED", false),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			Name:     getEnvOrDefault("DB_NAME", "sector_scout"),
			User:     getEnvOrDefault("DB_USER", "sector_scout"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
		},

		Webhook: WebhookConfig{
			URLs:     getEnvList("WEBHOOK_URLS"),
			Timeout:  getEnvDuration("WEBHOOK_TIMEOUT", 10*time.Second),
			Attempts: getEnvInt("WEBHOOK_ATTEMPTS", 1),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer, using default")
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid float, using default")
		return defaultValue
	}
	return floatValue
}

// getEnvBool accepts the strconv.ParseBool spellings
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvDuration parses values like "30s" or "5m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
