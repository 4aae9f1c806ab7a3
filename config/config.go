package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Upstream  UpstreamConfig
	RateLimit RateLimitConfig
	App       AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	// Driver selects the persistence adapter: "sqlite" or "postgres".
	Driver     string
	DSN        string
	SQLitePath string
}

type CORSConfig struct {
	// Origin is the single allowed origin. "*" allows any origin.
	Origin string
}

type UpstreamConfig struct {
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiKey     string
	GeminiBaseURL string
	GeminiModel   string

	AlgoliaAppID   string
	AlgoliaAPIKey  string
	AlgoliaIndex   string
	AlgoliaBaseURL string

	PexelsKey     string
	PexelsBaseURL string
}

type RateLimitConfig struct {
	Enabled   bool
	Limit     int
	Window    time.Duration
	RedisAddr string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			DSN:        getEnv("DB_DSN", ""),
			SQLitePath: getEnv("SQLITE_PATH", "projectdesk.db"),
		},
		CORS: CORSConfig{
			Origin: getEnv("CORS_ORIGIN", "*"),
		},
		Upstream: UpstreamConfig{
			OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-3.5-turbo-instruct"),
			GeminiKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiBaseURL:  getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			AlgoliaAppID:   getEnv("ALGOLIA_APP_ID", ""),
			AlgoliaAPIKey:  getEnv("ALGOLIA_API_KEY", ""),
			AlgoliaIndex:   getEnv("ALGOLIA_INDEX", ""),
			AlgoliaBaseURL: getEnv("ALGOLIA_BASE_URL", ""),
			PexelsKey:      getEnv("PEXELS_API_KEY", ""),
			PexelsBaseURL:  getEnv("PEXELS_BASE_URL", "https://api.pexels.com"),
		},
		RateLimit: RateLimitConfig{
			Enabled:   getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Limit:     getEnvAsInt("RATE_LIMIT_MAX", 5),
			Window:    time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
			RedisAddr: getEnv("REDIS_ADDR", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that are fatal at startup. Proxy credentials
// are deliberately not checked here: a missing credential fails the matching
// endpoint at request time, not the whole process.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.Database.Driver)
	}

	if c.RateLimit.Limit <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}
