package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Provider ProviderConfig
	Analysis AnalysisConfig
	Universe UniverseConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// ProviderConfig holds market-data provider configuration.
// An empty APIKey is not a startup error; the provider client reports it
// the first time a call is attempted.
type ProviderConfig struct {
	APIKey      string
	MinInterval time.Duration
}

// AnalysisConfig holds the narrative-analysis cooldown window.
type AnalysisConfig struct {
	Cooldown time.Duration
}

// UniverseConfig holds the optional ticker allow-list settings.
// Mode "enforce" makes universe membership authoritative; "advisory" lets a
// miss fall through to the provider check.
type UniverseConfig struct {
	Path string
	Mode string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cooldownSeconds, err := getEnvInt("ANALYSIS_COOLDOWN_SECONDS", 86400)
	if err != nil {
		return nil, err
	}
	minIntervalMs, err := getEnvInt("PROVIDER_MIN_INTERVAL_MS", 1100)
	if err != nil {
		return nil, err
	}

	universeMode := getEnv("TICKER_UNIVERSE_MODE", "enforce")
	if universeMode != "enforce" && universeMode != "advisory" {
		return nil, fmt.Errorf("TICKER_UNIVERSE_MODE must be enforce or advisory, got %q", universeMode)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_analyzer.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Provider: ProviderConfig{
			APIKey:      os.Getenv("ALPHA_VANTAGE_KEY"),
			MinInterval: time.Duration(minIntervalMs) * time.Millisecond,
		},
		Analysis: AnalysisConfig{
			Cooldown: time.Duration(cooldownSeconds) * time.Second,
		},
		Universe: UniverseConfig{
			Path: os.Getenv("TICKER_UNIVERSE_PATH"),
			Mode: universeMode,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return parsed, nil
}
