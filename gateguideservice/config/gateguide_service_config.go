package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Beastbaba/Gateguide/internal/middleware"
)

// AppConfig is the canonical, validated configuration object used throughout
// the application. It is created by NewConfigFromYaml (Stage 1) and finalized
// by UpdateConfigWithEnvOverrides (Stage 2).
type AppConfig struct {
	ProjectID            string
	RunMode              string
	APIPort              string
	WebSocketPort        string
	CorsConfig           middleware.CorsConfig
	History              YamlHistoryConfig
	Catalog              YamlCatalogConfig
	AlertsTopicID        string
	AlertsSubscriptionID string
	AlertsTopicDLQID     string
	NumPipelineWorkers   int
}

// UpdateConfigWithEnvOverrides takes the base configuration (created from
// YAML) and completes it by applying environment variables and final
// validation. This function completes "Stage 2" of configuration loading.
func UpdateConfigWithEnvOverrides(cfg *AppConfig, logger *slog.Logger) (*AppConfig, error) {
	logger.Debug("Applying environment variable overrides...")

	if projectID := os.Getenv("GCP_PROJECT_ID"); projectID != "" {
		logger.Debug("Overriding config value", "key", "GCP_PROJECT_ID", "source", "env")
		cfg.ProjectID = projectID
	}
	if port := os.Getenv("API_PORT"); port != "" {
		logger.Debug("Overriding config value", "key", "API_PORT", "source", "env")
		cfg.APIPort = port
	}
	if port := os.Getenv("WEBSOCKET_PORT"); port != "" {
		logger.Debug("Overriding config value", "key", "WEBSOCKET_PORT", "source", "env")
		cfg.WebSocketPort = port
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		logger.Debug("Overriding config value", "key", "REDIS_ADDR", "source", "env")
		cfg.History.Redis.Addr = redisAddr
	}
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		logger.Debug("Overriding config value", "key", "CORS_ALLOWED_ORIGINS", "source", "env")
		rawOrigins := strings.Split(corsOrigins, ",")
		var cleanOrigins []string
		for _, o := range rawOrigins {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cleanOrigins = append(cleanOrigins, trimmed)
			}
		}
		cfg.CorsConfig.AllowedOrigins = cleanOrigins
	}

	if cfg.APIPort == "" {
		logger.Error("Final config validation failed", "error", "API_PORT is not set")
		return nil, fmt.Errorf("API_PORT is not set in config or env var")
	}
	if cfg.WebSocketPort == "" {
		logger.Error("Final config validation failed", "error", "WEBSOCKET_PORT is not set")
		return nil, fmt.Errorf("WEBSOCKET_PORT is not set in config or env var")
	}
	// Local runs are self-contained and do not need a GCP project.
	if cfg.ProjectID == "" && cfg.RunMode != "local" {
		logger.Error("Final config validation failed", "error", "GCP_PROJECT_ID is not set")
		return nil, fmt.Errorf("GCP_PROJECT_ID is not set in config or env var")
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}
