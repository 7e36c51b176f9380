// Package config holds the two-stage configuration for the GateGuide service:
// an embedded YAML file provides the base values (Stage 1), which are then
// finalized with environment variable overrides and validation (Stage 2).
package config

import (
	"log/slog"

	"github.com/Beastbaba/Gateguide/internal/middleware"
)

// --- YAML-Specific Structs ---

type YamlRedisConfig struct {
	Addr string `yaml:"addr"`
}

// YamlHistoryConfig selects the notification history backend.
type YamlHistoryConfig struct {
	Type       string          `yaml:"type"` // "redis" or "memory"
	Redis      YamlRedisConfig `yaml:"redis"`
	MaxEntries int             `yaml:"max_entries"`
}

// YamlCatalogConfig selects the flight/gate catalog backend.
type YamlCatalogConfig struct {
	Type string `yaml:"type"` // "firestore" or "memory"
}

type YamlCorsConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// YamlConfig defines the structure for unmarshaling the embedded config.yaml file.
type YamlConfig struct {
	ProjectID            string            `yaml:"project_id"`
	RunMode              string            `yaml:"run_mode"`
	APIPort              string            `yaml:"api_port"`
	WebSocketPort        string            `yaml:"websocket_port"`
	Cors                 YamlCorsConfig    `yaml:"cors"`
	History              YamlHistoryConfig `yaml:"history"`
	Catalog              YamlCatalogConfig `yaml:"catalog"`
	AlertsTopicID        string            `yaml:"alerts_topic_id"`
	AlertsSubscriptionID string            `yaml:"alerts_subscription_id"`
	AlertsTopicDLQID     string            `yaml:"alerts_topic_dlq_id"`
	NumPipelineWorkers   int               `yaml:"num_pipeline_workers"`
}

// --- Stage 1 Function ---

// NewConfigFromYaml converts the raw unmarshaled data (YamlConfig) into a
// clean, base AppConfig struct. Stage 1 complete: the AppConfig exists, but
// without environment overrides.
func NewConfigFromYaml(yamlCfg *YamlConfig, logger *slog.Logger) (*AppConfig, error) {
	logger.Debug("Mapping YAML config to base config struct")

	appCfg := &AppConfig{
		ProjectID:     yamlCfg.ProjectID,
		RunMode:       yamlCfg.RunMode,
		APIPort:       yamlCfg.APIPort,
		WebSocketPort: yamlCfg.WebSocketPort,
		CorsConfig: middleware.CorsConfig{
			AllowedOrigins: yamlCfg.Cors.AllowedOrigins,
		},
		History:              yamlCfg.History,
		Catalog:              yamlCfg.Catalog,
		AlertsTopicID:        yamlCfg.AlertsTopicID,
		AlertsSubscriptionID: yamlCfg.AlertsSubscriptionID,
		AlertsTopicDLQID:     yamlCfg.AlertsTopicDLQID,
		NumPipelineWorkers:   yamlCfg.NumPipelineWorkers,
	}

	logger.Debug("YAML config mapping complete",
		"project_id", appCfg.ProjectID,
		"api_port", appCfg.APIPort,
		"websocket_port", appCfg.WebSocketPort,
		"history_type", appCfg.History.Type,
		"catalog_type", appCfg.Catalog.Type,
	)

	return appCfg, nil
}
