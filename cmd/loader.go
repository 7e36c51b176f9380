package cmd

import (
	_ "embed" // Required for go:embed
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/Beastbaba/Gateguide/gateguideservice/config"
)

//go:embed config.yaml
var configFile []byte

// Load parses the embedded local configuration file for the service.
func Load(logger *slog.Logger) (*config.AppConfig, error) {
	var yamlCfg config.YamlConfig
	if err := yaml.Unmarshal(configFile, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedded yaml config: %w", err)
	}
	return config.NewConfigFromYaml(&yamlCfg, logger)
}
