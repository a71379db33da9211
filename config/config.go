package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/metrics"
	factorsource "github.com/Kanokkarn13/carbon-clean-app-sub000/infra/factors"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/infra/mqtt"
)

// Config is the root service configuration.
type Config struct {
	MQTT    mqtt.Config         `json:"mqtt"`
	Metrics metrics.Config      `json:"metrics"`
	Factors factorsource.Config `json:"factors"`
}

// Load reads the configuration file (yaml or json), applies CARBON_
// environment overrides, then defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. CARBON_MQTT__BROKER.
	if err := k.Load(env.Provider("CARBON_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "carbon_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.MQTT.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Factors.SetDefaults()
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, fmt.Errorf("mqtt: %w", err)
	}
	if err := cfg.Factors.Validate(); err != nil {
		return nil, fmt.Errorf("factors: %w", err)
	}
	return &cfg, nil
}
