// Package config holds the runtime configuration surface: a YAML file
// with environment-variable overrides (TRADENET_* prefix).
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/terralab/tradenet/pkg/ces"
)

// Config is the full runtime configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// Sigma is the CES elasticity of substitution. Must exceed 1.
	Sigma float64 `yaml:"sigma" envconfig:"SIGMA"`

	Loader  LoaderConfig  `yaml:"loader"`
	Network NetworkConfig `yaml:"network"`
}

// LoaderConfig controls CSV ingestion.
type LoaderConfig struct {
	// Separator is the CSV delimiter, a single character.
	Separator string `yaml:"separator" envconfig:"LOADER_SEPARATOR"`

	// Encoding is the file charset: utf-8, latin-1 or windows-1252.
	Encoding string `yaml:"encoding" envconfig:"LOADER_ENCODING"`
}

// NetworkConfig controls harmonization of directional trade reports.
type NetworkConfig struct {
	// TradeToNetwork enables import/export harmonization; off means the
	// file already carries directed edges.
	TradeToNetwork bool `yaml:"trade_to_network" envconfig:"NETWORK_TRADE_TO_NETWORK"`

	// Mode is one of import, export, both.
	Mode string `yaml:"mode" envconfig:"NETWORK_MODE"`

	// ImportLabel and ExportLabel are the flow markers in the raw file.
	ImportLabel string `yaml:"import_label" envconfig:"NETWORK_IMPORT_LABEL"`
	ExportLabel string `yaml:"export_label" envconfig:"NETWORK_EXPORT_LABEL"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Sigma:    ces.DefaultSigma,
		Loader: LoaderConfig{
			Separator: ",",
			Encoding:  "utf-8",
		},
		Network: NetworkConfig{
			TradeToNetwork: false,
			Mode:           "both",
			ImportLabel:    "I",
			ExportLabel:    "E",
		},
	}
}

// Load builds the effective configuration: defaults, overlaid by the
// YAML file when path is non-empty, overlaid by TRADENET_* environment
// variables, then validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process("tradenet", &cfg); err != nil {
		return cfg, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field, collecting all problems.
func (c Config) Validate() error {
	return NewConfigValidator("config").
		OneOf("log_level", c.LogLevel, "debug", "info", "warn", "error").
		GreaterThan("sigma", c.Sigma, 1).
		Required("loader.separator", c.Loader.Separator).
		OneOf("loader.encoding", c.Loader.Encoding, "utf-8", "latin-1", "windows-1252").
		OneOf("network.mode", c.Network.Mode, "import", "export", "both").
		Required("network.import_label", c.Network.ImportLabel).
		Required("network.export_label", c.Network.ExportLabel).
		Distinct("network.import_label", "network.export_label", c.Network.ImportLabel, c.Network.ExportLabel).
		Err()
}
