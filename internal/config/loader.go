package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`

	// Metadata fetch tuning. InitialPrefixKB is the first read size when
	// scanning a model file; MaxScanMB caps how far the scan may grow.
	InitialPrefixKB int `json:"initial_prefix_kb" yaml:"initial_prefix_kb" toml:"initial_prefix_kb"`
	MaxScanMB       int `json:"max_scan_mb" yaml:"max_scan_mb" toml:"max_scan_mb"`

	// RequestTimeoutSec bounds each outbound HTTP request when the model
	// locator is a URL.
	RequestTimeoutSec int `json:"request_timeout_sec" yaml:"request_timeout_sec" toml:"request_timeout_sec"`

	// Defaults applied to estimate requests that omit the field.
	DefaultContextLength int    `json:"default_context_length" yaml:"default_context_length" toml:"default_context_length"`
	DefaultCacheType     string `json:"default_cache_type" yaml:"default_cache_type" toml:"default_cache_type"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
