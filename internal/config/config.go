package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logpkg "github.com/rzbill/crlpart/pkg/log"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// StoreDir holds the plan store. Empty means DefaultDataDir()/store.
	StoreDir string `json:"storeDir" yaml:"storeDir"`
	// UseStore enables caching computed plans by input digest.
	UseStore bool `json:"useStore" yaml:"useStore"`
	// MaxRecords bounds the optimizer input; the optimizer is O(len²).
	// Zero disables the bound.
	MaxRecords int `json:"maxRecords" yaml:"maxRecords"`
	// OutputFormat is text|json|cbor.
	OutputFormat string `json:"outputFormat" yaml:"outputFormat"`
	// Fsync is the store durability mode: always|interval|never.
	Fsync string `json:"fsync" yaml:"fsync"`
	// Log configures the process logger.
	Log logpkg.Config `json:"log" yaml:"log"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		UseStore:     true,
		MaxRecords:   100000,
		OutputFormat: "text",
		Fsync:        "interval",
		Log: logpkg.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension), layered
// over Default(). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks enumerated fields and bounds.
func (c Config) Validate() error {
	switch c.OutputFormat {
	case "text", "json", "cbor":
	default:
		return fmt.Errorf("config: invalid outputFormat %q; use text|json|cbor", c.OutputFormat)
	}
	switch c.Fsync {
	case "always", "interval", "never":
	default:
		return fmt.Errorf("config: invalid fsync %q; use always|interval|never", c.Fsync)
	}
	if c.MaxRecords < 0 {
		return fmt.Errorf("config: maxRecords must be >= 0, got %d", c.MaxRecords)
	}
	return nil
}

// ResolvedStoreDir returns StoreDir or the default location under DefaultDataDir.
func (c Config) ResolvedStoreDir() string {
	if c.StoreDir != "" {
		return c.StoreDir
	}
	return filepath.Join(DefaultDataDir(), "store")
}
