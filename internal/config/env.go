package config

import (
	"os"
	"strconv"
)

// FromEnv overlays CRLPART_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("CRLPART_STORE_DIR"); v != "" {
		cfg.StoreDir = v
	}
	if v := os.Getenv("CRLPART_USE_STORE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseStore = b
		}
	}
	if v := os.Getenv("CRLPART_MAX_RECORDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRecords = n
		}
	}
	if v := os.Getenv("CRLPART_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = v
	}
	if v := os.Getenv("CRLPART_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("CRLPART_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRLPART_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("CRLPART_LOG_OUTPUT"); v != "" {
		cfg.Log.Output = v
	}
}
