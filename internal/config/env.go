package config

import (
	"os"
	"strconv"
)

// FromEnv overlays KVFIFO_* environment variables onto cfg. Malformed
// numbers are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("KVFIFO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("KVFIFO_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("KVFIFO_QUEUE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Queue.Capacity = n
		}
	}
	if v := os.Getenv("KVFIFO_CHART_TOP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chart.Top = n
		}
	}
	if v := os.Getenv("KVFIFO_CHART_MAX_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Chart.MaxID = uint32(n)
		}
	}
}
