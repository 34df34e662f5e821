package config

import (
	"errors"
	"strings"
)

func Validate(cfg *AppConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if cfg.ListenAddr == "" {
		return errors.New("listen_addr is required")
	}
	if cfg.TLSEnabled {
		if strings.TrimSpace(cfg.TLSCert) == "" || strings.TrimSpace(cfg.TLSKey) == "" {
			return errors.New("tls_cert and tls_key are required when tls_enabled")
		}
	}
	switch cfg.DBDriver {
	case "", "postgres", "pg", "sqlite":
	default:
		return errors.New("unsupported db_driver: " + cfg.DBDriver)
	}
	if cfg.Tuning.ApplyTimeoutSec < 0 {
		return errors.New("tuning.apply_timeout_sec must be >= 0")
	}
	if cfg.Perf.WindowSize < 0 {
		return errors.New("perf.window_size must be >= 0")
	}
	return nil
}
