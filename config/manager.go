package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	defaultConfigPath = "config/app.yaml"
	envPrefix         = "VECTORCRAFT_"
)

func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	cfgPath := resolveConfigPath()
	if st, err := os.Stat(cfgPath); err == nil && !st.IsDir() {
		if err := cleanenv.ReadConfig(cfgPath, cfg); err != nil {
			return nil, err
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	applyEnvAliases(cfg)
	normalizeConfig(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvAliases(cfg *AppConfig) {
	if cfg == nil {
		return
	}
	if v := getEnv("ENV", "APP_ENV"); v != "" {
		cfg.AppEnv = strings.TrimSpace(v)
	}
	if v := getEnv("PORT", envPrefix+"PORT"); v != "" {
		cfg.ListenAddr = listenAddrWithPort(cfg.ListenAddr, v)
	}
	if v := getEnv("DATABASE_URL"); v != "" {
		cfg.DBURL = strings.TrimSpace(v)
	}
	if v := getEnv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = strings.TrimSpace(v)
	}
}

func normalizeConfig(cfg *AppConfig) {
	if cfg == nil {
		return
	}
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.DBURL = strings.TrimSpace(cfg.DBURL)
	cfg.DBPath = strings.TrimSpace(cfg.DBPath)
	cfg.Tuning.BackendURL = strings.TrimSpace(cfg.Tuning.BackendURL)
	cfg.Perf.SampleSchedule = strings.TrimSpace(cfg.Perf.SampleSchedule)
	cfg.Cache.RedisAddr = strings.TrimSpace(cfg.Cache.RedisAddr)
	cfg.Cache.KeyPrefix = strings.TrimSpace(cfg.Cache.KeyPrefix)
	cfg.Observability.MetricsToken = strings.TrimSpace(cfg.Observability.MetricsToken)
	if cfg.Perf.SampleSchedule == "" {
		cfg.Perf.SampleSchedule = "@every 5s"
	}
	if cfg.Perf.WindowSize <= 0 {
		cfg.Perf.WindowSize = 120
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "vc:quote:"
	}
	if cfg.Tuning.ApplyTimeoutSec < 0 {
		cfg.Tuning.ApplyTimeoutSec = 0
	}
}

func getEnv(keys ...string) string {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

func resolveConfigPath() string {
	if v := getEnv("APP_CONFIG", envPrefix+"APP_CONFIG"); v != "" {
		return strings.TrimSpace(v)
	}
	return defaultConfigPath
}

func listenAddrWithPort(currentAddr, portRaw string) string {
	port := strings.TrimSpace(portRaw)
	if port == "" {
		return currentAddr
	}
	if _, err := strconv.Atoi(port); err != nil {
		return currentAddr
	}
	host := "0.0.0.0"
	parts := strings.Split(strings.TrimSpace(currentAddr), ":")
	if len(parts) > 1 {
		host = strings.Join(parts[:len(parts)-1], ":")
	}
	if host == "" {
		host = "0.0.0.0"
	}
	return host + ":" + port
}
