package config

type AppConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"VECTORCRAFT_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	AppEnv     string `yaml:"app_env" env:"VECTORCRAFT_APP_ENV" env-default:"prod"`
	DBDriver   string `yaml:"db_driver" env:"VECTORCRAFT_DB_DRIVER"`
	DBURL      string `yaml:"db_url" env:"VECTORCRAFT_DB_URL"`
	DBPath     string `yaml:"db_path" env:"VECTORCRAFT_DB_PATH"`
	TLSEnabled bool   `yaml:"tls_enabled" env:"VECTORCRAFT_TLS_ENABLED"`
	TLSCert    string `yaml:"tls_cert" env:"VECTORCRAFT_TLS_CERT"`
	TLSKey     string `yaml:"tls_key" env:"VECTORCRAFT_TLS_KEY"`

	Tuning        TuningConfig        `yaml:"tuning"`
	Perf          PerfConfig          `yaml:"perf"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// TuningConfig covers the operator tuning workflow. ApplyTimeoutSec bounds a
// single apply submission; zero means the caller's context is the only bound.
type TuningConfig struct {
	ApplyTimeoutSec int    `yaml:"apply_timeout_sec" env:"VECTORCRAFT_TUNING_APPLY_TIMEOUT_SEC"`
	BackendURL      string `yaml:"backend_url" env:"VECTORCRAFT_TUNING_BACKEND_URL"`
}

type PerfConfig struct {
	SampleSchedule string `yaml:"sample_schedule" env:"VECTORCRAFT_PERF_SAMPLE_SCHEDULE" env-default:"@every 5s"`
	WindowSize     int    `yaml:"window_size" env:"VECTORCRAFT_PERF_WINDOW_SIZE" env-default:"120"`
}

type CacheConfig struct {
	RedisAddr string `yaml:"redis_addr" env:"VECTORCRAFT_REDIS_ADDR"`
	RedisDB   int    `yaml:"redis_db" env:"VECTORCRAFT_REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix" env:"VECTORCRAFT_CACHE_KEY_PREFIX" env-default:"vc:quote:"`
}

type ObservabilityConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled" env:"VECTORCRAFT_METRICS_ENABLED" env-default:"true"`
	MetricsToken   string `yaml:"metrics_token" env:"VECTORCRAFT_METRICS_TOKEN"`
}

func (c *AppConfig) IsDev() bool {
	if c == nil {
		return false
	}
	return c.AppEnv == "dev"
}
