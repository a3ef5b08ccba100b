package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	CSV        CSVConfig        `yaml:"csv" mapstructure:"csv"`
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Admin      AdminConfig      `yaml:"admin" mapstructure:"admin"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects the primary tier.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CSVConfig configures the secondary flat-file tier.
type CSVConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CatalogConfig points at an optional YAML catalog. Empty uses the built-in one.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port             int      `yaml:"port" mapstructure:"port"`
	CORSOrigins      []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	SubmitRatePerMin int      `yaml:"submit_rate_per_min" mapstructure:"submit_rate_per_min"`
	SubmitBurst      int      `yaml:"submit_burst" mapstructure:"submit_burst"`
}

// AdminConfig holds the admin basic-auth credential. An empty PasswordHash
// disables the admin routes.
type AdminConfig struct {
	Username     string `yaml:"username" mapstructure:"username"`
	PasswordHash string `yaml:"password_hash" mapstructure:"password_hash"`
}

// RetryConfig configures retries against the primary tier.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
}

// CircuitConfig configures the primary tier circuit breaker.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// MonitoringConfig configures submission tier alerting.
type MonitoringConfig struct {
	WebhookURL            string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	CheckIntervalSecs     int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	FallbackRateThreshold float64 `yaml:"fallback_rate_threshold" mapstructure:"fallback_rate_threshold"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("csv.path", "data/inquiries.csv")
	v.SetDefault("catalog.path", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.submit_rate_per_min", 30)
	v.SetDefault("server.submit_burst", 5)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("retry.max_attempts", 2)
	v.SetDefault("retry.initial_backoff_ms", 100)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.fallback_rate_threshold", 0.2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Mode is one of "serve",
// "submit", "read" or "migrate".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.SubmitRatePerMin < 0 {
			errs = append(errs, "server.submit_rate_per_min must be >= 0")
		}
		if c.Server.SubmitBurst < 0 {
			errs = append(errs, "server.submit_burst must be >= 0")
		}
		if c.Monitoring.FallbackRateThreshold < 0 || c.Monitoring.FallbackRateThreshold > 1 {
			errs = append(errs, "monitoring.fallback_rate_threshold must be between 0 and 1")
		}
		if c.Admin.PasswordHash != "" && c.Admin.Username == "" {
			errs = append(errs, "admin.username is required when admin.password_hash is set")
		}
		errs = append(errs, c.storeErrors()...)
	case "submit", "read":
		errs = append(errs, c.storeErrors()...)
	case "migrate":
		errs = append(errs, c.storeErrors()...)
		if c.Store.Driver != "none" && c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New(fmt.Sprintf("config: validation failed: %s", strings.Join(errs, "; ")))
	}
	return nil
}

func (c *Config) storeErrors() []string {
	var errs []string
	switch c.Store.Driver {
	case "postgres", "sqlite", "none":
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q must be one of postgres, sqlite, none", c.Store.Driver))
	}
	if c.CSV.Path == "" {
		errs = append(errs, "csv.path is required")
	}
	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, "retry.max_attempts must be >= 0")
	}
	if c.Circuit.FailureThreshold < 0 {
		errs = append(errs, "circuit.failure_threshold must be >= 0")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
