package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Generate GenerateConfig `yaml:"generate" mapstructure:"generate"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Ingest   IngestConfig   `yaml:"ingest" mapstructure:"ingest"`
	Client   ClientConfig   `yaml:"client" mapstructure:"client"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// GenerateConfig sets entity counts and the run seed. Seed 0 draws a random seed.
type GenerateConfig struct {
	Seed       uint64 `yaml:"seed" mapstructure:"seed"`
	Excavators int    `yaml:"excavators" mapstructure:"excavators"`
	Employees  int    `yaml:"employees" mapstructure:"employees"`
	Tickets    int    `yaml:"tickets" mapstructure:"tickets"`
	Damages    int    `yaml:"damages" mapstructure:"damages"`
	Hotspots   int    `yaml:"hotspots" mapstructure:"hotspots"`
	SkipDemos  bool   `yaml:"skip_demos" mapstructure:"skip_demos"`
}

// OutputConfig configures file outputs.
type OutputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	Format      string `yaml:"format" mapstructure:"format"`
	Workbook    string `yaml:"workbook" mapstructure:"workbook"`
	Territories string `yaml:"territories" mapstructure:"territories"`
}

// StoreConfig configures database sinks. Empty paths disable a sink.
type StoreConfig struct {
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Schema      string `yaml:"schema" mapstructure:"schema"`
	Upsert      bool   `yaml:"upsert" mapstructure:"upsert"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

// IngestConfig configures the locate-request server.
type IngestConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	WebhookSecret  string   `yaml:"webhook_secret" mapstructure:"webhook_secret"`
	RateLimit      int      `yaml:"rate_limit" mapstructure:"rate_limit"`
	BodyLimitKB    int      `yaml:"body_limit_kb" mapstructure:"body_limit_kb"`
	TrustProxy     bool     `yaml:"trust_proxy" mapstructure:"trust_proxy"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ShutdownSecs   int      `yaml:"shutdown_secs" mapstructure:"shutdown_secs"`
}

// ClientConfig configures the locate-request sender.
type ClientConfig struct {
	URL              string  `yaml:"url" mapstructure:"url"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Jitter           float64 `yaml:"jitter" mapstructure:"jitter"`
	BreakerThreshold int     `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldown  int     `yaml:"breaker_cooldown_secs" mapstructure:"breaker_cooldown_secs"`
}

// Timeout returns the per-request timeout.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
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
	v.SetEnvPrefix("AEGIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("generate.seed", 0)
	v.SetDefault("generate.excavators", 50)
	v.SetDefault("generate.employees", 25)
	v.SetDefault("generate.tickets", 1000)
	v.SetDefault("generate.damages", 100)
	v.SetDefault("generate.hotspots", 5)
	v.SetDefault("generate.skip_demos", false)
	v.SetDefault("output.dir", "data")
	v.SetDefault("output.format", "json")
	v.SetDefault("output.workbook", "")
	v.SetDefault("output.territories", "")
	v.SetDefault("store.sqlite_path", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.schema", "public")
	v.SetDefault("store.upsert", false)
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("ingest.port", 3000)
	v.SetDefault("ingest.webhook_secret", "dev_secret")
	v.SetDefault("ingest.rate_limit", 60)
	v.SetDefault("ingest.body_limit_kb", 100)
	v.SetDefault("ingest.trust_proxy", false)
	v.SetDefault("ingest.allowed_origins", []string{"*"})
	v.SetDefault("ingest.shutdown_secs", 10)
	v.SetDefault("client.url", "http://localhost:3000")
	v.SetDefault("client.timeout_secs", 10)
	v.SetDefault("client.max_attempts", 3)
	v.SetDefault("client.initial_backoff_ms", 250)
	v.SetDefault("client.max_backoff_ms", 5000)
	v.SetDefault("client.jitter", 0.2)
	v.SetDefault("client.breaker_threshold", 5)
	v.SetDefault("client.breaker_cooldown_secs", 30)
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

// Validate checks the settings a command depends on. mode is "generate", "serve" or "send".
func (c *Config) Validate(mode string) error {
	var errs []string
	add := func(format string, args ...any) { errs = append(errs, fmt.Sprintf(format, args...)) }

	switch mode {
	case "generate":
		g := c.Generate
		if g.Excavators < 0 || g.Employees < 0 || g.Tickets < 0 || g.Damages < 0 {
			add("generate counts must be >= 0")
		}
		if g.Hotspots < 1 {
			add("generate.hotspots must be >= 1")
		}
		if f := c.Output.Format; f != "" && f != "json" && f != "yaml" {
			add("output.format must be json or yaml, got %q", f)
		}
	case "serve":
		if c.Ingest.Port <= 0 || c.Ingest.Port > 65535 {
			add("ingest.port must be between 1 and 65535")
		}
		if c.Ingest.WebhookSecret == "" {
			add("ingest.webhook_secret is required")
		}
		if c.Ingest.RateLimit < 1 {
			add("ingest.rate_limit must be >= 1")
		}
		if c.Ingest.BodyLimitKB < 1 {
			add("ingest.body_limit_kb must be >= 1")
		}
	case "send":
		if c.Client.URL == "" {
			add("client.url is required")
		}
		if c.Ingest.WebhookSecret == "" {
			add("ingest.webhook_secret is required")
		}
		if c.Client.MaxAttempts < 1 {
			add("client.max_attempts must be >= 1")
		}
		if c.Client.Jitter < 0 || c.Client.Jitter > 1 {
			add("client.jitter must be between 0 and 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
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
