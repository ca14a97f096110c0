package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Answers  AnswersConfig  `yaml:"answers" mapstructure:"answers"`
	Citation CitationConfig `yaml:"citation" mapstructure:"citation"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the intelligence store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// AnswersConfig configures the external answer engine. Provider doubles as
// the model_provider key column on persisted intelligence rows.
type AnswersConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CitationConfig holds the sampling and scoring constants.
type CitationConfig struct {
	QueryDelayMS        int     `yaml:"query_delay_ms" mapstructure:"query_delay_ms"`
	RelevanceThreshold  float64 `yaml:"relevance_threshold" mapstructure:"relevance_threshold"`
	MaxConcurrentTuples int     `yaml:"max_concurrent_tuples" mapstructure:"max_concurrent_tuples"`
	// Disabled is the kill switch: when set, a triggered run reports
	// halted and samples nothing.
	Disabled bool `yaml:"disabled" mapstructure:"disabled"`
}

// ServerConfig configures the cron webhook server.
type ServerConfig struct {
	Port       int    `yaml:"port" mapstructure:"port"`
	CronSecret string `yaml:"cron_secret" mapstructure:"cron_secret"`
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
	v.SetEnvPrefix("CITATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a meaningful default still get a zero value
	// so AutomaticEnv can bind their CITATION_* variables.
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 0)
	v.SetDefault("store.min_conns", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cron_secret", "")
	v.SetDefault("answers.provider", "perplexity")
	v.SetDefault("answers.key", "")
	v.SetDefault("answers.base_url", "")
	v.SetDefault("answers.model", "")
	v.SetDefault("answers.max_tokens", 1024)
	v.SetDefault("citation.query_delay_ms", 500)
	v.SetDefault("citation.relevance_threshold", 0.30)
	v.SetDefault("citation.max_concurrent_tuples", 1)
	v.SetDefault("citation.disabled", false)

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
