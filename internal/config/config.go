package config

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Datasets DatasetsConfig `yaml:"datasets" mapstructure:"datasets"`
	Model    ModelConfig    `yaml:"model" mapstructure:"model"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatasetsConfig locates the raw city exports and the cleaned output table.
type DatasetsConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	Encoding     string `yaml:"encoding" mapstructure:"encoding"`
	CodeMap      string `yaml:"code_map" mapstructure:"code_map"`
	CodeMapSheet string `yaml:"code_map_sheet" mapstructure:"code_map_sheet"` // workbook sheet for an .xlsx code map; empty reads the first
	Output       string `yaml:"output" mapstructure:"output"`
}

// OutputPath returns the cleaned table path, resolved against Dir when relative.
func (d DatasetsConfig) OutputPath() string {
	if filepath.IsAbs(d.Output) || d.Dir == "" {
		return d.Output
	}
	return filepath.Join(d.Dir, d.Output)
}

// ModelConfig configures training of the category classifier.
type ModelConfig struct {
	Path     string  `yaml:"path" mapstructure:"path"`
	Trees    int     `yaml:"trees" mapstructure:"trees"`
	Seed     uint64  `yaml:"seed" mapstructure:"seed"`
	TestSize float64 `yaml:"test_size" mapstructure:"test_size"`
	Workers  int     `yaml:"workers" mapstructure:"workers"`
}

// StoreConfig configures the optional incident/run sink.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"` // postgres pool size
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
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
	v.SetEnvPrefix("SAFELANES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("datasets.dir", "datasets")
	v.SetDefault("datasets.encoding", "iso-8859-1")
	v.SetDefault("datasets.code_map", "CRIME_CODES.csv")
	v.SetDefault("datasets.code_map_sheet", "")
	v.SetDefault("datasets.output", "cleaned_crime_data3.csv")
	v.SetDefault("model.path", "crime_category_model.json")
	v.SetDefault("model.trees", 100)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.test_size", 0.2)
	v.SetDefault("model.workers", 0)
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Model.Trees < 1 {
		return eris.Errorf("config: model.trees must be positive, got %d", c.Model.Trees)
	}
	if c.Model.TestSize <= 0 || c.Model.TestSize >= 1 {
		return eris.Errorf("config: model.test_size must be in (0, 1), got %g", c.Model.TestSize)
	}
	switch c.Store.Driver {
	case "none":
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.Errorf("config: store.database_url is required for driver %q", c.Store.Driver)
		}
	default:
		return eris.Errorf("config: unknown store.driver %q (valid: none, sqlite, postgres)", c.Store.Driver)
	}
	if c.Store.MaxConns < 0 || c.Store.MinConns < 0 {
		return eris.New("config: store.max_conns and store.min_conns must not be negative")
	}
	if c.Store.MaxConns > 0 && c.Store.MinConns > c.Store.MaxConns {
		return eris.Errorf("config: store.min_conns (%d) exceeds store.max_conns (%d)", c.Store.MinConns, c.Store.MaxConns)
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
