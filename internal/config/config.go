// Package config loads icreport settings with Viper
package config

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Report   ReportConfig   `mapstructure:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// SnapshotConfig points at a file or directory snapshot used by --source file
type SnapshotConfig struct {
	Path string `mapstructure:"path"`
}

type EngineConfig struct {
	Workers int `mapstructure:"workers"`
}

type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// ReportConfig holds the default year window
type ReportConfig struct {
	StartYear int `mapstructure:"start_year"`
	EndYear   int `mapstructure:"end_year"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and ICREPORT_* environment variables
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".icreport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/icreport")
	}

	v.SetEnvPrefix("ICREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if cfg.Engine.Workers <= 0 {
		cfg.Engine.Workers = runtime.NumCPU()
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.database", "research")

	v.SetDefault("snapshot.path", "graph.json")

	v.SetDefault("engine.workers", 0)
	v.SetDefault("cache.size", 64)

	v.SetDefault("report.start_year", 2019)
	v.SetDefault("report.end_year", 2024)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func validate(cfg *Config) error {
	if cfg.Cache.Size <= 0 {
		return errors.Errorf("cache.size must be positive, got %d", cfg.Cache.Size)
	}
	if cfg.Report.StartYear > cfg.Report.EndYear {
		return errors.Errorf("report.start_year %d is after report.end_year %d", cfg.Report.StartYear, cfg.Report.EndYear)
	}
	if _, err := log.ParseLevel(cfg.Logging.Level); err != nil {
		return errors.Wrap(err, "logging.level")
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return errors.Errorf("logging.format must be text or json, got %q", cfg.Logging.Format)
	}
	return nil
}

// ConfigureLogging applies the logging section to the standard logrus logger.
// verbose forces debug level.
func (c *Config) ConfigureLogging(verbose bool) {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil || verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	if c.Logging.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
