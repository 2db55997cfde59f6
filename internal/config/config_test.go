package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "icreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.Mongo.URI)
	assert.Equal(t, "research", cfg.Mongo.Database)
	assert.Equal(t, runtime.NumCPU(), cfg.Engine.Workers)
	assert.Equal(t, 64, cfg.Cache.Size)
	assert.Equal(t, 2019, cfg.Report.StartYear)
	assert.Equal(t, 2024, cfg.Report.EndYear)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
mongo:
  database: faculty
engine:
  workers: 3
report:
  start_year: 2020
  end_year: 2022
logging:
  format: json
`)
	t.Setenv("ICREPORT_CACHE_SIZE", "5")
	t.Setenv("ICREPORT_MONGO_URI", "mongodb://db:27017")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "faculty", cfg.Mongo.Database)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, 3, cfg.Engine.Workers)
	assert.Equal(t, 5, cfg.Cache.Size)
	assert.Equal(t, 2020, cfg.Report.StartYear)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"inverted window", "report:\n  start_year: 2024\n  end_year: 2019\n"},
		{"cache size", "cache:\n  size: 0\n"},
		{"log level", "logging:\n  level: loud\n"},
		{"log format", "logging:\n  format: xml\n"},
		{"broken yaml", "mongo: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	defer log.SetFormatter(log.StandardLogger().Formatter)

	cfg := &Config{Logging: LoggingConfig{Level: "warn", Format: "json"}}
	cfg.ConfigureLogging(false)
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	cfg.ConfigureLogging(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}
