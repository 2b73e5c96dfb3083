package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, "data", cfg.DataRoot)
	assert.Equal(t, "Shots-Table 1.csv", cfg.ShotsFile)
	assert.Equal(t, "Points-Table 1.csv", cfg.PointsFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.RobustSpeed)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	yaml := "host: Jane Doe\ndata: /srv/tennis\nrobust-speed: true\ncache-ttl: 30s\nlog-level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("TENNISMETRICS_LOG_LEVEL", "warn")

	v := NewViper()
	used, err := ReadFile(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", cfg.Host)
	assert.Equal(t, "/srv/tennis", cfg.DataRoot)
	assert.True(t, cfg.RobustSpeed)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "warn", cfg.LogLevel, "environment overrides the file")

	opts := cfg.SessionOptions()
	assert.Equal(t, "Jane Doe", opts.Host)
	assert.True(t, opts.Aggregate.RobustSpeed)
}

func TestReadFile_MissingExplicitFile(t *testing.T) {
	_, err := ReadFile(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(NewViper())
		require.NoError(t, err)
		return cfg
	}

	cfg := valid()
	cfg.LogLevel = "verbose"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")

	cfg = valid()
	cfg.LogFormat = "xml"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogFormat")

	cfg = valid()
	cfg.Host = ""
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field 'Host' is required")

	cfg = valid()
	cfg.CacheTTL = -time.Second
	assert.Error(t, Validate(cfg))
}
