// Package config loads tennismetrics settings from defaults, an optional YAML
// file, TENNISMETRICS_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/session"
)

// EnvPrefix prefixes every environment variable, e.g. TENNISMETRICS_LOG_LEVEL.
const EnvPrefix = "TENNISMETRICS"

// DefaultHost is the literal name of the player who records every session.
const DefaultHost = "Rasmus Kopperud Riis"

// Viper keys. Flag names match keys so flags bind one to one.
const (
	KeyHost        = "host"
	KeyDataRoot    = "data"
	KeyShotsFile   = "shots-file"
	KeyPointsFile  = "points-file"
	KeyDBPath      = "db"
	KeyLogLevel    = "log-level"
	KeyLogFormat   = "log-format"
	KeyRobustSpeed = "robust-speed"
	KeyMetricsFile = "metrics-file"
	KeyCacheTTL    = "cache-ttl"
)

// Config holds the resolved settings.
type Config struct {
	Host        string        `mapstructure:"host" validate:"required"`
	DataRoot    string        `mapstructure:"data" validate:"required"`
	ShotsFile   string        `mapstructure:"shots-file" validate:"required"`
	PointsFile  string        `mapstructure:"points-file" validate:"required"`
	DBPath      string        `mapstructure:"db" validate:"required"`
	LogLevel    string        `mapstructure:"log-level" validate:"loglevel"`
	LogFormat   string        `mapstructure:"log-format" validate:"oneof=text json"`
	RobustSpeed bool          `mapstructure:"robust-speed"`
	MetricsFile string        `mapstructure:"metrics-file"`
	CacheTTL    time.Duration `mapstructure:"cache-ttl" validate:"gte=0"`
}

// DefaultDBPath is ~/.tennismetrics/metrics.db, or ./metrics.db without a home.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "metrics.db"
	}
	return filepath.Join(home, ".tennismetrics", "metrics.db")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyHost, DefaultHost)
	v.SetDefault(KeyDataRoot, "data")
	v.SetDefault(KeyShotsFile, session.DefaultShotsFile)
	v.SetDefault(KeyPointsFile, session.DefaultPointsFile)
	v.SetDefault(KeyDBPath, DefaultDBPath())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyRobustSpeed, false)
	v.SetDefault(KeyMetricsFile, "")
	v.SetDefault(KeyCacheTTL, 5*time.Minute)
}

// NewViper returns a viper instance with defaults and environment lookup set up.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads cfgFile into v. With an empty cfgFile it looks for
// .tennismetrics.yaml in the home and working directories and tolerates its
// absence. Returns the file used, if any.
func ReadFile(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".tennismetrics")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SessionOptions maps the config onto the pipeline options.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Host:       c.Host,
		ShotsFile:  c.ShotsFile,
		PointsFile: c.PointsFile,
		Aggregate:  aggregator.Options{RobustSpeed: c.RobustSpeed},
	}
}

// Validate checks the struct tags of cfg.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}
	if err := v.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(verrs)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func formatValidationErrors(verrs validator.ValidationErrors) error {
	var b strings.Builder
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", fe.StructField())
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of debug, info, warn, error; got '%v'\n", fe.StructField(), fe.Value())
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' must be one of [%s]; got '%v'\n", fe.StructField(), fe.Param(), fe.Value())
		default:
			fmt.Fprintf(&b, "- Field '%s' failed '%s' validation; got '%v'\n", fe.StructField(), fe.Tag(), fe.Value())
		}
	}
	return fmt.Errorf("invalid configuration:\n%s", b.String())
}
