// Package config reads grantquality settings from the environment.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultEnvFiles are loaded, when present, before the environment is read.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config holds the settings shared by every command.
type Config struct {
	LogLevel  string `env:"GRANTQUALITY_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GRANTQUALITY_LOG_FORMAT" envDefault:"text"`
	// OrgIDPrefixes is a YAML file replacing the bundled prefix list.
	OrgIDPrefixes string `env:"GRANTQUALITY_ORGID_PREFIXES"`
	// Schema is the JSON Schema used when a command validates its input.
	Schema      string   `env:"GRANTQUALITY_SCHEMA"`
	TestClasses []string `env:"GRANTQUALITY_TEST_CLASSES" envDefault:"quality_accuracy,usefulness" envSeparator:","`
}

// LoadEnv loads the env files that exist and returns how many were read.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return 0, errors.Wrap(err, "load env files")
	}
	return len(existing), nil
}

// Load reads files, then parses the environment into a Config.
func Load(files ...string) (*Config, error) {
	if _, err := LoadEnv(files); err != nil {
		return nil, err
	}
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values that have a fixed set of choices.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil && c.LogLevel != "silent" {
		return errors.Errorf("GRANTQUALITY_LOG_LEVEL: unknown level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return errors.Errorf("GRANTQUALITY_LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}
	return nil
}

// LogrusLevel maps LogLevel to a logrus level. "silent" only lets panics
// through.
func (c *Config) LogrusLevel() logrus.Level {
	if c.LogLevel == "silent" {
		return logrus.PanicLevel
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Logger builds a logger writing to w.
func (c *Config) Logger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(c.LogrusLevel())
	if strings.EqualFold(c.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger
}
