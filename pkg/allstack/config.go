// config.go resolves client configuration from the environment or a file.

package allstack

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a configuration source leaves a field unset.
const (
	defaultEnvironment  = "production"
	defaultRelease      = "1.0.0"
	defaultComponent    = "my-component"
	defaultMaxPerMinute = 100
)

// Config carries the settings a Client resolves once at construction.
// Values are not re-read after NewClient returns.
type Config struct {
	// APIKey authenticates against the collector. Required.
	APIKey string `env:"ALLSTACK_API_KEY" yaml:"api_key"`

	// BaseURL is the collector origin, e.g. "https://collector.example.com".
	// Endpoint paths are appended to it. Required.
	BaseURL string `env:"ALLSTACK_BASE_URL" yaml:"base_url"`

	// Environment names the deployment stage stamped on every event.
	Environment string `env:"ALLSTACK_ENVIRONMENT" envDefault:"production" yaml:"environment"`

	// Release tags events with the running build version.
	Release string `env:"ALLSTACK_RELEASE" envDefault:"1.0.0" yaml:"release"`

	// Component names the emitting service or module.
	Component string `env:"ALLSTACK_COMPONENT" envDefault:"my-component" yaml:"component"`

	// MaxPerMinute caps capture attempts per rolling minute across the
	// whole process.
	MaxPerMinute int `env:"ALLSTACK_MAX_PER_MINUTE" envDefault:"100" yaml:"max_per_minute"`

	// AutoFingerprint computes a grouping hash for events that do not
	// already carry one.
	AutoFingerprint bool `env:"ALLSTACK_AUTO_FINGERPRINT" yaml:"auto_fingerprint"`
}

// ConfigFromEnv loads configuration from ALLSTACK_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads configuration from a YAML file. Fields the file
// leaves unset take the same defaults the env loader applies.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills unset optional fields. Required fields are left
// alone so validate can report them.
func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = defaultEnvironment
	}
	if c.Release == "" {
		c.Release = defaultRelease
	}
	if c.Component == "" {
		c.Component = defaultComponent
	}
	if c.MaxPerMinute <= 0 {
		c.MaxPerMinute = defaultMaxPerMinute
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("api key is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base url is required")
	}
	return nil
}
