package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Scheduler struct {
		Enabled            bool  `yaml:"enabled"`
		MinIntervalMinutes int64 `yaml:"min_interval_minutes"`
		MaxIntervalMinutes int64 `yaml:"max_interval_minutes"`
	} `yaml:"scheduler"`
	Filter struct {
		RulesFile                string `yaml:"rules_file"` // optional YAML rule-set overrides
		ClassifierEnabled        bool   `yaml:"classifier_enabled"`
		ClassifierTimeoutSeconds int64  `yaml:"classifier_timeout_seconds"`
	} `yaml:"filter"`
	Gemini struct {
		APIKey string `yaml:"api_key"` // falls back to GEMINI_API_KEY
		Model  string `yaml:"model"`
	} `yaml:"gemini"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	config := &Config{}
	config.Server.Port = "8080"
	config.Scheduler.Enabled = true
	config.Scheduler.MinIntervalMinutes = 240
	config.Scheduler.MaxIntervalMinutes = 300
	config.Filter.ClassifierTimeoutSeconds = 3
	config.Gemini.Model = "gemini-2.0-flash-exp"
	return config
}

// LoadConfig reads configuration from the specified YAML file on top of the
// defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Scheduler.MinIntervalMinutes <= 0 ||
		config.Scheduler.MaxIntervalMinutes < config.Scheduler.MinIntervalMinutes {
		return nil, fmt.Errorf("invalid scheduler interval band [%d, %d]",
			config.Scheduler.MinIntervalMinutes, config.Scheduler.MaxIntervalMinutes)
	}
	return config, nil
}

// MinInterval returns the lower bound of the scheduler's jitter band.
func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.Scheduler.MinIntervalMinutes) * time.Minute
}

// MaxInterval returns the upper bound of the scheduler's jitter band.
func (c *Config) MaxInterval() time.Duration {
	return time.Duration(c.Scheduler.MaxIntervalMinutes) * time.Minute
}

// ClassifierTimeout returns the deadline applied to remote classifier calls.
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.Filter.ClassifierTimeoutSeconds) * time.Second
}

// GeminiAPIKey resolves the classifier API key from config or environment.
func (c *Config) GeminiAPIKey() string {
	if c.Gemini.APIKey != "" {
		return c.Gemini.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}
