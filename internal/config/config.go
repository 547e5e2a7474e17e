// Package config provides configuration loading and management for kanbo.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	GenAI  GenAI  `json:"genai"             yaml:"genai"             mapstructure:"genai"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`
}

// GenAI configures the generative-language service client.
type GenAI struct {
	Model          string `json:"model,omitempty"           yaml:"model,omitempty"           mapstructure:"model"`
	BaseURL        string `json:"base_url,omitempty"        yaml:"base_url,omitempty"        mapstructure:"base_url"`
	APIKeyEnv      string `json:"api_key_env,omitempty"     yaml:"api_key_env,omitempty"     mapstructure:"api_key_env"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" mapstructure:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (g GenAI) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GenAI: GenAI{
			Model:          "gemini-2.0-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: 60,
		},
	}
}

// Load reads the config file at path. A missing file yields the default
// configuration; a present file is schema-validated before unmarshalling.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := ValidateSettings(v.AllSettings()); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.GenAI.TimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("genai.timeout_seconds must be > 0")
	}
	return cfg, nil
}
