// Package config loads the dealflow configuration: the pipeline stage
// set, search/aggregate fields, API connection settings, and key
// mappings. Missing files and missing values fall back to defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"dealflow/internal/models"
)

// StageConfig is one pipeline stage as written in config.yaml. Board
// order follows the order of the stages list.
type StageConfig struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// APIConfig holds the backend connection settings.
type APIConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// Config represents the application configuration.
type Config struct {
	API          APIConfig     `yaml:"api"`
	StageList    []StageConfig `yaml:"stages"`
	SearchFields []string      `yaml:"search_fields"`
	SumField     string        `yaml:"sum_field"`
	KeyMappings  KeyMappings   `yaml:"key_mappings"`
}

// Load loads config from the user's config directory, returning
// defaults when the file does not exist. Environment variables
// DEALFLOW_API_URL and DEALFLOW_TOKEN override the file.
func Load() (*Config, error) {
	config := defaultConfig()

	configPath, err := getConfigPath()
	if err == nil {
		if data, readErr := os.ReadFile(configPath); readErr == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
			config.applyDefaults()
		}
	}

	if url := os.Getenv("DEALFLOW_API_URL"); url != "" {
		config.API.URL = url
	}
	if token := os.Getenv("DEALFLOW_TOKEN"); token != "" {
		config.API.Token = token
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o644)
}

// Validate checks the stage set: non-empty, unique, non-blank keys.
func (c *Config) Validate() error {
	if len(c.StageList) == 0 {
		return fmt.Errorf("config: at least one pipeline stage is required")
	}
	seen := make(map[string]struct{}, len(c.StageList))
	for _, s := range c.StageList {
		if s.Key == "" {
			return fmt.Errorf("config: stage with empty key")
		}
		if _, dup := seen[s.Key]; dup {
			return fmt.Errorf("config: duplicate stage key %q", s.Key)
		}
		seen[s.Key] = struct{}{}
	}
	return nil
}

// Stages returns the configured stage set as domain stages, ordered by
// their position in the config.
func (c *Config) Stages() []models.Stage {
	stages := make([]models.Stage, len(c.StageList))
	for i, s := range c.StageList {
		label := s.Label
		if label == "" {
			label = s.Key
		}
		stages[i] = models.Stage{Key: s.Key, Label: label, Order: i}
	}
	return stages
}

func defaultConfig() *Config {
	return &Config{
		StageList:    DefaultStages(),
		SearchFields: []string{"name", "company"},
		SumField:     "value",
		KeyMappings:  DefaultKeyMappings(),
	}
}

// DefaultStages is the stock M&A pipeline used when no config exists.
func DefaultStages() []StageConfig {
	return []StageConfig{
		{Key: "sourcing", Label: "Sourcing"},
		{Key: "screening", Label: "Screening"},
		{Key: "due_diligence", Label: "Due Diligence"},
		{Key: "negotiation", Label: "Negotiation"},
		{Key: "closed_won", Label: "Closed Won"},
		{Key: "closed_lost", Label: "Closed Lost"},
	}
}

// applyDefaults fills in any missing values after a partial config file
// was parsed.
func (c *Config) applyDefaults() {
	def := defaultConfig()
	if len(c.StageList) == 0 {
		c.StageList = def.StageList
	}
	if len(c.SearchFields) == 0 {
		c.SearchFields = def.SearchFields
	}
	if c.SumField == "" {
		c.SumField = def.SumField
	}
	c.KeyMappings.applyDefaults()
}

// getConfigPath returns the path to the config file.
func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "dealflow", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "dealflow", "config.yaml"), nil
}
