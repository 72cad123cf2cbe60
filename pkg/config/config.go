package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the configuration file looked up in every
// directory from the start directory to the filesystem root
const FileName = "cpscan.conf.json"

// Config represents the merged configuration from all cpscan.conf.json files
type Config struct {
	// Classpath lists locations to scan instead of the CLASSPATH variable
	Classpath []string `json:"classpath,omitempty"`
	// ListSeparator overrides the host classpath list separator
	ListSeparator string `json:"listSeparator,omitempty"`
	// Workers is the number of locations scanned concurrently
	Workers int `json:"workers,omitempty"`
	// Discoverers holds raw per-discoverer settings keyed by discoverer ID
	Discoverers map[string]json.RawMessage `json:"discoverers,omitempty"`
}

// DiscovererConfig represents configuration for a specific discoverer
type DiscovererConfig interface {
	// GetDiscovererID returns the unique ID for this discoverer
	GetDiscovererID() string
}

// LoadConfiguration loads and merges all cpscan.conf.json files from the directory hierarchy
func LoadConfiguration(startDir string) (*Config, error) {
	config := &Config{
		Discoverers: make(map[string]json.RawMessage),
	}

	// Walk up the directory hierarchy looking for config files
	currentDir := startDir
	var configFiles []string

	for {
		configPath := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			configFiles = append(configFiles, configPath)
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached filesystem root
			break
		}
		currentDir = parentDir
	}

	// Process config files from root to leaf (so leaf configs override parent configs)
	for i := len(configFiles) - 1; i >= 0; i-- {
		err := config.mergeConfigFile(configFiles[i])
		if err != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", configFiles[i], err)
		}
	}

	return config, nil
}

// mergeConfigFile merges a single config file into the current configuration
func (c *Config) mergeConfigFile(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig Config
	err = json.Unmarshal(data, &fileConfig)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if fileConfig.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", fileConfig.Workers)
	}

	// Relative classpath entries are relative to the file that names them
	if fileConfig.Classpath != nil {
		baseDir := filepath.Dir(configPath)
		c.Classpath = make([]string, len(fileConfig.Classpath))
		for i, location := range fileConfig.Classpath {
			if location != "" && !filepath.IsAbs(location) {
				location = filepath.Join(baseDir, location)
			}
			c.Classpath[i] = location
		}
	}
	if fileConfig.ListSeparator != "" {
		c.ListSeparator = fileConfig.ListSeparator
	}
	if fileConfig.Workers != 0 {
		c.Workers = fileConfig.Workers
	}

	for discovererID, discovererConfig := range fileConfig.Discoverers {
		c.Discoverers[discovererID] = discovererConfig
	}

	return nil
}

// GetDiscovererConfig retrieves configuration for a specific discoverer
func (c *Config) GetDiscovererConfig(discovererID string, result interface{}) error {
	rawConfig, exists := c.Discoverers[discovererID]
	if !exists {
		return fmt.Errorf("no configuration found for discoverer %s", discovererID)
	}

	err := json.Unmarshal(rawConfig, result)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config for discoverer %s: %w", discovererID, err)
	}

	return nil
}

// HasDiscovererConfig checks if configuration exists for a specific discoverer
func (c *Config) HasDiscovererConfig(discovererID string) bool {
	_, exists := c.Discoverers[discovererID]
	return exists
}

// LoadDiscovererConfig fills cfg from the section named by its discoverer ID
// and reports whether that section exists
func (c *Config) LoadDiscovererConfig(cfg DiscovererConfig) (bool, error) {
	if !c.HasDiscovererConfig(cfg.GetDiscovererID()) {
		return false, nil
	}
	return true, c.GetDiscovererConfig(cfg.GetDiscovererID(), cfg)
}
