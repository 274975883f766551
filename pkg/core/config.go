// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds pkgsmith configuration
type Config struct {
	BuildRoot  string `yaml:"build_root"`  // Where build trees are created
	CachePath  string `yaml:"cache_path"`  // Where sources and the recipe index are cached
	OutputDir  string `yaml:"output_dir"`  // Where built packages are written
	Packager   string `yaml:"packager"`    // Name <email> recorded in package metadata
	Format     string `yaml:"format"`      // Default output format (pacman, deb)
	RecipeRepo string `yaml:"recipe_repo"` // Git URL of the recipe collection
	Debug      bool   `yaml:"debug"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		BuildRoot:  getDefaultBuildRoot(),
		CachePath:  getDefaultCachePath(),
		OutputDir:  ".",
		Packager:   "Unknown Packager",
		Format:     "pacman",
		RecipeRepo: "",
		Debug:      false,
	}
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(home, ".config", "pkgsmith", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".config", "pkgsmith", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func getDefaultBuildRoot() string {
	if path := os.Getenv("PKGSMITH_BUILD_ROOT"); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "pkgsmith")
}

func getDefaultCachePath() string {
	if path := os.Getenv("PKGSMITH_CACHE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pkgsmith", "cache")
	}
	return filepath.Join(home, ".cache", "pkgsmith")
}
