// pkg/registry/registry.go
package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Entry represents a single recipes/<name>/index.toml file
type Entry struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Maintainers []string `toml:"maintainers"`
	Tags        []string `toml:"tags"`
	Manifest    string   `toml:"manifest"` // Manifest file name, pkgsmith.yaml if empty
}

// Registry provides lookup into the cached recipes/ folder
type Registry struct {
	recipesDir string
}

// New creates a Registry pointed at the cached recipes directory
func New(cacheDir string) *Registry {
	return &Registry{
		recipesDir: filepath.Join(cacheDir, "recipes"),
	}
}

// Resolve takes a recipe name and returns the path of its manifest
func (r *Registry) Resolve(name string) (string, error) {
	entry, err := r.Load(name)
	if err != nil {
		return "", err
	}

	manifest := entry.Manifest
	if manifest == "" {
		manifest = "pkgsmith.yaml"
	}

	return filepath.Join(r.recipesDir, name, manifest), nil
}

// Load reads and parses recipes/<name>/index.toml
func (r *Registry) Load(name string) (*Entry, error) {
	if _, err := os.Stat(r.recipesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("registry: recipes not found, run sync first")
	}

	path := filepath.Join(r.recipesDir, name, "index.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		// Check if the directory exists, to give a better error message.
		dirPath := filepath.Dir(path)
		if _, statErr := os.Stat(dirPath); statErr == nil {
			return nil, fmt.Errorf("registry: found recipe '%s' directory, but missing index.toml", name)
		}
		return nil, fmt.Errorf("registry: recipe '%s' not found", name)
	}

	var entry Entry
	if _, err := toml.Decode(string(data), &entry); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", name, err)
	}

	if entry.Name == "" {
		entry.Name = name
	}

	return &entry, nil
}

// List enumerates the recipes of the cached collection
func (r *Registry) List() ([]*Entry, error) {
	dirs, err := os.ReadDir(r.recipesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("registry: recipes not found, run sync first")
		}
		return nil, err
	}

	var entries []*Entry
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		entry, err := r.Load(dir.Name())
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
