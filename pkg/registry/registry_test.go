// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecipe(t *testing.T, cacheDir, name, index string) {
	t.Helper()
	dir := filepath.Join(cacheDir, "recipes", name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.toml"), []byte(index), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkgsmith.yaml"), []byte("name: "+name+"\n"), 0644))
}

func TestLoad(t *testing.T) {
	cacheDir := t.TempDir()
	writeRecipe(t, cacheDir, "acertmgr-git", `
name = "acertmgr-git"
description = "Automated ACME certificate manager"
maintainers = ["Jane Doe <jane@example.com>"]
tags = ["acme", "tls"]
`)

	entry, err := New(cacheDir).Load("acertmgr-git")
	require.NoError(t, err)
	assert.Equal(t, "acertmgr-git", entry.Name)
	assert.Equal(t, "Automated ACME certificate manager", entry.Description)
	assert.Equal(t, []string{"acme", "tls"}, entry.Tags)
}

func TestLoadDefaultsName(t *testing.T) {
	cacheDir := t.TempDir()
	writeRecipe(t, cacheDir, "mkcert", `description = "local CA tool"`)

	entry, err := New(cacheDir).Load("mkcert")
	require.NoError(t, err)
	assert.Equal(t, "mkcert", entry.Name)
}

func TestLoadBeforeSync(t *testing.T) {
	_, err := New(t.TempDir()).Load("anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run sync first")
}

func TestLoadUnknownRecipe(t *testing.T) {
	cacheDir := t.TempDir()
	writeRecipe(t, cacheDir, "mkcert", `description = "local CA tool"`)

	_, err := New(cacheDir).Load("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadMissingIndex(t *testing.T) {
	cacheDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(cacheDir, "recipes", "broken"), 0755))

	_, err := New(cacheDir).Load("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing index.toml")
}

func TestResolve(t *testing.T) {
	cacheDir := t.TempDir()
	writeRecipe(t, cacheDir, "acertmgr-git", `name = "acertmgr-git"`)

	path, err := New(cacheDir).Resolve("acertmgr-git")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheDir, "recipes", "acertmgr-git", "pkgsmith.yaml"), path)
}

func TestResolveCustomManifest(t *testing.T) {
	cacheDir := t.TempDir()
	writeRecipe(t, cacheDir, "weird", `manifest = "recipe.yaml"`)

	path, err := New(cacheDir).Resolve("weird")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheDir, "recipes", "weird", "recipe.yaml"), path)
}

func TestList(t *testing.T) {
	cacheDir := t.TempDir()
	writeRecipe(t, cacheDir, "acertmgr-git", `description = "acme"`)
	writeRecipe(t, cacheDir, "mkcert", `description = "local CA tool"`)

	entries, err := New(cacheDir).List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := []string{entries[0].Name, entries[1].Name}
	assert.Contains(t, names, "acertmgr-git")
	assert.Contains(t, names, "mkcert")
}
