// pkg/build/runner_test.go
package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgsmith/pkgsmith/pkg/manifest"
)

func testManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	return &manifest.Manifest{
		Name:    "demo",
		Base:    "demo",
		Version: "1.0",
		Release: 2,
		Dir:     t.TempDir(),
	}
}

func testRunner(t *testing.T) (*Runner, *Tree, *manifest.Manifest) {
	t.Helper()
	m := testManifest(t)
	r := NewRunner(&Config{BuildRoot: t.TempDir()})
	tree, err := r.PrepareTree(m)
	require.NoError(t, err)
	return r, tree, m
}

func TestPrepareTree(t *testing.T) {
	r, tree, _ := testRunner(t)

	assert.DirExists(t, tree.SrcDir)
	assert.DirExists(t, tree.PkgDir)
	assert.Equal(t, filepath.Join(tree.Root, "src"), tree.SrcDir)
	assert.Equal(t, filepath.Join(tree.Root, "pkg"), tree.PkgDir)

	// Leftovers from a previous build are wiped
	stale := filepath.Join(tree.SrcDir, "stale.o")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	_, err := r.PrepareTree(&manifest.Manifest{Name: "demo"})
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestRunHook(t *testing.T) {
	r, tree, m := testRunner(t)

	script := `
mkdir -p "$PKGDIR/usr/bin"
printf '%s %s-%s\n' "$PKGNAME" "$PKGVER" "$PKGREL" > "$PKGDIR/usr/bin/demo"
`
	require.NoError(t, r.RunHook(context.Background(), "package", script, tree, m))

	data, err := os.ReadFile(filepath.Join(tree.PkgDir, "usr", "bin", "demo"))
	require.NoError(t, err)
	assert.Equal(t, "demo 1.0-2\n", string(data))
}

func TestRunHookWorkingDirectory(t *testing.T) {
	r, tree, m := testRunner(t)

	require.NoError(t, r.RunHook(context.Background(), "build", `pwd > out.txt`, tree, m))

	data, err := os.ReadFile(filepath.Join(tree.SrcDir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, tree.SrcDir+"\n", string(data))
}

func TestRunHookEmptyIsNoop(t *testing.T) {
	r, tree, m := testRunner(t)
	assert.NoError(t, r.RunHook(context.Background(), "check", "  \n\t", tree, m))
}

func TestRunHookFailure(t *testing.T) {
	r, tree, m := testRunner(t)

	err := r.RunHook(context.Background(), "build", `echo compiling
echo "error: no such file" >&2
false`, tree, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHookFailed))
	assert.Contains(t, err.Error(), "error: no such file")
}

func TestRunHookStopsOnFirstError(t *testing.T) {
	r, tree, m := testRunner(t)

	// sh -e aborts the script at the failing command
	err := r.RunHook(context.Background(), "build", `false
touch should-not-exist`, tree, m)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(tree.SrcDir, "should-not-exist"))
}

func TestRunHookCancelled(t *testing.T) {
	r, tree, m := testRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.RunHook(ctx, "build", "sleep 10", tree, m)
	assert.True(t, errors.Is(err, ErrHookFailed))
}

func TestCheckStaging(t *testing.T) {
	_, tree, _ := testRunner(t)

	require.NoError(t, os.MkdirAll(filepath.Join(tree.PkgDir, "usr", "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tree.PkgDir, "usr", "bin", "demo"), []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.Symlink("demo", filepath.Join(tree.PkgDir, "usr", "bin", "demo-alias")))

	entries, warnings, err := CheckStaging(tree.PkgDir)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	paths := make(map[string]FileEntry)
	for _, e := range entries {
		paths[e.Path] = e
	}
	assert.Contains(t, paths, "usr")
	assert.Contains(t, paths, filepath.Join("usr", "bin"))
	assert.Equal(t, int64(10), paths[filepath.Join("usr", "bin", "demo")].Size)
	assert.Equal(t, "demo", paths[filepath.Join("usr", "bin", "demo-alias")].Link)

	assert.Equal(t, int64(10), TotalSize(entries))
}

func TestCheckStagingEmpty(t *testing.T) {
	_, tree, _ := testRunner(t)

	_, _, err := CheckStaging(tree.PkgDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staged no files")
}

func TestCheckStagingAbsoluteSymlink(t *testing.T) {
	_, tree, _ := testRunner(t)

	require.NoError(t, os.Symlink("/etc/passwd", filepath.Join(tree.PkgDir, "bad")))

	_, _, err := CheckStaging(tree.PkgDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute path")
}

func TestCheckStagingEscapingSymlink(t *testing.T) {
	_, tree, _ := testRunner(t)

	require.NoError(t, os.Symlink("../../outside", filepath.Join(tree.PkgDir, "bad")))

	_, _, err := CheckStaging(tree.PkgDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes the staging root")
}

func TestCheckStagingWarnings(t *testing.T) {
	_, tree, _ := testRunner(t)

	loose := filepath.Join(tree.PkgDir, "loose")
	require.NoError(t, os.WriteFile(loose, []byte("x"), 0644))
	require.NoError(t, os.Chmod(loose, 0666))

	_, warnings, err := CheckStaging(tree.PkgDir)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "world-writable")
}
