// pkg/build/runner.go
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkgsmith/pkgsmith/pkg/manifest"
)

// ErrHookFailed indicates a lifecycle hook exited unsuccessfully
var ErrHookFailed = errors.New("hook failed")

// NewRunner creates a lifecycle runner
func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.BuildRoot == "" {
		cfg.BuildRoot = filepath.Join(os.TempDir(), "pkgsmith")
	}
	if cfg.Shell == "" {
		cfg.Shell = "/bin/sh"
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[BUILD] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Runner{
		config: cfg,
		logger: logger,
	}
}

// PrepareTree creates a fresh build tree for the recipe. An existing
// tree for the same recipe is removed first.
func (r *Runner) PrepareTree(m *manifest.Manifest) (*Tree, error) {
	root := filepath.Join(r.config.BuildRoot, m.Name)

	if err := os.RemoveAll(root); err != nil {
		return nil, fmt.Errorf("cleaning build root: %w", err)
	}

	tree := &Tree{
		Root:     root,
		StartDir: m.Dir,
		SrcDir:   filepath.Join(root, "src"),
		PkgDir:   filepath.Join(root, "pkg"),
	}

	for _, dir := range []string{tree.SrcDir, tree.PkgDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating build tree: %w", err)
		}
	}

	return tree, nil
}

// RunHook executes one lifecycle hook with sh -e in the source
// directory. Empty hooks are a no-op. Failures carry the tail of the
// hook output; nothing is retried.
func (r *Runner) RunHook(ctx context.Context, name, script string, tree *Tree, m *manifest.Manifest) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}

	r.logger.Printf("Running %s()", name)

	cmd := exec.CommandContext(ctx, r.config.Shell, "-e", "-c", script)
	cmd.Dir = tree.SrcDir
	cmd.Env = append(os.Environ(),
		"PKGNAME="+m.Name,
		"PKGBASE="+m.Base,
		"PKGVER="+m.Version,
		fmt.Sprintf("PKGREL=%d", m.Release),
		"STARTDIR="+tree.StartDir,
		"SRCDIR="+tree.SrcDir,
		"PKGDIR="+tree.PkgDir,
	)

	var buf bytes.Buffer
	if r.config.Debug {
		cmd.Stdout = io.MultiWriter(os.Stdout, &buf)
		cmd.Stderr = io.MultiWriter(os.Stderr, &buf)
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %w: %v%s", name, ErrHookFailed, err, outputTail(&buf))
	}

	return nil
}

// outputTail renders the last lines of hook output for error context
func outputTail(buf *bytes.Buffer) string {
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	if len(lines) > 10 {
		lines = lines[len(lines)-10:]
	}
	return "\n  " + strings.Join(lines, "\n  ")
}
