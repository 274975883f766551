// pkgsmith.go
package pkgsmith

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkgsmith/pkgsmith/pkg/archive"
	"github.com/pkgsmith/pkgsmith/pkg/build"
	"github.com/pkgsmith/pkgsmith/pkg/core"
	"github.com/pkgsmith/pkgsmith/pkg/fingerprint"
	"github.com/pkgsmith/pkgsmith/pkg/manifest"
	"github.com/pkgsmith/pkgsmith/pkg/platform"
	"github.com/pkgsmith/pkgsmith/pkg/registry"
	"github.com/pkgsmith/pkgsmith/pkg/repodb"
	"github.com/pkgsmith/pkgsmith/pkg/source"
	"github.com/pkgsmith/pkgsmith/pkg/version"
)

// Re-export the domain types for convenience
type (
	Manifest      = manifest.Manifest
	Source        = manifest.Source
	Config        = core.Config
	PackageInfo   = archive.Info
	PackageEntry  = archive.Entry
	Record        = repodb.Record
	RegistryEntry = registry.Entry
)

// Output formats
const (
	FormatPacman = "pacman"
	FormatDeb    = "deb"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// BuildOptions configures one package build
type BuildOptions struct {
	OutputDir     string   // Where artifacts are written, config default if empty
	Formats       []string // Output formats, config default if empty
	SkipChecksums bool     // Skip source checksum verification
	KeepBuildTree bool     // Keep srcdir/pkgdir after the build
}

// Result is the outcome of a successful build
type Result struct {
	Manifest    *Manifest
	Arch        string   // Effective architecture
	Artifacts   []string // Paths of the written packages
	Fingerprint string   // Content fingerprint of the staged tree
	Warnings    []string // Staging lint warnings
}

// Builder drives the full package build pipeline: manifest, version
// resolution, source acquisition, lifecycle hooks, staging checks and
// artifact emission.
type Builder struct {
	config  *core.Config
	fetcher *source.Fetcher
	runner  *build.Runner
	logger  *log.Logger
}

// NewBuilder creates a builder from the configuration
func NewBuilder(cfg *core.Config) *Builder {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Debug {
		logger = log.New(os.Stdout, "[PKGSMITH] ", log.LstdFlags)
	}

	return &Builder{
		config: cfg,
		fetcher: source.NewFetcher(&source.Config{
			CachePath: cfg.CachePath,
			Debug:     cfg.Debug,
		}),
		runner: build.NewRunner(&build.Config{
			BuildRoot: cfg.BuildRoot,
			Debug:     cfg.Debug,
		}),
		logger: logger,
	}
}

// Build runs the whole pipeline for one recipe. recipePath may be a
// recipe directory or a manifest file.
func (b *Builder) Build(ctx context.Context, recipePath string, opts *BuildOptions) (*Result, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	m, err := manifest.Load(recipePath)
	if err != nil {
		return nil, &Error{Op: "load", Err: err}
	}

	if problems := m.Validate(); len(problems) > 0 {
		return nil, &Error{
			Op:     "lint",
			Recipe: m.Name,
			Err:    fmt.Errorf("%w: %s", ErrManifestInvalid, strings.Join(problems, "; ")),
		}
	}

	native, err := platform.Detect()
	if err != nil {
		return nil, &Error{Op: "detect", Recipe: m.Name, Err: err}
	}
	arch, err := platform.Effective(m.Arch, native)
	if err != nil {
		return nil, &Error{Op: "detect", Recipe: m.Name, Err: fmt.Errorf("%w: %v", ErrArchNotSupported, err)}
	}

	if opts.SkipChecksums {
		for i := range m.Sources {
			m.Sources[i].Checksum = manifest.ChecksumSkip
		}
	}

	b.logger.Printf("Building %s", m.Name)

	fetched, err := b.fetcher.Fetch(ctx, m)
	if err != nil {
		return nil, &Error{Op: "fetch", Recipe: m.Name, Err: err}
	}

	if err := b.resolveVersion(m, fetched); err != nil {
		return nil, &Error{Op: "version", Recipe: m.Name, Err: err}
	}
	b.logger.Printf("Version %s", m.FullVersion())

	tree, err := b.runner.PrepareTree(m)
	if err != nil {
		return nil, &Error{Op: "prepare", Recipe: m.Name, Err: err}
	}
	if !opts.KeepBuildTree {
		defer os.RemoveAll(tree.Root)
	}

	if err := b.fetcher.Stage(fetched, tree.SrcDir); err != nil {
		return nil, &Error{Op: "stage", Recipe: m.Name, Err: err}
	}

	hooks := []struct {
		name   string
		script string
	}{
		{"prepare", m.Prepare},
		{"build", m.Build},
		{"check", m.Check},
		{"package", m.Package},
	}
	for _, hook := range hooks {
		if err := b.runner.RunHook(ctx, hook.name, hook.script, tree, m); err != nil {
			return nil, &Error{Op: hook.name, Recipe: m.Name, Err: err}
		}
	}

	entries, warnings, err := build.CheckStaging(tree.PkgDir)
	if err != nil {
		return nil, &Error{Op: "package", Recipe: m.Name, Err: fmt.Errorf("%w: %v", ErrStagingViolation, err)}
	}
	for _, w := range warnings {
		b.logger.Printf("  Warning: %s", w)
	}

	fp, err := fingerprint.Tree(tree.PkgDir)
	if err != nil {
		return nil, &Error{Op: "fingerprint", Recipe: m.Name, Err: err}
	}
	b.logger.Printf("Fingerprint %s", fp)

	info := packageInfo(m, string(arch), build.TotalSize(entries), b.config.Packager)

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = b.config.OutputDir
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{b.config.Format}
	}

	var artifacts []string
	for _, format := range formats {
		var path string
		switch format {
		case FormatPacman:
			path = filepath.Join(outputDir, info.FileName())
			err = archive.WritePackage(path, info, tree.PkgDir)
		case FormatDeb:
			path = filepath.Join(outputDir, archive.DebFileName(info))
			err = archive.WriteDeb(path, info, tree.PkgDir)
		default:
			err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
		}
		if err != nil {
			return nil, &Error{Op: "archive", Recipe: m.Name, Err: err}
		}
		b.logger.Printf("Wrote %s", path)
		artifacts = append(artifacts, path)
	}

	return &Result{
		Manifest:    m,
		Arch:        string(arch),
		Artifacts:   artifacts,
		Fingerprint: fp,
		Warnings:    warnings,
	}, nil
}

// resolveVersion fills in a dynamic version from the tag history of the
// first git source
func (b *Builder) resolveVersion(m *Manifest, fetched []source.Fetched) error {
	if m.VersionFrom != manifest.VersionFromGit {
		return nil
	}

	for _, entry := range fetched {
		if entry.Kind != source.KindGit {
			continue
		}
		derived, err := version.Describe(entry.Path)
		if err != nil {
			return err
		}
		if m.Version != "" && version.Compare(derived, m.Version) < 0 {
			return fmt.Errorf("derived version %s is older than manifest version %s", derived, m.Version)
		}
		m.Version = derived
		return nil
	}

	return fmt.Errorf("version_from: git requires a git source")
}

// RecordFor builds the repository database record describing a built
// package artifact
func RecordFor(path string) (*Record, error) {
	info, _, err := archive.ReadPackage(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	sum, err := source.Sum(path)
	if err != nil {
		return nil, err
	}

	return &repodb.Record{
		Name:         info.Name,
		Version:      info.Version,
		Base:         info.Base,
		Description:  info.Description,
		URL:          info.URL,
		Architecture: info.Arch,
		BuildDate:    info.BuildDate,
		Packager:     info.Packager,
		CSize:        stat.Size(),
		ISize:        info.Size,
		Filename:     filepath.Base(path),
		SHA256Sum:    sum,
		License:      info.License,
		Depends:      info.Depends,
		OptDepends:   info.OptDepends,
		MakeDepends:  info.MakeDepends,
		Conflicts:    info.Conflicts,
		Provides:     info.Provides,
		Replaces:     info.Replaces,
	}, nil
}

// packageInfo maps a resolved manifest to the archive metadata block
func packageInfo(m *Manifest, arch string, size int64, packager string) *archive.Info {
	return &archive.Info{
		Name:        m.Name,
		Base:        m.Base,
		Version:     m.FullVersion(),
		Description: m.Description,
		URL:         m.URL,
		Packager:    packager,
		Arch:        arch,
		BuildDate:   time.Now().Unix(),
		Size:        size,
		License:     m.License,
		Depends:     m.Depends,
		OptDepends:  m.OptDepends,
		MakeDepends: m.MakeDepends,
		Conflicts:   m.Conflicts,
		Provides:    m.Provides,
		Replaces:    m.Replaces,
		Backup:      m.Backup,
	}
}
