// pkg/source/fetch.go
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/pkgsmith/pkgsmith/pkg/manifest"
)

// NewFetcher creates a source fetcher
func NewFetcher(cfg *Config) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.CachePath == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.CachePath = filepath.Join(homeDir, ".cache", "pkgsmith")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[FETCH] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Fetcher{
		client: NewClientWithTimeout(cfg.Timeout),
		config: cfg,
		logger: logger,
	}
}

// Fetch acquires every source of the manifest into the cache and
// verifies checksums. Nothing is staged into the build tree yet.
func (f *Fetcher) Fetch(ctx context.Context, m *manifest.Manifest) ([]Fetched, error) {
	fetched := make([]Fetched, 0, len(m.Sources))

	for _, src := range m.Sources {
		var (
			entry Fetched
			err   error
		)
		switch {
		case src.IsGit():
			entry, err = f.fetchGit(ctx, src)
		case src.IsRemote():
			entry, err = f.fetchRemote(ctx, src)
		default:
			entry, err = f.fetchLocal(src, m.Dir)
		}
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", src.FileName(), err)
		}
		fetched = append(fetched, entry)
	}

	return fetched, nil
}

// fetchRemote downloads a source over HTTP, reusing a cached copy when
// its checksum still verifies
func (f *Fetcher) fetchRemote(ctx context.Context, src manifest.Source) (Fetched, error) {
	dest := filepath.Join(f.config.CachePath, "sources", src.FileName())

	if _, err := os.Stat(dest); err == nil {
		if src.Checksum == manifest.ChecksumSkip {
			f.logger.Printf("Using cached %s", src.FileName())
			return Fetched{Source: src, Path: dest, Kind: classify(dest)}, nil
		}
		if err := Verify(dest, src.Checksum); err == nil {
			f.logger.Printf("Using cached %s", src.FileName())
			return Fetched{Source: src, Path: dest, Kind: classify(dest)}, nil
		}
		f.logger.Printf("Cached %s failed verification, refetching", src.FileName())
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return Fetched{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return Fetched{}, err
	}
	defer os.Remove(tmp.Name())

	f.logger.Printf("Downloading %s", src.URL)
	if _, err := f.client.Download(ctx, src.URL, tmp); err != nil {
		tmp.Close()
		return Fetched{}, err
	}
	if err := tmp.Close(); err != nil {
		return Fetched{}, err
	}

	if err := Verify(tmp.Name(), src.Checksum); err != nil {
		return Fetched{}, err
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return Fetched{}, err
	}

	return Fetched{Source: src, Path: dest, Kind: classify(dest)}, nil
}

// fetchGit clones a git source into the cache, or refreshes an existing
// clone
func (f *Fetcher) fetchGit(ctx context.Context, src manifest.Source) (Fetched, error) {
	dest := filepath.Join(f.config.CachePath, "git", src.FileName())

	if _, err := os.Stat(filepath.Join(dest, ".git")); err == nil {
		repo, err := git.PlainOpen(dest)
		if err != nil {
			return Fetched{}, fmt.Errorf("opening cached clone: %w", err)
		}
		f.logger.Printf("Updating %s", src.CloneURL())
		if err := refreshClone(ctx, repo); err != nil {
			f.logger.Printf("  Warning: refresh failed, using cached clone: %v", err)
		}
		return Fetched{Source: src, Path: dest, Kind: KindGit}, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return Fetched{}, err
	}

	f.logger.Printf("Cloning %s", src.CloneURL())
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:  src.CloneURL(),
		Tags: git.AllTags,
	})
	if err != nil {
		return Fetched{}, fmt.Errorf("git clone failed: %w", err)
	}

	return Fetched{Source: src, Path: dest, Kind: KindGit}, nil
}

// refreshClone fetches the remote and moves the checked-out branch to
// the remote head, so a reused cache tracks upstream instead of the
// commit the original clone happened to see.
func refreshClone(ctx context.Context, repo *git.Repository) error {
	err := repo.FetchContext(ctx, &git.FetchOptions{Tags: git.AllTags})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		return err
	}
	if !head.Name().IsBranch() {
		return nil
	}

	remoteName := plumbing.NewRemoteReferenceName(git.DefaultRemoteName, head.Name().Short())
	remote, err := repo.Reference(remoteName, true)
	if err != nil {
		return err
	}
	if remote.Hash() == head.Hash() {
		return nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	return wt.Reset(&git.ResetOptions{Commit: remote.Hash(), Mode: git.HardReset})
}

// fetchLocal resolves a source shipped next to the manifest
func (f *Fetcher) fetchLocal(src manifest.Source, recipeDir string) (Fetched, error) {
	path := src.URL
	if !filepath.IsAbs(path) {
		path = filepath.Join(recipeDir, path)
	}

	if _, err := os.Stat(path); err != nil {
		return Fetched{}, fmt.Errorf("local source: %w", err)
	}
	if err := Verify(path, src.Checksum); err != nil {
		return Fetched{}, err
	}

	return Fetched{Source: src, Path: path, Kind: classify(path)}, nil
}

// Stage materializes fetched sources into the build source directory:
// archives are unpacked, git clones checked out, plain files copied.
func (f *Fetcher) Stage(fetched []Fetched, srcdir string) error {
	if err := os.MkdirAll(srcdir, 0755); err != nil {
		return err
	}

	for _, entry := range fetched {
		name := entry.Source.FileName()
		switch entry.Kind {
		case KindGit:
			f.logger.Printf("Checking out %s", name)
			dest := filepath.Join(srcdir, name)
			_, err := git.PlainClone(dest, false, &git.CloneOptions{
				URL:  entry.Path,
				Tags: git.AllTags,
			})
			if err != nil {
				return fmt.Errorf("staging %s: %w", name, err)
			}
		case KindArchive:
			f.logger.Printf("Extracting %s", name)
			if err := Extract(entry.Path, srcdir); err != nil {
				return fmt.Errorf("staging %s: %w", name, err)
			}
		default:
			f.logger.Printf("Copying %s", name)
			if err := copyFile(entry.Path, filepath.Join(srcdir, name)); err != nil {
				return fmt.Errorf("staging %s: %w", name, err)
			}
		}
	}

	return nil
}

// classify decides whether a local file is unpacked or copied
func classify(path string) Kind {
	name := strings.ToLower(path)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			return KindArchive
		}
	}
	return KindFile
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
