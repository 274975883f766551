// pkg/registry/sync.go
package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	// DefaultRepoURL is the recipe collection cloned when none is
	// configured
	DefaultRepoURL = "https://github.com/pkgsmith/recipes"

	// RepoBranch is the branch the collection is synced from
	RepoBranch = "main"
)

// Sync clones the recipe collection and copies recipes/ into the cache
func Sync(cacheDir, repoURL string) error {
	if repoURL == "" {
		repoURL = DefaultRepoURL
	}

	tempDir, err := os.MkdirTemp("", "pkgsmith-clone-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	fmt.Printf("Updating recipe index from %s...\n", repoURL)

	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           repoURL,
		ReferenceName: plumbing.NewBranchReferenceName(RepoBranch),
		SingleBranch:  true,
		Depth:         1,
		Progress:      os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}

	if err := copyDir(
		filepath.Join(tempDir, "recipes"),
		filepath.Join(cacheDir, "recipes"),
	); err != nil {
		return fmt.Errorf("copying recipes: %w", err)
	}

	fmt.Println("Recipe index updated successfully.")
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	os.MkdirAll(dst, 0755)

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}
