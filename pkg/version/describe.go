// pkg/version/describe.go
package version

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Describe derives a package version string from the tag history of a
// checked-out git repository. The result is comparable with Compare and
// grows monotonically as commits accrue past the latest tag:
//
//	1.0.1.r0.g2a41cd7  exactly at tag v1.0.1
//	1.0.1.r3.g81fa2e9  3 commits past v1.0.1
//	0.r12.g9f21c04     repository has no tags yet
//
// The commit count suffix is always present so the series stays
// strictly increasing under Compare.
func Describe(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}

	tagged, err := tagsByCommit(repo)
	if err != nil {
		return "", err
	}

	commits, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return "", fmt.Errorf("walking history: %w", err)
	}

	count := 0
	tagName := ""
	err = commits.ForEach(func(c *object.Commit) error {
		if name, ok := tagged[c.Hash]; ok {
			tagName = name
			return storer.ErrStop
		}
		count++
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history: %w", err)
	}

	short := head.Hash().String()[:7]

	if tagName == "" {
		return fmt.Sprintf("0.r%d.g%s", count, short), nil
	}
	return fmt.Sprintf("%s.r%d.g%s", sanitizeTag(tagName), count, short), nil
}

// tagsByCommit maps commit hashes to tag names, peeling annotated tags
// to the commit they point at
func tagsByCommit(repo *git.Repository) (map[plumbing.Hash]string, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	byCommit := make(map[plumbing.Hash]string)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tag, err := repo.TagObject(hash); err == nil {
			hash = tag.Target
		}
		name := ref.Name().Short()
		// Multiple tags on one commit: keep the highest version
		if existing, ok := byCommit[hash]; ok {
			if Compare(sanitizeTag(name), sanitizeTag(existing)) <= 0 {
				return nil
			}
		}
		byCommit[hash] = name
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	return byCommit, nil
}

// sanitizeTag turns a tag name into a valid package version: the leading
// "v" is dropped and characters the version syntax reserves are mapped
// to dots
func sanitizeTag(tag string) string {
	if len(tag) > 1 && tag[0] == 'v' && isDigit(tag[1]) {
		tag = tag[1:]
	}
	tag = strings.ReplaceAll(tag, "-", ".")
	tag = strings.ReplaceAll(tag, "/", ".")
	return tag
}
