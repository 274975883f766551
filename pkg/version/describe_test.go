// pkg/version/describe_test.go
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
	n    int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) commit() plumbing.Hash {
	r.t.Helper()
	r.n++

	name := fmt.Sprintf("file%d.txt", r.n)
	err := os.WriteFile(filepath.Join(r.dir, name), []byte(fmt.Sprintf("change %d\n", r.n)), 0644)
	require.NoError(r.t, err)

	_, err = r.wt.Add(name)
	require.NoError(r.t, err)

	hash, err := r.wt.Commit(fmt.Sprintf("commit %d", r.n), &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Date(2024, 1, 1, 0, 0, r.n, 0, time.UTC),
		},
	})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

func TestDescribeNoTags(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit()
	repo.commit()
	head := repo.commit()

	got, err := Describe(repo.dir)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("0.r3.g%s", head.String()[:7]), got)
}

func TestDescribeAtTag(t *testing.T) {
	repo := newTestRepo(t)
	head := repo.commit()
	repo.tag("v1.0.1", head)

	got, err := Describe(repo.dir)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("1.0.1.r0.g%s", head.String()[:7]), got)
}

func TestDescribePastTag(t *testing.T) {
	repo := newTestRepo(t)
	tagged := repo.commit()
	repo.tag("v1.0.1", tagged)
	repo.commit()
	repo.commit()
	head := repo.commit()

	got, err := Describe(repo.dir)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("1.0.1.r3.g%s", head.String()[:7]), got)
}

func TestDescribeAnnotatedTag(t *testing.T) {
	repo := newTestRepo(t)
	tagged := repo.commit()

	_, err := repo.repo.CreateTag("v2.0", tagged, &git.CreateTagOptions{
		Message: "release 2.0",
		Tagger: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
	head := repo.commit()

	got, err := Describe(repo.dir)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("2.0.r1.g%s", head.String()[:7]), got)
}

func TestDescribeMonotonic(t *testing.T) {
	repo := newTestRepo(t)

	var versions []string
	record := func() {
		got, err := Describe(repo.dir)
		require.NoError(t, err)
		versions = append(versions, got)
	}

	repo.commit()
	record()
	repo.commit()
	record()
	head := repo.commit()
	repo.tag("v0.5", head)
	record()
	repo.commit()
	record()
	head = repo.commit()
	repo.tag("v0.6", head)
	record()
	repo.commit()
	record()

	for i := 1; i < len(versions); i++ {
		assert.Equal(t, -1, Compare(versions[i-1], versions[i]),
			"%s should precede %s", versions[i-1], versions[i])
	}
}

func TestDescribeNotARepo(t *testing.T) {
	_, err := Describe(t.TempDir())
	assert.Error(t, err)
}
