package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func TestHeadCommit_NotARepository(t *testing.T) {
	commit, err := HeadCommit(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, commit)
}

func TestHeadCommit_RepositoryWithoutCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	commit, err := HeadCommit(dir)
	require.NoError(t, err)
	require.Empty(t, commit)
}

func TestHeadCommit_ResolvesHead(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte("site:\n  name: Acme\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("site.yaml")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	commit, err := HeadCommit(dir)
	require.NoError(t, err)
	require.Equal(t, hash.String(), commit)
}

func TestHeadCommit_DetectsDotGitFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte("site:\n  name: Acme\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("site.yaml")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	sub := filepath.Join(dir, "pages")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	commit, err := HeadCommit(sub)
	require.NoError(t, err)
	require.NotEmpty(t, commit)
}
