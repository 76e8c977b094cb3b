// Package gitinfo resolves repository metadata for build provenance.
package gitinfo

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// HeadCommit returns the HEAD commit hash of the repository containing
// projectPath. Returns an empty string without error when the project is not
// inside a git repository; provenance is best-effort.
func HeadCommit(projectPath string) (string, error) {
	repo, err := git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return "", nil
		}
		return "", fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		// Fresh repository without commits.
		return "", nil
	}

	return head.Hash().String(), nil
}
