package manifest

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// AppCommit returns the HEAD commit of the git repository containing dir.
// An empty string with a nil error means dir is not inside a repository.
func AppCommit(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", fmt.Errorf("open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
