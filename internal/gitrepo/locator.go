package gitrepo

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v6"
)

const (
	locateFailedTemplateConstant = "%w: %s: %w"
	locatePathTemplateConstant   = "%w: %s"
)

// Locator resolves the working tree root of the repository containing a path.
type Locator struct{}

// NewLocator constructs a Locator backed by go-git.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate returns the working tree root of the repository at path, walking up to
// enclosing directories when path itself is not a repository root.
func (locator *Locator) Locate(path string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return "", fmt.Errorf(locateFailedTemplateConstant, ErrRepositoryNotFound, path, absoluteError)
	}

	repository, openError := git.PlainOpen(absolutePath)
	if errors.Is(openError, git.ErrRepositoryNotExists) {
		repository, openError = git.PlainOpenWithOptions(absolutePath, &git.PlainOpenOptions{DetectDotGit: true})
	}
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf(locatePathTemplateConstant, ErrRepositoryNotFound, absolutePath)
		}
		return "", fmt.Errorf(locateFailedTemplateConstant, ErrRepositoryNotFound, absolutePath, openError)
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		if errors.Is(worktreeError, git.ErrIsBareRepository) {
			return "", fmt.Errorf(locatePathTemplateConstant, ErrBareRepository, absolutePath)
		}
		return "", fmt.Errorf(locateFailedTemplateConstant, ErrRepositoryNotFound, absolutePath, worktreeError)
	}

	return worktree.Filesystem.Root(), nil
}
