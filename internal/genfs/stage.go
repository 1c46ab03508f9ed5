package genfs

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Stage adds the files written below prefix to the index of the git
// repository enclosing prefix.
func (fs *FS) Stage(prefix string) error {
	abs, err := filepath.Abs(prefix)
	if err != nil {
		return err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("failed to open repository for %s: %w", abs, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}

	root := worktree.Filesystem.Root()
	for _, f := range fs.Files() {
		rel, err := filepath.Rel(root, filepath.Join(abs, filepath.FromSlash(f.RelativePath)))
		if err != nil {
			return err
		}
		if _, err := worktree.Add(filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("failed to stage %s: %w", rel, err)
		}
	}
	return nil
}
