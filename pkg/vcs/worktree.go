package vcs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gitlite/gitlite/pkg/validator"
)

// Worktree reads and materializes files in the repository root directory.
// Only flat, lexically valid top-level names are visible; everything else
// (directories, the state dir, oddly named files) is ignored.
type Worktree struct {
	root string
}

func NewWorktree(root string) *Worktree {
	return &Worktree{root: root}
}

func (w *Worktree) Root() string {
	return w.root
}

func (w *Worktree) path(name string) string {
	return filepath.Join(w.root, name)
}

// Read returns the file bytes and whether a regular file with this name
// exists. A directory under this name is ErrNotRegularFile.
func (w *Worktree) Read(name string) ([]byte, bool, error) {
	info, err := os.Lstat(w.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return nil, false, fmt.Errorf("'%s' %w", name, ErrNotRegularFile)
	}
	data, err := os.ReadFile(w.path(name))
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", name, err)
	}
	return data, true, nil
}

// Snapshot maps every tracked-shaped working file to its contents.
func (w *Worktree) Snapshot() (map[string][]byte, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("read worktree: %w", err)
	}
	files := make(map[string][]byte)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !validator.ReValidFileName.MatchString(name) {
			continue
		}
		data, err := os.ReadFile(w.path(name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		files[name] = data
	}
	return files, nil
}

func (w *Worktree) Write(name string, blob []byte) error {
	if err := os.WriteFile(w.path(name), blob, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (w *Worktree) Remove(name string) error {
	err := os.Remove(w.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
