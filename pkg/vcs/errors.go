package vcs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotInitialized     = errors.New("repository not initialized")
	ErrAlreadyInitialized = errors.New("repository already initialized")
	ErrInvalidValue       = errors.New("invalid value")
	ErrBranchNotFound     = fmt.Errorf("branch %w", ErrNotFound)
	ErrCommitNotFound     = fmt.Errorf("commit %w", ErrNotFound)
	ErrFileNotFound       = fmt.Errorf("file %w", ErrNotFound)
	ErrNoCommits          = errors.New("this command can not be run until after the first commit")
	ErrNoCommonAncestor   = errors.New("no common ancestor")
	ErrBranchExists       = errors.New("branch already exists")
	ErrProtectedBranch    = errors.New("default branch can not be deleted")
	ErrCurrentBranch      = errors.New("can not delete the current branch")
	ErrUnmergedBranch     = errors.New("branch has unmerged changes")
	ErrEmptyMessage       = errors.New("empty commit message")
	ErrNotRegularFile     = errors.New("not a regular file")
)

// Removal safety predicates (git-rm). Each message follows the requested
// file name on the error line.
var (
	ErrRmNotInRepository = errors.New("is not in the git repository")
	ErrRmIndexDiverged   = errors.New("in index is different to both the working file and the repository")
	ErrRmStagedChanges   = errors.New("has staged changes in the index")
	ErrRmWorkingDiverged = errors.New("in the repository is different to the working file")
)

// CheckoutConflictError reports the paths whose local changes a branch
// switch would overwrite. The switch makes no change when this is returned.
type CheckoutConflictError struct {
	Files []string
}

func (e *CheckoutConflictError) Error() string {
	files := append([]string(nil), e.Files...)
	sort.Strings(files)
	return "Your changes to the following files would be overwritten by checkout:\n" +
		strings.Join(files, "\n")
}

// MergeConflictError reports whole-file conflicts of a three-way merge.
type MergeConflictError struct {
	Files []string
}

func (e *MergeConflictError) Error() string {
	files := append([]string(nil), e.Files...)
	sort.Strings(files)
	return "These files can not be merged:\n" + strings.Join(files, "\n")
}
