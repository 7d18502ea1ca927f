package vcs

import (
	"context"
	"fmt"
	"sort"

	"github.com/gitlite/gitlite/pkg/logging"
	"github.com/gitlite/gitlite/pkg/validator"
)

// VCS wires the engines to a repository store and a working tree. One
// instance serves one command invocation.
type VCS struct {
	store Store
	wt    *Worktree
	log   logging.Logger
}

func New(store Store, wt *Worktree) *VCS {
	return &VCS{
		store: store,
		wt:    wt,
		log:   logging.Default().WithField(logging.ServiceNameFieldKey, "vcs"),
	}
}

// Init creates the repository: empty index, no commits, branch trunk,
// HEAD at trunk.
func (v *VCS) Init(ctx context.Context) error {
	return v.store.Init(ctx)
}

// Add stages the named working files into the index. A path that is gone
// from the working tree but still staged is removed from the index; that is
// how deletions are staged. All paths are validated before any mutation.
func (v *VCS) Add(ctx context.Context, paths []string) error {
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return err
	}
	changes := NewChangeset()
	for _, name := range paths {
		if err := validator.ValidateFileName(name); err != nil {
			return err
		}
		blob, exists, err := v.wt.Read(name)
		if err != nil {
			return err
		}
		if exists {
			changes.IndexPut(name, blob)
			continue
		}
		if _, staged := snapshot.Index[name]; !staged {
			return fmt.Errorf("can not open '%s': %w", name, ErrFileNotFound)
		}
		changes.IndexDelete(name)
	}
	v.log.WithContext(ctx).WithField("paths", len(paths)).Debug("staged paths")
	return v.store.Apply(ctx, changes)
}

// Log lists the commits of the current branch, tip first.
func (v *VCS) Log(ctx context.Context) ([]*Commit, error) {
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	branch, err := snapshot.Branch(snapshot.CurrentBranch)
	if err != nil {
		return nil, err
	}
	ids := branchCommitList(branch.Commits)
	commits := make([]*Commit, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		commits = append(commits, snapshot.Commits[ids[i]])
	}
	return commits, nil
}

// Show returns the blob of name from the given commit, or from the index
// when commit is nil.
func (v *VCS) Show(ctx context.Context, commit *CommitID, name string) ([]byte, error) {
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if commit == nil {
		blob, ok := snapshot.Index[name]
		if !ok {
			return nil, fmt.Errorf("'%s' %w in index", name, ErrNotFound)
		}
		return blob, nil
	}
	c, ok := snapshot.Commits[*commit]
	if !ok {
		return nil, fmt.Errorf("'%d': %w", *commit, ErrCommitNotFound)
	}
	blob, ok := c.Files[name]
	if !ok {
		return nil, fmt.Errorf("'%s' %w in commit %d", name, ErrNotFound, *commit)
	}
	return blob, nil
}

// Branches lists branch names sorted ascending.
func (v *VCS) Branches(ctx context.Context) ([]string, error) {
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(snapshot.Branches))
	for name := range snapshot.Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateBranch creates a branch off the current one, inheriting its commit
// set by value. Requires at least one commit, so the new branch has a tip.
func (v *VCS) CreateBranch(ctx context.Context, name string) error {
	if err := validator.ValidateBranchName(name); err != nil {
		return err
	}
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return err
	}
	if len(snapshot.Commits) == 0 {
		return ErrNoCommits
	}
	if _, ok := snapshot.Branches[name]; ok {
		return fmt.Errorf("'%s': %w", name, ErrBranchExists)
	}
	current, err := snapshot.Branch(snapshot.CurrentBranch)
	if err != nil {
		return err
	}
	changes := NewChangeset()
	changes.SetBranch(name, branchCommitList(current.Commits))
	v.log.WithContext(ctx).WithField(logging.BranchFieldKey, name).Debug("create branch")
	return v.store.Apply(ctx, changes)
}

// DeleteBranch deletes a branch. The default branch, the current branch and
// branches whose tip is not merged into the current branch are protected.
func (v *VCS) DeleteBranch(ctx context.Context, name string) error {
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return err
	}
	if name == DefaultBranchID {
		return ErrProtectedBranch
	}
	branch, err := snapshot.Branch(name)
	if err != nil {
		return err
	}
	if name == snapshot.CurrentBranch {
		return fmt.Errorf("'%s': %w", name, ErrCurrentBranch)
	}
	current, err := snapshot.Branch(snapshot.CurrentBranch)
	if err != nil {
		return err
	}
	if tip, ok := branch.Tip(); ok && !current.Contains(tip) {
		return fmt.Errorf("'%s': %w", name, ErrUnmergedBranch)
	}
	changes := NewChangeset()
	changes.DeleteBranch(name)
	v.log.WithContext(ctx).WithField(logging.BranchFieldKey, name).Debug("delete branch")
	return v.store.Apply(ctx, changes)
}
