package vcs

import (
	"context"

	"github.com/gitlite/gitlite/pkg/logging"
)

// CommitParams are the inputs of the commit engine.
type CommitParams struct {
	Message string
	// All refreshes every staged entry from the working tree first
	// (the -a flag): working contents replace the staged blob, a gone
	// working file unstages the entry.
	All bool
}

// CommitResult reports what the commit engine did. Created is false for
// the "nothing to commit" outcome, which is a success.
type CommitResult struct {
	ID      CommitID
	Created bool
}

// Commit snapshots the index into a new commit on the current branch.
func (v *VCS) Commit(ctx context.Context, params CommitParams) (*CommitResult, error) {
	if params.Message == "" {
		return nil, ErrEmptyMessage
	}
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	changes := NewChangeset()

	index := make(map[string][]byte, len(snapshot.Index))
	for name, blob := range snapshot.Index {
		index[name] = blob
	}
	if params.All {
		for name := range snapshot.Index {
			blob, exists, err := v.wt.Read(name)
			if err != nil {
				return nil, err
			}
			if exists {
				index[name] = blob
				changes.IndexPut(name, blob)
			} else {
				delete(index, name)
				changes.IndexDelete(name)
			}
		}
	}

	if !commitNeeded(snapshot, index) {
		// the -a index refresh still lands, there is just no commit
		if !changes.Empty() {
			if err := v.store.Apply(ctx, changes); err != nil {
				return nil, err
			}
		}
		return &CommitResult{Created: false}, nil
	}

	commit := &Commit{
		ID:      snapshot.NextCommitID(),
		Message: params.Message,
		Files:   index,
	}
	branch, err := snapshot.Branch(snapshot.CurrentBranch)
	if err != nil {
		return nil, err
	}
	ids := branchCommitList(branch.Commits)
	ids = append(ids, commit.ID)

	changes.WriteCommit(commit)
	changes.SetBranch(branch.Name, ids)
	if err := v.store.Apply(ctx, changes); err != nil {
		return nil, err
	}
	v.log.WithContext(ctx).
		WithField(logging.CommitIDFieldKey, uint64(commit.ID)).
		WithField(logging.BranchFieldKey, branch.Name).
		Debug("created commit")
	return &CommitResult{ID: commit.ID, Created: true}, nil
}

// commitNeeded decides the "nothing to commit" cases: an empty repository
// with an empty index, or an index identical to the head commit.
func commitNeeded(snapshot *Snapshot, index map[string][]byte) bool {
	head := snapshot.Head()
	if head == nil {
		return len(index) > 0
	}
	if len(head.Files) != len(index) {
		return true
	}
	for name, blob := range index {
		headBlob, ok := head.Files[name]
		if !ok || !Equal(blob, headBlob) {
			return true
		}
	}
	return false
}
