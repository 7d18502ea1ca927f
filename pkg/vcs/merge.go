package vcs

import (
	"context"
	"strconv"

	"github.com/gitlite/gitlite/pkg/logging"
)

// MergeKind says which of the three merge modes ran.
type MergeKind int

const (
	MergeAlreadyUpToDate MergeKind = iota
	MergeFastForward
	MergeCommitted
)

// MergeResult reports the outcome; ID is set for MergeCommitted only.
type MergeResult struct {
	Kind MergeKind
	ID   CommitID
}

// Merge merges target (a branch name or a numeric commit ID) into the
// current branch. Three modes, tried in order: already up to date,
// fast-forward, three-way with whole-file conflict detection against the
// common ancestor.
func (v *VCS) Merge(ctx context.Context, target, message string) (*MergeResult, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Commits) == 0 {
		return nil, ErrNoCommits
	}
	current, err := snapshot.Branch(snapshot.CurrentBranch)
	if err != nil {
		return nil, err
	}
	dest, err := resolveMergeTarget(snapshot, target)
	if err != nil {
		return nil, err
	}

	sourceTip, err := snapshot.Tip(current.Name)
	if err != nil {
		return nil, err
	}
	destTip, err := snapshot.Tip(dest.Name)
	if err != nil {
		return nil, err
	}

	log := v.log.WithContext(ctx).
		WithField(logging.BranchFieldKey, current.Name).
		WithField("target", dest.Name)

	if current.Contains(destTip.ID) {
		return &MergeResult{Kind: MergeAlreadyUpToDate}, nil
	}

	if dest.Contains(sourceTip.ID) {
		// source tip is an ancestor of the destination: advance without a commit
		changes := NewChangeset()
		changes.SetBranch(current.Name, unionCommits(current, dest))
		// copy the destination tip over working and index; entries the tip
		// does not know about are left alone
		if err := v.applyTreeState(ctx, changes, nil, destTip.Files); err != nil {
			return nil, err
		}
		log.Debug("fast-forward merge")
		return &MergeResult{Kind: MergeFastForward}, nil
	}

	ancestor, err := snapshot.LowestCommonAncestor(current, dest)
	if err != nil {
		return nil, err
	}

	deltaS := changedSince(ancestor.Files, sourceTip.Files)
	deltaD := changedSince(ancestor.Files, destTip.Files)

	var conflicts []string
	for name := range deltaS {
		if _, ok := deltaD[name]; !ok {
			continue
		}
		s, inS := sourceTip.Files[name]
		d, inD := destTip.Files[name]
		if inS && inD && !Equal(s, d) {
			conflicts = append(conflicts, name)
		}
	}
	if len(conflicts) > 0 {
		return nil, &MergeConflictError{Files: conflicts}
	}

	// union-biased synthesis: both deltas first, then everything else from
	// either tip without overwriting
	merged := make(map[string][]byte)
	for name := range deltaS {
		if blob, ok := sourceTip.Files[name]; ok {
			merged[name] = blob
		}
	}
	for name := range deltaD {
		if blob, ok := destTip.Files[name]; ok {
			merged[name] = blob
		}
	}
	for name, blob := range sourceTip.Files {
		if _, ok := merged[name]; !ok {
			merged[name] = blob
		}
	}
	for name, blob := range destTip.Files {
		if _, ok := merged[name]; !ok {
			merged[name] = blob
		}
	}

	commit := &Commit{
		ID:      snapshot.NextCommitID(),
		Message: message,
		Files:   merged,
	}
	changes := NewChangeset()
	changes.WriteCommit(commit)
	ids := unionCommits(current, dest)
	ids = append(ids, commit.ID)
	changes.SetBranch(current.Name, ids)
	if err := v.applyTreeState(ctx, changes, snapshot.Index, merged); err != nil {
		return nil, err
	}
	log.WithField(logging.CommitIDFieldKey, uint64(commit.ID)).Debug("three-way merge commit")
	return &MergeResult{Kind: MergeCommitted, ID: commit.ID}, nil
}

// resolveMergeTarget accepts a branch name or a numeric commit ID; a commit
// ID resolves to its owning branch.
func resolveMergeTarget(snapshot *Snapshot, target string) (*Branch, error) {
	if id, err := strconv.ParseUint(target, 10, 64); err == nil {
		return snapshot.OwningBranch(CommitID(id))
	}
	return snapshot.Branch(target)
}

// changedSince returns the files of tip whose blob differs from the
// ancestor's, for files the ancestor has.
func changedSince(ancestor, tip map[string][]byte) map[string]struct{} {
	changed := make(map[string]struct{})
	for name, base := range ancestor {
		blob, ok := tip[name]
		if !ok || !Equal(blob, base) {
			changed[name] = struct{}{}
		}
	}
	return changed
}

// unionCommits merges b's commit set into a's; sets only ever grow.
func unionCommits(a, b *Branch) []CommitID {
	union := make(map[CommitID]struct{}, len(a.Commits)+len(b.Commits))
	for id := range a.Commits {
		union[id] = struct{}{}
	}
	for id := range b.Commits {
		union[id] = struct{}{}
	}
	return branchCommitList(union)
}

// applyTreeState applies the changeset with files written into the index,
// then materializes the same files into the working tree. When index is
// given, entries outside files are dropped so the index matches exactly.
func (v *VCS) applyTreeState(ctx context.Context, changes *Changeset, index, files map[string][]byte) error {
	for name := range index {
		if _, keep := files[name]; !keep {
			changes.IndexDelete(name)
		}
	}
	for name, blob := range files {
		changes.IndexPut(name, blob)
	}
	if err := v.store.Apply(ctx, changes); err != nil {
		return err
	}
	return v.materializeWorking(files, nil)
}
