package vcs

import (
	"context"

	"github.com/gitlite/gitlite/pkg/logging"
)

// CheckoutResult distinguishes the no-op "already on" case.
type CheckoutResult struct {
	Branch    string
	AlreadyOn bool
}

// fileState is one preserved (working, index) pair for a path with local
// changes. Absence is preserved too: a local deletion is re-applied after
// the switch.
type fileState struct {
	working   []byte
	inWorking bool
	index     []byte
	inIndex   bool
}

// switchPlan is the in-memory staging record of a branch switch: which
// local states survive, and what the final working tree and index are.
// Nothing is written until the safety analysis has passed.
type switchPlan struct {
	preserved map[string]fileState
	conflicts []string
}

// Checkout switches to the target branch without destroying uncommitted
// local work. Local edits relative to the source tip are carried across;
// the switch is refused when the destination would overwrite any of them.
func (v *VCS) Checkout(ctx context.Context, target string) (*CheckoutResult, error) {
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Commits) == 0 {
		return nil, ErrNoCommits
	}
	if _, err := snapshot.Branch(target); err != nil {
		return nil, err
	}
	if target == snapshot.CurrentBranch {
		return &CheckoutResult{Branch: target, AlreadyOn: true}, nil
	}

	source, err := snapshot.Tip(snapshot.CurrentBranch)
	if err != nil {
		return nil, err
	}
	dest, err := snapshot.Tip(target)
	if err != nil {
		return nil, err
	}
	working, err := v.wt.Snapshot()
	if err != nil {
		return nil, err
	}

	plan := buildSwitchPlan(source.Files, dest.Files, working, snapshot.Index)
	if len(plan.conflicts) > 0 {
		return nil, &CheckoutConflictError{Files: plan.conflicts}
	}

	finalWorking, finalIndex := plan.materialize(dest.Files)

	changes := NewChangeset()
	for name := range snapshot.Index {
		if _, keep := finalIndex[name]; !keep {
			changes.IndexDelete(name)
		}
	}
	for name, blob := range finalIndex {
		changes.IndexPut(name, blob)
	}
	changes.SetHead(target)
	if err := v.store.Apply(ctx, changes); err != nil {
		return nil, err
	}

	// materialize the working tree after the state switch: remove what the
	// final tree no longer has, then write the rest
	var removals []string
	for name := range working {
		if _, keep := finalWorking[name]; !keep {
			removals = append(removals, name)
		}
	}
	writes := make(map[string][]byte, len(finalWorking))
	for name, blob := range finalWorking {
		if current, ok := working[name]; ok && Equal(current, blob) {
			continue
		}
		writes[name] = blob
	}
	if err := v.materializeWorking(writes, removals); err != nil {
		return nil, err
	}
	v.log.WithContext(ctx).WithField(logging.BranchFieldKey, target).Debug("switched branch")
	return &CheckoutResult{Branch: target}, nil
}

// buildSwitchPlan categorizes every path against the source tip S and the
// destination tip D:
//   - edited-local: in S, with working or index differing from S (absence
//     included). Rejected when D also has the path with different contents
//     than S.
//   - new-local: absent in S, present in working or index. Rejected when D
//     has the path.
//
// Every non-rejected local state is preserved verbatim.
func buildSwitchPlan(source, dest, working, index map[string][]byte) *switchPlan {
	plan := &switchPlan{preserved: make(map[string]fileState)}

	union := make(map[string]struct{})
	for name := range source {
		union[name] = struct{}{}
	}
	for name := range working {
		union[name] = struct{}{}
	}
	for name := range index {
		union[name] = struct{}{}
	}

	for name := range union {
		s, inS := source[name]
		w, inW := working[name]
		i, inI := index[name]
		d, inD := dest[name]

		state := fileState{working: w, inWorking: inW, index: i, inIndex: inI}
		if inS {
			edited := !presentEqual(w, inW, s, true) || !presentEqual(i, inI, s, true)
			if !edited {
				continue
			}
			if inD && !Equal(d, s) {
				plan.conflicts = append(plan.conflicts, name)
				continue
			}
			plan.preserved[name] = state
		} else if inW || inI {
			if inD {
				plan.conflicts = append(plan.conflicts, name)
				continue
			}
			plan.preserved[name] = state
		}
	}
	return plan
}

// materialize computes the final working tree and index: the destination
// tip overlaid with every preserved local state.
func (p *switchPlan) materialize(dest map[string][]byte) (map[string][]byte, map[string][]byte) {
	finalWorking := make(map[string][]byte, len(dest))
	finalIndex := make(map[string][]byte, len(dest))
	for name, blob := range dest {
		finalWorking[name] = blob
		finalIndex[name] = blob
	}
	for name, state := range p.preserved {
		if state.inWorking {
			finalWorking[name] = state.working
		} else {
			delete(finalWorking, name)
		}
		if state.inIndex {
			finalIndex[name] = state.index
		} else {
			delete(finalIndex, name)
		}
	}
	return finalWorking, finalIndex
}
