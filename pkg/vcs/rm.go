package vcs

import (
	"context"
	"fmt"

	"github.com/gitlite/gitlite/pkg/validator"
)

// RemoveParams selects the rm mode. Cached removes from the index only;
// Force suppresses every safety check except the not-in-repository one.
type RemoveParams struct {
	Cached bool
	Force  bool
}

// removalCheck runs the safety cascade for one path. The predicates encode
// the same three-way (working, index, head) reasoning as the status
// classifier, as guard clauses.
func removalCheck(name string, w []byte, inW bool, i []byte, inI bool, h []byte, inH bool, params RemoveParams) error {
	if !inI {
		return fmt.Errorf("'%s' %w", name, ErrRmNotInRepository)
	}
	if params.Force {
		return nil
	}
	indexMatchesWorking := presentEqual(i, inI, w, inW)
	indexMatchesHead := presentEqual(i, inI, h, inH)
	if !indexMatchesWorking && !indexMatchesHead {
		return fmt.Errorf("'%s' %w", name, ErrRmIndexDiverged)
	}
	if params.Cached {
		return nil
	}
	if indexMatchesWorking && !indexMatchesHead {
		return fmt.Errorf("'%s' %w", name, ErrRmStagedChanges)
	}
	if inW && !presentEqual(w, inW, h, inH) {
		return fmt.Errorf("'%s' %w", name, ErrRmWorkingDiverged)
	}
	return nil
}

// Remove unstages (and unless cached, deletes) the named files. Every
// requested file passes the safety cascade before anything is removed.
func (v *VCS) Remove(ctx context.Context, paths []string, params RemoveParams) error {
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return err
	}
	head := map[string][]byte{}
	if c := snapshot.Head(); c != nil {
		head = c.Files
	}

	for _, name := range paths {
		if err := validator.ValidateFileName(name); err != nil {
			return err
		}
		w, inW, err := v.wt.Read(name)
		if err != nil {
			return err
		}
		i, inI := snapshot.Index[name]
		h, inH := head[name]
		if err := removalCheck(name, w, inW, i, inI, h, inH, params); err != nil {
			return err
		}
	}

	changes := NewChangeset()
	for _, name := range paths {
		changes.IndexDelete(name)
	}
	if err := v.store.Apply(ctx, changes); err != nil {
		return err
	}
	if !params.Cached {
		for _, name := range paths {
			if err := v.wt.Remove(name); err != nil {
				return err
			}
		}
	}
	return nil
}
