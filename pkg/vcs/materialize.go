package vcs

import (
	"github.com/hashicorp/go-multierror"
)

// materializeWorking brings the working tree to the desired file set:
// removals first, then writes. Filesystem failures don't stop the pass;
// everything that can land does, and the failures are reported together.
func (v *VCS) materializeWorking(files map[string][]byte, removals []string) error {
	var merr *multierror.Error
	for _, name := range removals {
		if err := v.wt.Remove(name); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	for name, blob := range files {
		if err := v.wt.Write(name, blob); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}
