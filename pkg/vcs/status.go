package vcs

import (
	"context"
	"sort"
)

// FileStatus is the twelve-way classification of one path over
// (working, index, head).
type FileStatus int

const (
	StatusUntracked FileStatus = iota
	StatusAddedToIndex
	StatusAddedToIndexFileChanged
	StatusAddedToIndexFileDeleted
	StatusDeletedFromIndex
	StatusSameAsRepo
	StatusChangedNotStaged
	StatusChangedStaged
	StatusChangedDifferentStaged
	StatusFileDeleted
	StatusFileDeletedStaged
	StatusFileDeletedDeletedFromIndex
)

var statusText = map[FileStatus]string{
	StatusUntracked:                   "untracked",
	StatusAddedToIndex:                "added to index",
	StatusAddedToIndexFileChanged:     "added to index, file changed",
	StatusAddedToIndexFileDeleted:     "added to index, file deleted",
	StatusDeletedFromIndex:            "deleted from index",
	StatusSameAsRepo:                  "same as repo",
	StatusChangedNotStaged:            "file changed, changes not staged for commit",
	StatusChangedStaged:               "file changed, changes staged for commit",
	StatusChangedDifferentStaged:      "file changed, different changes staged for commit",
	StatusFileDeleted:                 "file deleted",
	StatusFileDeletedStaged:           "file deleted, changes staged for commit",
	StatusFileDeletedDeletedFromIndex: "file deleted, deleted from index",
}

func (s FileStatus) String() string {
	return statusText[s]
}

// StatusEntry is one classified path.
type StatusEntry struct {
	Name   string
	Status FileStatus
}

// classify maps one path's presence and contents over working (w), index (i)
// and head (h) to its status. Every combination lands in exactly one row.
func classify(w []byte, inW bool, i []byte, inI bool, h []byte, inH bool) FileStatus {
	switch {
	case inW && !inI && !inH:
		return StatusUntracked
	case inW && inI && !inH:
		if Equal(i, w) {
			return StatusAddedToIndex
		}
		return StatusAddedToIndexFileChanged
	case inW && !inI && inH:
		return StatusDeletedFromIndex
	case inW && inI && inH:
		switch {
		case Equal(i, w) && Equal(i, h):
			return StatusSameAsRepo
		case Equal(i, h):
			return StatusChangedNotStaged
		case Equal(w, i):
			return StatusChangedStaged
		default:
			return StatusChangedDifferentStaged
		}
	case !inW && inI && !inH:
		return StatusAddedToIndexFileDeleted
	case !inW && inI && inH:
		if Equal(i, h) {
			return StatusFileDeleted
		}
		return StatusFileDeletedStaged
	default: // !inW && !inI && inH
		return StatusFileDeletedDeletedFromIndex
	}
}

// Status classifies every path in working ∪ index ∪ head, sorted ascending
// by name.
func (v *VCS) Status(ctx context.Context) ([]StatusEntry, error) {
	snapshot, err := v.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	working, err := v.wt.Snapshot()
	if err != nil {
		return nil, err
	}
	head := map[string][]byte{}
	if c := snapshot.Head(); c != nil {
		head = commitFiles(c)
	}

	union := make(map[string]struct{})
	for name := range working {
		union[name] = struct{}{}
	}
	for name := range snapshot.Index {
		union[name] = struct{}{}
	}
	for name := range head {
		union[name] = struct{}{}
	}

	entries := make([]StatusEntry, 0, len(union))
	for name := range union {
		w, inW := working[name]
		i, inI := snapshot.Index[name]
		h, inH := head[name]
		entries = append(entries, StatusEntry{
			Name:   name,
			Status: classify(w, inW, i, inI, h, inH),
		})
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Name < entries[b].Name })
	return entries, nil
}

// commitFiles copies a commit's file map so callers can overlay changes
// without touching the stored commit.
func commitFiles(c *Commit) map[string][]byte {
	files := make(map[string][]byte, len(c.Files))
	for name, blob := range c.Files {
		files[name] = blob
	}
	return files
}
