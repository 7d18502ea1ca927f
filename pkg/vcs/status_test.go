package vcs_test

import (
	"sort"
	"testing"

	"github.com/gitlite/gitlite/pkg/vcs"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"
)

func TestStatusClassification(t *testing.T) {
	// drive every row of the classification table through a real repository
	cases := []struct {
		name     string
		setup    func(r *testRepo)
		file     string
		expected vcs.FileStatus
	}{
		{
			name: "untracked",
			setup: func(r *testRepo) {
				r.seed()
				r.writeFile("b", "hi")
			},
			file:     "b",
			expected: vcs.StatusUntracked,
		},
		{
			name: "added to index",
			setup: func(r *testRepo) {
				r.seed()
				r.writeFile("b", "hi")
				r.add("b")
			},
			file:     "b",
			expected: vcs.StatusAddedToIndex,
		},
		{
			name: "added to index, file changed",
			setup: func(r *testRepo) {
				r.seed()
				r.writeFile("b", "hi")
				r.add("b")
				r.writeFile("b", "changed")
			},
			file:     "b",
			expected: vcs.StatusAddedToIndexFileChanged,
		},
		{
			name: "added to index, file deleted",
			setup: func(r *testRepo) {
				r.seed()
				r.writeFile("b", "hi")
				r.add("b")
				r.removeFile("b")
			},
			file:     "b",
			expected: vcs.StatusAddedToIndexFileDeleted,
		},
		{
			name: "deleted from index",
			setup: func(r *testRepo) {
				r.seed()
				r.removeFile("a")
				r.add("a") // stages the deletion
				r.writeFile("a", "back")
			},
			file:     "a",
			expected: vcs.StatusDeletedFromIndex,
		},
		{
			name:     "same as repo",
			setup:    func(r *testRepo) { r.seed() },
			file:     "a",
			expected: vcs.StatusSameAsRepo,
		},
		{
			name: "changes not staged",
			setup: func(r *testRepo) {
				r.seed()
				r.writeFile("a", "2")
			},
			file:     "a",
			expected: vcs.StatusChangedNotStaged,
		},
		{
			name: "changes staged",
			setup: func(r *testRepo) {
				r.seed()
				r.writeFile("a", "2")
				r.add("a")
			},
			file:     "a",
			expected: vcs.StatusChangedStaged,
		},
		{
			name: "different changes staged",
			setup: func(r *testRepo) {
				r.seed()
				r.writeFile("a", "2")
				r.add("a")
				r.writeFile("a", "3")
			},
			file:     "a",
			expected: vcs.StatusChangedDifferentStaged,
		},
		{
			name: "file deleted",
			setup: func(r *testRepo) {
				r.seed()
				r.removeFile("a")
			},
			file:     "a",
			expected: vcs.StatusFileDeleted,
		},
		{
			name: "file deleted, changes staged",
			setup: func(r *testRepo) {
				r.seed()
				r.writeFile("a", "2")
				r.add("a")
				r.removeFile("a")
			},
			file:     "a",
			expected: vcs.StatusFileDeletedStaged,
		},
		{
			name: "file deleted, deleted from index",
			setup: func(r *testRepo) {
				r.seed()
				r.removeFile("a")
				r.add("a") // stages the deletion
			},
			file:     "a",
			expected: vcs.StatusFileDeletedDeletedFromIndex,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRepo(t)
			tt.setup(r)
			require.Equal(t, tt.expected, r.statuses()[tt.file],
				"got %q", r.statuses()[tt.file].String())
		})
	}
}

func TestStatusSortedAndPartitioned(t *testing.T) {
	r := newTestRepo(t)
	r.seed()
	r.writeFile("a", "2")
	r.add("a")
	r.writeFile("a", "3")
	r.writeFile("b", "hi")

	entries, err := r.v.Status(r.ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	require.True(t, sort.StringsAreSorted(names))

	expected := []vcs.StatusEntry{
		{Name: "a", Status: vcs.StatusChangedDifferentStaged},
		{Name: "b", Status: vcs.StatusUntracked},
	}
	if diff := deep.Equal(expected, entries); diff != nil {
		t.Fatal(diff)
	}
}

func TestStatusEmptyRepository(t *testing.T) {
	r := newTestRepo(t)
	entries, err := r.v.Status(r.ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStatusDisplayText(t *testing.T) {
	require.Equal(t, "file changed, different changes staged for commit",
		vcs.StatusChangedDifferentStaged.String())
	require.Equal(t, "untracked", vcs.StatusUntracked.String())
}
