package vcs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gitlite/gitlite/pkg/refstore"
	"github.com/gitlite/gitlite/pkg/testutil"
	"github.com/gitlite/gitlite/pkg/vcs"
	"github.com/stretchr/testify/require"
)

// testRepo is an initialized repository over an in-memory kv store and a
// temp working directory.
type testRepo struct {
	t   *testing.T
	ctx context.Context
	v   *vcs.VCS
	dir string
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	manager := refstore.NewManager(testutil.GetKVStore(t))
	v := vcs.New(manager, vcs.NewWorktree(dir))
	require.NoError(t, v.Init(ctx))
	return &testRepo{t: t, ctx: ctx, v: v, dir: dir}
}

func (r *testRepo) writeFile(name, content string) {
	r.t.Helper()
	require.NoError(r.t, os.WriteFile(filepath.Join(r.dir, name), []byte(content), 0o644))
}

func (r *testRepo) removeFile(name string) {
	r.t.Helper()
	require.NoError(r.t, os.Remove(filepath.Join(r.dir, name)))
}

func (r *testRepo) readFile(name string) (string, bool) {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if os.IsNotExist(err) {
		return "", false
	}
	require.NoError(r.t, err)
	return string(data), true
}

func (r *testRepo) add(names ...string) {
	r.t.Helper()
	require.NoError(r.t, r.v.Add(r.ctx, names))
}

// commit stages nothing, just records the index under the message.
func (r *testRepo) commit(message string) vcs.CommitID {
	r.t.Helper()
	result, err := r.v.Commit(r.ctx, vcs.CommitParams{Message: message})
	require.NoError(r.t, err)
	require.True(r.t, result.Created)
	return result.ID
}

// seed writes, stages and commits one file; the shared S1 opening.
func (r *testRepo) seed() vcs.CommitID {
	r.t.Helper()
	r.writeFile("a", "1")
	r.add("a")
	return r.commit("first")
}

func (r *testRepo) statuses() map[string]vcs.FileStatus {
	r.t.Helper()
	entries, err := r.v.Status(r.ctx)
	require.NoError(r.t, err)
	result := make(map[string]vcs.FileStatus, len(entries))
	for _, entry := range entries {
		result[entry.Name] = entry.Status
	}
	return result
}
