package vcs_test

import (
	"testing"

	"github.com/gitlite/gitlite/pkg/vcs"
	"github.com/stretchr/testify/require"
)

// twoBranchRepo commits a=1 on trunk, branches dev, and on dev commits c=x.
func twoBranchRepo(t *testing.T) *testRepo {
	t.Helper()
	r := newTestRepo(t)
	r.seed()
	require.NoError(t, r.v.CreateBranch(r.ctx, "dev"))
	_, err := r.v.Checkout(r.ctx, "dev")
	require.NoError(t, err)
	r.writeFile("c", "x")
	r.add("c")
	r.commit("c-added")
	return r
}

func TestCheckoutRequiresCommit(t *testing.T) {
	r := newTestRepo(t)
	_, err := r.v.Checkout(r.ctx, vcs.DefaultBranchID)
	require.ErrorIs(t, err, vcs.ErrNoCommits)
}

func TestCheckoutUnknownBranch(t *testing.T) {
	r := newTestRepo(t)
	r.seed()
	_, err := r.v.Checkout(r.ctx, "nope")
	require.ErrorIs(t, err, vcs.ErrBranchNotFound)
}

func TestCheckoutAlreadyOn(t *testing.T) {
	r := newTestRepo(t)
	r.seed()
	result, err := r.v.Checkout(r.ctx, vcs.DefaultBranchID)
	require.NoError(t, err)
	require.True(t, result.AlreadyOn)
}

func TestCheckoutMaterializesDestination(t *testing.T) {
	r := twoBranchRepo(t)

	result, err := r.v.Checkout(r.ctx, vcs.DefaultBranchID)
	require.NoError(t, err)
	require.False(t, result.AlreadyOn)

	// c exists only on dev
	_, exists := r.readFile("c")
	require.False(t, exists)
	content, exists := r.readFile("a")
	require.True(t, exists)
	require.Equal(t, "1", content)

	// and back again
	_, err = r.v.Checkout(r.ctx, "dev")
	require.NoError(t, err)
	content, exists = r.readFile("c")
	require.True(t, exists)
	require.Equal(t, "x", content)
}

func TestCheckoutPreservesLocalEdit(t *testing.T) {
	r := twoBranchRepo(t)

	// a is identical on both tips; a local edit must survive the switch
	r.writeFile("a", "edited")
	_, err := r.v.Checkout(r.ctx, vcs.DefaultBranchID)
	require.NoError(t, err)

	content, exists := r.readFile("a")
	require.True(t, exists)
	require.Equal(t, "edited", content)
	// the index keeps its own preserved state (still a=1)
	blob, err := r.v.Show(r.ctx, nil, "a")
	require.NoError(t, err)
	require.Equal(t, "1", string(blob))
}

func TestCheckoutPreservesNewLocalFile(t *testing.T) {
	r := twoBranchRepo(t)

	r.writeFile("scratch", "mine")
	_, err := r.v.Checkout(r.ctx, vcs.DefaultBranchID)
	require.NoError(t, err)

	content, exists := r.readFile("scratch")
	require.True(t, exists)
	require.Equal(t, "mine", content)
}

func TestCheckoutPreservesLocalDeletion(t *testing.T) {
	r := twoBranchRepo(t)

	// delete a locally (working and index); a is identical on both tips
	r.removeFile("a")
	r.add("a")
	_, err := r.v.Checkout(r.ctx, vcs.DefaultBranchID)
	require.NoError(t, err)

	_, exists := r.readFile("a")
	require.False(t, exists)
	_, err = r.v.Show(r.ctx, nil, "a")
	require.ErrorIs(t, err, vcs.ErrNotFound)
}

func TestCheckoutRejectsOverwrite(t *testing.T) {
	r := twoBranchRepo(t)

	// change a on dev so the tips disagree about it
	r.writeFile("a", "dev-version")
	r.add("a")
	r.commit("a on dev")

	// now edit a locally and try to switch
	r.writeFile("a", "local edit")
	_, err := r.v.Checkout(r.ctx, vcs.DefaultBranchID)

	var conflictErr *vcs.CheckoutConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Equal(t, []string{"a"}, conflictErr.Files)
	require.Contains(t, err.Error(), "would be overwritten by checkout")

	// no change at all: still on dev, local edit intact
	content, _ := r.readFile("a")
	require.Equal(t, "local edit", content)
	statuses := r.statuses()
	require.Equal(t, vcs.StatusChangedNotStaged, statuses["a"])
}

func TestCheckoutRejectsNewLocalShadowingDestination(t *testing.T) {
	r := newTestRepo(t)
	r.seed()
	require.NoError(t, r.v.CreateBranch(r.ctx, "dev"))
	_, err := r.v.Checkout(r.ctx, "dev")
	require.NoError(t, err)
	r.writeFile("c", "dev version")
	r.add("c")
	r.commit("c on dev")
	_, err = r.v.Checkout(r.ctx, vcs.DefaultBranchID)
	require.NoError(t, err)

	// trunk has no c; create one locally, then try to switch to dev which has c
	r.writeFile("c", "local c")
	_, err = r.v.Checkout(r.ctx, "dev")
	var conflictErr *vcs.CheckoutConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Equal(t, []string{"c"}, conflictErr.Files)
}

func TestCheckoutNoDataLoss(t *testing.T) {
	// property: any file whose pre-switch contents differ from the source
	// tip comes through a legal switch byte-identical
	r := twoBranchRepo(t)
	r.writeFile("a", "precious")
	r.writeFile("new", "also precious")
	r.add("new")

	_, err := r.v.Checkout(r.ctx, vcs.DefaultBranchID)
	require.NoError(t, err)

	content, _ := r.readFile("a")
	require.Equal(t, "precious", content)
	content, _ = r.readFile("new")
	require.Equal(t, "also precious", content)
	blob, err := r.v.Show(r.ctx, nil, "new")
	require.NoError(t, err)
	require.Equal(t, "also precious", string(blob))
}
