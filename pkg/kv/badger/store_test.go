package badger_test

import (
	"context"
	"testing"

	"github.com/gitlite/gitlite/pkg/kv"
	"github.com/gitlite/gitlite/pkg/kv/kvparams"
	"github.com/stretchr/testify/require"

	_ "github.com/gitlite/gitlite/pkg/kv/badger"
)

func openStore(t *testing.T) kv.Store {
	t.Helper()
	store, err := kv.Open(context.Background(), kvparams.Config{
		Type:   "badger",
		Badger: &kvparams.Badger{Path: t.TempDir()},
	})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestBadgerMissingParams(t *testing.T) {
	_, err := kv.Open(context.Background(), kvparams.Config{Type: "badger"})
	require.ErrorIs(t, err, kv.ErrDriverConfiguration)

	_, err = kv.Open(context.Background(), kvparams.Config{
		Type:   "badger",
		Badger: &kvparams.Badger{},
	})
	require.ErrorIs(t, err, kv.ErrDriverConfiguration)
}

func TestBadgerSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	_, err := store.Get(ctx, []byte("p"), []byte("k"))
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, store.Set(ctx, []byte("p"), []byte("k"), []byte("v")))
	value, err := store.Get(ctx, []byte("p"), []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), value)

	require.NoError(t, store.Delete(ctx, []byte("p"), []byte("k")))
	_, err = store.Get(ctx, []byte("p"), []byte("k"))
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestBadgerScanPartitionIsolation(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	require.NoError(t, store.Set(ctx, []byte("p"), []byte("a"), []byte("1")))
	require.NoError(t, store.Set(ctx, []byte("p"), []byte("b"), []byte("2")))
	require.NoError(t, store.Set(ctx, []byte("q"), []byte("c"), []byte("3")))

	it, err := store.Scan(ctx, []byte("p"), nil)
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Entry().Key))
	}
	require.NoError(t, it.Err())
	require.Equal(t, []string{"a", "b"}, keys)
}

func TestBadgerApplyAtomic(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	var ops kv.Operations
	ops.Set([]byte("p"), []byte("k1"), []byte("v1"))
	ops.Delete([]byte("p"), []byte("k2"))
	ops.Set([]byte("p"), []byte("k2"), []byte("v2"))
	require.NoError(t, store.Apply(ctx, ops))

	value, err := store.Get(ctx, []byte("p"), []byte("k2"))
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), value)
}

func TestBadgerConnectionReuse(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	params := kvparams.Config{Type: "badger", Badger: &kvparams.Badger{Path: dir}}

	first, err := kv.Open(ctx, params)
	require.NoError(t, err)
	second, err := kv.Open(ctx, params)
	require.NoError(t, err)
	require.Same(t, first, second)

	require.NoError(t, first.Set(ctx, []byte("p"), []byte("k"), []byte("v")))
	second.Close()

	// still open through the first reference
	value, err := first.Get(ctx, []byte("p"), []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), value)
	first.Close()
}
