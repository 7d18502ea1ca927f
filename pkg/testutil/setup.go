package testutil

import (
	"context"
	"testing"

	"github.com/gitlite/gitlite/pkg/kv"
	"github.com/gitlite/gitlite/pkg/kv/kvparams"

	_ "github.com/gitlite/gitlite/pkg/kv/mem"
)

// GetKVStore opens a fresh in-memory kv store for a test and closes it on
// cleanup.
func GetKVStore(t testing.TB) kv.Store {
	t.Helper()
	store, err := kv.Open(context.Background(), kvparams.Config{Type: "mem"})
	if err != nil {
		t.Fatalf("open mem kv store: %s", err)
	}
	t.Cleanup(store.Close)
	return store
}
