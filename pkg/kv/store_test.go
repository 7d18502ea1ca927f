package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gitlite/gitlite/pkg/kv"
	"github.com/gitlite/gitlite/pkg/kv/kvparams"
	"github.com/stretchr/testify/require"
)

type MockDriver struct {
	Name string
	Err  error
}

type MockStore struct {
	Driver string
}

func (m *MockStore) Get(_ context.Context, _, _ []byte) ([]byte, error) {
	panic("not implemented")
}

func (m *MockStore) Set(_ context.Context, _, _, _ []byte) error {
	panic("not implemented")
}

func (m *MockStore) Delete(_ context.Context, _, _ []byte) error {
	panic("not implemented")
}

func (m *MockStore) Scan(_ context.Context, _, _ []byte) (kv.EntriesIterator, error) {
	panic("not implemented")
}

func (m *MockStore) Apply(_ context.Context, _ kv.Operations) error {
	panic("not implemented")
}

func (m *MockStore) Close() {}

func (m *MockDriver) Open(_ context.Context, _ kvparams.Config) (kv.Store, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &MockStore{Driver: m.Name}, nil
}

func TestRegisterAndOpen(t *testing.T) {
	kv.UnregisterAllDrivers()
	t.Cleanup(kv.UnregisterAllDrivers)
	kv.Register("mock", &MockDriver{Name: "mock"})

	ctx := context.Background()
	store, err := kv.Open(ctx, kvparams.Config{Type: "mock"})
	require.NoError(t, err)
	require.Equal(t, "mock", store.(*MockStore).Driver)

	_, err = kv.Open(ctx, kvparams.Config{Type: "no-such-driver"})
	require.ErrorIs(t, err, kv.ErrUnknownDriver)
}

func TestRegisterPanics(t *testing.T) {
	kv.UnregisterAllDrivers()
	t.Cleanup(kv.UnregisterAllDrivers)
	require.Panics(t, func() { kv.Register("", &MockDriver{}) })
	require.Panics(t, func() { kv.Register("mock", nil) })
	kv.Register("mock", &MockDriver{})
	require.Panics(t, func() { kv.Register("mock", &MockDriver{}) })
}

func TestOpenDriverError(t *testing.T) {
	kv.UnregisterAllDrivers()
	t.Cleanup(kv.UnregisterAllDrivers)
	errOpen := errors.New("open failed")
	kv.Register("failing", &MockDriver{Err: errOpen})
	_, err := kv.Open(context.Background(), kvparams.Config{Type: "failing"})
	require.ErrorIs(t, err, errOpen)
}

func TestOperationsBatch(t *testing.T) {
	var ops kv.Operations
	ops.Set([]byte("p"), []byte("k1"), []byte("v1"))
	ops.Delete([]byte("p"), []byte("k2"))
	require.Len(t, ops, 2)
	require.Equal(t, kv.OperationSet, ops[0].Type)
	require.Equal(t, kv.OperationDelete, ops[1].Type)
}
