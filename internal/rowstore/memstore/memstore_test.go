package memstore

import (
	"context"
	"errors"
	"testing"

	"fjacquet/moze-ledger/internal/rowstore"
	"fjacquet/moze-ledger/internal/syncerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	rows, err := s.FetchRows(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, rows)

	header := []string{"ID", "Name"}
	require.NoError(t, s.ReplaceRows(ctx, "Items", header, []rowstore.Row{{"ID": "R1", "Name": "Food", "Other": "dropped"}}))

	rows, err = s.FetchRows(ctx, "Items")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rowstore.Row{"ID": "R1", "Name": "Food"}, rows[0])
	assert.Equal(t, header, s.Header("Items"))

	// Returned rows are copies.
	rows[0]["Name"] = "changed"
	again, _ := s.FetchRows(ctx, "Items")
	assert.Equal(t, "Food", again[0]["Name"])
}

func TestStore_InjectedErrors(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.FetchErr["A"] = errors.New("offline")
	s.ReplaceErr["B"] = errors.New("quota")

	_, err := s.FetchRows(ctx, "A")
	var storeErr *syncerror.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "fetch", storeErr.Op)

	err = s.ReplaceRows(ctx, "B", []string{"x"}, nil)
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "replace", storeErr.Op)

	assert.Error(t, s.ReplaceRows(ctx, "C", nil, nil))
}

func TestStore_Close(t *testing.T) {
	s := New()
	assert.False(t, s.Closed())
	require.NoError(t, s.Close())
	assert.True(t, s.Closed())
	assert.Equal(t, Backend, s.Backend())
}
