package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktree/internal/config"
	"tasktree/pkg/record"
)

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := Open(ctx, &config.Config{Backend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &record.MemStore{}, store)
	closeFn()

	store, closeFn, err = Open(ctx, &config.Config{Backend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "t.db")})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &record.SQLiteStore{}, store)
	assert.NoError(t, store.EnsureTables(ctx))

	_, _, err = Open(ctx, &config.Config{Backend: "mongo"})
	assert.ErrorIs(t, err, record.ErrUnknownBackend)
}
