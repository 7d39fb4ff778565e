package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/internal/adapters/storage"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

func TestLocalStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir(), helpers.TestLogger())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "imports/job-1.xlsx", strings.NewReader("payload")))

	data, err := store.Get(ctx, "imports/job-1.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(ctx, "imports/job-1.xlsx"))

	_, err = store.Get(ctx, "imports/job-1.xlsx")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "imports/job-1.xlsx"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), helpers.TestLogger())
	require.NoError(t, err)

	err = store.Put(context.Background(), "../escape.xlsx", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLocalStorage_Purge(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, helpers.TestLogger())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "old.xlsx", strings.NewReader("old")))
	require.NoError(t, store.Put(ctx, "new.xlsx", strings.NewReader("new")))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.xlsx"), past, past))

	removed, err := store.Purge(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, "new.xlsx")
	assert.NoError(t, err)
}
