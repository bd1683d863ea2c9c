package directory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSeeded(t *testing.T) *SQLiteDirectory {
	t.Helper()

	dir, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "clients.sqlite"), true)
	require.NoError(t, err)
	t.Cleanup(func() { dir.Close() })
	return dir
}

func TestSQLiteDirectory_Lookup(t *testing.T) {
	ctx := context.Background()
	dir := openSeeded(t)

	client, err := dir.Lookup(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, "Иван", client.FirstName)
	assert.Equal(t, "Иванов", client.LastName)
	assert.Equal(t, "4374690101156220", client.CardNumber)
	assert.Equal(t, "12345", client.Code)

	// three-digit codes are provisioned too
	client, err = dir.Lookup(ctx, "777")
	require.NoError(t, err)
	assert.Equal(t, "Алексей", client.FirstName)
}

func TestSQLiteDirectory_LookupUnknown(t *testing.T) {
	dir := openSeeded(t)

	_, err := dir.Lookup(context.Background(), "00000")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestSQLiteDirectory_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "clients.sqlite")

	first, err := OpenSQLite(ctx, path, true)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// reopening with seed enabled must not duplicate or reset anything
	second, err := OpenSQLite(ctx, path, true)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count))
	assert.Equal(t, len(demoClients), count)
}

func TestSQLiteDirectory_NoSeed(t *testing.T) {
	ctx := context.Background()

	dir, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "clients.sqlite"), false)
	require.NoError(t, err)
	defer dir.Close()

	_, err = dir.Lookup(ctx, "12345")
	assert.ErrorIs(t, err, ErrClientNotFound)
}
