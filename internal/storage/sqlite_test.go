package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/songprint/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

// makePairs returns n distinct valid fingerprint pairs.
func makePairs(n int) []types.Pair {
	pairs := make([]types.Pair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, types.Pair{
			Hash:   fmt.Sprintf("%08x", i+1),
			Offset: i * 10,
		})
	}
	return pairs
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestNewSQLiteStorageWithConfig(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "songs.db")
	storage, err := NewSQLiteStorageWithConfig(Config{
		Path:         dbPath,
		BatchSize:    100,
		MatchWorkers: 4,
	})
	require.NoError(t, err)
	defer storage.Close()

	assert.Equal(t, 100, storage.batchSize)
	assert.Equal(t, 4, storage.matchWorkers)
	assert.NotNil(t, storage.logger)
	assert.NotNil(t, storage.metrics)
}

func TestNewSQLiteStorageWithConfig_Defaults(t *testing.T) {
	storage, err := NewSQLiteStorageWithConfig(Config{Path: ":memory:"})
	require.NoError(t, err)
	defer storage.Close()

	assert.Equal(t, DefaultBatchSize, storage.batchSize)
	assert.Equal(t, 1, storage.matchWorkers)
}

func TestNewSQLiteStorageWithConfig_PooledConnectionSettings(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pooled.db")
	storage, err := NewSQLiteStorageWithConfig(Config{Path: dbPath, MatchWorkers: 4})
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()

	// Pin one connection in a transaction so the checks below are served
	// by a different pooled connection
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	var foreignKeys int
	require.NoError(t, storage.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys, "Every pooled connection should enforce foreign keys")

	var busyTimeout int
	require.NoError(t, storage.db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout, "Every pooled connection should wait out write contention")

	require.NoError(t, tx.Rollback())
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestInsertSong(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	id, err := storage.InsertSong(ctx, types.Song{
		Name:        "track-A",
		FilePath:    "/music/track-a.wav",
		FileHash:    "deadbeef",
		TotalHashes: 42,
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	song, found, err := storage.GetSong(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, song.ID)
	assert.Equal(t, "track-A", song.Name)
	assert.Equal(t, "/music/track-a.wav", song.FilePath)
	assert.Equal(t, "deadbeef", song.FileHash)
	assert.Equal(t, 42, song.TotalHashes)
	assert.False(t, song.Fingerprinted)
}

func TestInsertSong_DuplicateNamesAllowed(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	first, err := storage.InsertSong(ctx, types.Song{Name: "same-name"})
	require.NoError(t, err)

	// Registering the same name again is a new song, not a conflict
	second, err := storage.InsertSong(ctx, types.Song{Name: "same-name"})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestInsertSong_PathDefaultsToName(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	id, err := storage.InsertSong(ctx, types.Song{Name: "no-path"})
	require.NoError(t, err)

	song, found, err := storage.GetSong(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "no-path", song.FilePath)
}

func TestGetSong_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	song, found, err := storage.GetSong(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, song)
}

func TestGetSongByPath(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.InsertSong(ctx, types.Song{Name: "old", FilePath: "/music/a.wav"})
	require.NoError(t, err)
	newest, err := storage.InsertSong(ctx, types.Song{Name: "new", FilePath: "/music/a.wav"})
	require.NoError(t, err)

	// Most recently registered song wins when paths collide
	song, found, err := storage.GetSongByPath(ctx, "/music/a.wav")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, newest, song.ID)
	assert.Equal(t, "new", song.Name)
}

func TestGetSongByPath_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	song, found, err := storage.GetSongByPath(ctx, "/nonexistent")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, song)
}

func TestSetSongFingerprinted(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	id, err := storage.InsertSong(ctx, types.Song{Name: "track"})
	require.NoError(t, err)

	err = storage.SetSongFingerprinted(ctx, id)
	require.NoError(t, err)

	song, found, err := storage.GetSong(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, song.Fingerprinted)
}

func TestSetSongFingerprinted_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	err := storage.SetSongFingerprinted(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCompletedSongs(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	done, err := storage.InsertSong(ctx, types.Song{Name: "done"})
	require.NoError(t, err)
	_, err = storage.InsertSong(ctx, types.Song{Name: "pending"})
	require.NoError(t, err)

	err = storage.SetSongFingerprinted(ctx, done)
	require.NoError(t, err)

	songs, err := storage.ListCompletedSongs(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, done, songs[0].ID)
	assert.True(t, songs[0].Fingerprinted)
}

func TestListCompletedSongs_Empty(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	songs, err := storage.ListCompletedSongs(ctx)
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestCountSongs(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	count, err := storage.CountSongs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = storage.InsertSong(ctx, types.Song{Name: "one"})
	require.NoError(t, err)
	_, err = storage.InsertSong(ctx, types.Song{Name: "two"})
	require.NoError(t, err)

	// Counts include songs whose fingerprints are still loading
	count, err = storage.CountSongs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCountFingerprints(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	id, err := storage.InsertSong(ctx, types.Song{Name: "track"})
	require.NoError(t, err)

	err = storage.InsertFingerprints(ctx, id, makePairs(7), 0)
	require.NoError(t, err)

	count, err := storage.CountFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestDeleteSongs(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	keep, err := storage.InsertSong(ctx, types.Song{Name: "keep"})
	require.NoError(t, err)
	gone, err := storage.InsertSong(ctx, types.Song{Name: "gone"})
	require.NoError(t, err)

	err = storage.InsertFingerprints(ctx, keep, makePairs(3), 0)
	require.NoError(t, err)
	err = storage.InsertFingerprints(ctx, gone, makePairs(5), 0)
	require.NoError(t, err)

	deleted, err := storage.DeleteSongs(ctx, []int64{gone})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// The song and its fingerprints are both gone
	_, found, err := storage.GetSong(ctx, gone)
	require.NoError(t, err)
	assert.False(t, found)

	count, err := storage.CountFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDeleteSongs_UnknownIDs(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	deleted, err := storage.DeleteSongs(ctx, []int64{123, 456})
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestDeleteSongs_Empty(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	deleted, err := storage.DeleteSongs(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestDeleteSongs_LargeIDSet(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	keep, err := storage.InsertSong(ctx, types.Song{Name: "keep"})
	require.NoError(t, err)

	doomed := make([]int64, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := storage.InsertSong(ctx, types.Song{Name: fmt.Sprintf("doomed-%d", i)})
		require.NoError(t, err)
		require.NoError(t, storage.InsertFingerprints(ctx, id, makePairs(2), 0))
		doomed = append(doomed, id)
	}

	// Far more IDs than SQLite allows bound variables in one statement
	ids := append([]int64{}, doomed...)
	for i := 0; len(ids) < 40000; i++ {
		ids = append(ids, int64(100000+i))
	}

	deleted, err := storage.DeleteSongs(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	songCount, err := storage.CountSongs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, songCount)

	fpCount, err := storage.CountFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fpCount)

	_, found, err := storage.GetSong(ctx, keep)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestDeleteUnfingerprintedSongs(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	done, err := storage.InsertSong(ctx, types.Song{Name: "done"})
	require.NoError(t, err)
	orphan, err := storage.InsertSong(ctx, types.Song{Name: "orphan"})
	require.NoError(t, err)

	err = storage.InsertFingerprints(ctx, done, makePairs(4), 0)
	require.NoError(t, err)
	err = storage.SetSongFingerprinted(ctx, done)
	require.NoError(t, err)

	// Simulate an ingest that died partway through
	err = storage.InsertFingerprints(ctx, orphan, []types.Pair{{Hash: "ffff", Offset: 1}}, 0)
	require.NoError(t, err)

	deleted, err := storage.DeleteUnfingerprintedSongs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, found, err := storage.GetSong(ctx, orphan)
	require.NoError(t, err)
	assert.False(t, found)

	// Completed song and its fingerprints survive
	count, err := storage.CountFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestBeginTx_CommitRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	// Test commit
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	id, err := tx.InsertSong(ctx, types.Song{Name: "committed"})
	require.NoError(t, err)

	err = tx.Commit()
	require.NoError(t, err)

	// Verify committed
	song, found, err := storage.GetSong(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "committed", song.Name)

	// Test rollback
	tx2, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	id2, err := tx2.InsertSong(ctx, types.Song{Name: "discarded"})
	require.NoError(t, err)

	err = tx2.Rollback()
	require.NoError(t, err)

	// Verify not committed
	_, found, err = storage.GetSong(ctx, id2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTx_NestedNotSupported(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.BeginTx(ctx)
	assert.Error(t, err)
}

func TestTx_CloseDoesNotCloseConnection(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	assert.NoError(t, tx.Close())
	require.NoError(t, tx.Commit())

	// Storage remains usable afterwards
	_, err = storage.CountSongs(ctx)
	assert.NoError(t, err)
}

func TestStats(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	done, err := storage.InsertSong(ctx, types.Song{Name: "done"})
	require.NoError(t, err)
	_, err = storage.InsertSong(ctx, types.Song{Name: "pending"})
	require.NoError(t, err)

	err = storage.InsertFingerprints(ctx, done, makePairs(9), 0)
	require.NoError(t, err)
	err = storage.SetSongFingerprinted(ctx, done)
	require.NoError(t, err)

	stats, err := storage.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Songs)
	assert.Equal(t, 1, stats.FingerprintedSongs)
	assert.Equal(t, 9, stats.Fingerprints)
	assert.Equal(t, CurrentSchemaVersion, stats.SchemaVersion)
	assert.Greater(t, stats.DatabaseSizeMB, 0.0)
}

func TestTx_Stats(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.InsertSong(ctx, types.Song{Name: "outside"})
	require.NoError(t, err)

	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	id, err := tx.InsertSong(ctx, types.Song{Name: "inside"})
	require.NoError(t, err)
	require.NoError(t, tx.InsertFingerprints(ctx, id, makePairs(4), 0))
	require.NoError(t, tx.SetSongFingerprinted(ctx, id))

	// Runs on the transaction's own connection and sees its uncommitted rows
	stats, err := tx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Songs)
	assert.Equal(t, 1, stats.FingerprintedSongs)
	assert.Equal(t, 4, stats.Fingerprints)
	assert.Equal(t, CurrentSchemaVersion, stats.SchemaVersion)

	require.NoError(t, tx.Rollback())

	stats, err = storage.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Songs)
	assert.Equal(t, 0, stats.FingerprintedSongs)
	assert.Equal(t, 0, stats.Fingerprints)
}
