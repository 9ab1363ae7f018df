package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/songprint/pkg/types"
)

// DefaultBatchSize is the chunk size used when an operation receives a
// batch size of zero or less.
const DefaultBatchSize = 500

// Config controls how a SQLiteStorage is opened
type Config struct {
	// Path is the database file, or ":memory:" for an in-memory store
	Path string

	// BatchSize is the fallback chunk size for fingerprint inserts and
	// match lookups when the caller passes batchSize <= 0
	BatchSize int

	// MatchWorkers is the number of hash chunks looked up concurrently
	// during a match; <= 1 selects the sequential path
	MatchWorkers int

	// Logger receives structured logs; nil disables logging
	Logger *slog.Logger

	// Metrics receives operation metrics; nil disables collection
	Metrics MetricsCollector
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig(dbPath string) Config {
	return Config{
		Path:         dbPath,
		BatchSize:    DefaultBatchSize,
		MatchWorkers: 1,
	}
}

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db           *sql.DB
	batchSize    int
	matchWorkers int
	logger       *slog.Logger
	metrics      MetricsCollector
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string, maxConns int) (*sql.DB, error) {
	// Ensure parent directory exists
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	// Connection settings ride on the DSN so every pooled connection
	// carries them
	db, err := sql.Open(DriverName, connString(dbPath))
	if err != nil {
		return nil, err
	}

	// Set connection pool settings. An in-memory path must stay on a
	// single connection or each pooled connection sees its own database.
	if dbPath == ":memory:" || maxConns < 1 {
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open %s: %w", dbPath, err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance with default settings
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	return NewSQLiteStorageWithConfig(DefaultConfig(dbPath))
}

// NewSQLiteStorageWithConfig creates a new SQLite storage instance from cfg
func NewSQLiteStorageWithConfig(cfg Config) (*SQLiteStorage, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MatchWorkers < 1 {
		cfg.MatchWorkers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NoopMetricsCollector{}
	}

	db, err := openDatabase(cfg.Path, cfg.MatchWorkers)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	cfg.Logger.Debug("database ready",
		"path", cfg.Path,
		"driver", DriverName,
		"build_mode", BuildMode,
	)

	return &SQLiteStorage{
		db:           db,
		batchSize:    cfg.BatchSize,
		matchWorkers: cfg.MatchWorkers,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
	}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on failure. The error from fn is returned unchanged.
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// effectiveBatchSize resolves the chunk size for one call
func (s *SQLiteStorage) effectiveBatchSize(batchSize int) int {
	if batchSize > 0 {
		return batchSize
	}
	if s.batchSize > 0 {
		return s.batchSize
	}
	return DefaultBatchSize
}

// normalizePairs validates every pair and canonicalizes hashes before any
// row is touched, so a rejected batch leaves the store unchanged.
func normalizePairs(pairs []types.Pair) ([]types.Pair, error) {
	normalized := make([]types.Pair, 0, len(pairs))
	for _, p := range pairs {
		norm, err := p.Normalize()
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, norm)
	}
	return normalized, nil
}

// Song operations

// insertSongWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertSongWithQuerier(ctx context.Context, q querier, song types.Song) (int64, error) {
	filePath := song.FilePath
	if filePath == "" {
		filePath = song.Name
	}

	query := `
		INSERT INTO songs (name, file_path, file_hash, total_hashes, fingerprinted)
		VALUES (?, ?, ?, ?, 0)
	`
	result, err := q.ExecContext(ctx, query, song.Name, filePath, song.FileHash, song.TotalHashes)
	if err != nil {
		return 0, fmt.Errorf("failed to insert song: %w", err)
	}

	return result.LastInsertId()
}

// InsertSong registers a new song and returns its assigned ID. Names are
// not unique; every call creates a new row.
func (s *SQLiteStorage) InsertSong(ctx context.Context, song types.Song) (int64, error) {
	start := time.Now()
	id, err := s.insertSongWithQuerier(ctx, s.querier(), song)
	s.metrics.RecordSongInsert(time.Since(start), err)
	return id, wrapError("InsertSong", err)
}

// getSongWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getSongWithQuerier(ctx context.Context, q querier, songID int64) (*types.Song, bool, error) {
	query := `
		SELECT id, name, file_path, file_hash, total_hashes, fingerprinted
		FROM songs
		WHERE id = ?
	`
	var song types.Song
	err := q.QueryRowContext(ctx, query, songID).Scan(
		&song.ID, &song.Name, &song.FilePath, &song.FileHash,
		&song.TotalHashes, &song.Fingerprinted,
	)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &song, true, nil
}

// GetSong fetches a song by ID. A missing ID is reported through the
// boolean, not as an error; looking up an unknown song is a normal outcome.
func (s *SQLiteStorage) GetSong(ctx context.Context, songID int64) (*types.Song, bool, error) {
	song, ok, err := s.getSongWithQuerier(ctx, s.querier(), songID)
	return song, ok, wrapError("GetSong", err)
}

// getSongByPathWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getSongByPathWithQuerier(ctx context.Context, q querier, filePath string) (*types.Song, bool, error) {
	// Several songs can share a path; the most recently registered wins
	query := `
		SELECT id, name, file_path, file_hash, total_hashes, fingerprinted
		FROM songs
		WHERE file_path = ?
		ORDER BY id DESC
		LIMIT 1
	`
	var song types.Song
	err := q.QueryRowContext(ctx, query, filePath).Scan(
		&song.ID, &song.Name, &song.FilePath, &song.FileHash,
		&song.TotalHashes, &song.Fingerprinted,
	)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &song, true, nil
}

// GetSongByPath fetches the most recently registered song with the given
// file path. Absence is reported through the boolean, not as an error.
func (s *SQLiteStorage) GetSongByPath(ctx context.Context, filePath string) (*types.Song, bool, error) {
	song, ok, err := s.getSongByPathWithQuerier(ctx, s.querier(), filePath)
	return song, ok, wrapError("GetSongByPath", err)
}

// listCompletedSongsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listCompletedSongsWithQuerier(ctx context.Context, q querier) ([]*types.Song, error) {
	query := `
		SELECT id, name, file_path, file_hash, total_hashes, fingerprinted
		FROM songs
		WHERE fingerprinted = 1
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	songs := make([]*types.Song, 0)
	for rows.Next() {
		var song types.Song
		err := rows.Scan(
			&song.ID, &song.Name, &song.FilePath, &song.FileHash,
			&song.TotalHashes, &song.Fingerprinted,
		)
		if err != nil {
			return nil, err
		}
		songs = append(songs, &song)
	}
	return songs, rows.Err()
}

// ListCompletedSongs returns every song whose fingerprints have been fully
// loaded. Songs still mid-ingest are excluded.
func (s *SQLiteStorage) ListCompletedSongs(ctx context.Context) ([]*types.Song, error) {
	songs, err := s.listCompletedSongsWithQuerier(ctx, s.querier())
	return songs, wrapError("ListCompletedSongs", err)
}

// setSongFingerprintedWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) setSongFingerprintedWithQuerier(ctx context.Context, q querier, songID int64) error {
	query := `UPDATE songs SET fingerprinted = 1 WHERE id = ?`
	result, err := q.ExecContext(ctx, query, songID)
	if err != nil {
		return fmt.Errorf("failed to mark song fingerprinted: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSongFingerprinted marks a song as fully loaded, making it visible to
// ListCompletedSongs. Returns ErrNotFound if the song does not exist.
func (s *SQLiteStorage) SetSongFingerprinted(ctx context.Context, songID int64) error {
	return wrapError("SetSongFingerprinted", s.setSongFingerprintedWithQuerier(ctx, s.querier(), songID))
}

// Fingerprint operations

// insertFingerprintsWithQuerier writes pairs through q one prepared
// statement execution at a time. Duplicate (hash, song, offset) rows are
// skipped without error; unknown song IDs fail the foreign key check.
func (s *SQLiteStorage) insertFingerprintsWithQuerier(ctx context.Context, q querier, songID int64, pairs []types.Pair) error {
	query := `
		INSERT INTO fingerprints (song_id, hash, "offset")
		VALUES (?, ?, ?)
		ON CONFLICT(hash, song_id, "offset") DO NOTHING
	`
	stmt, err := q.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare fingerprint insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range pairs {
		if _, err := stmt.ExecContext(ctx, songID, p.Hash, p.Offset); err != nil {
			return fmt.Errorf("failed to insert fingerprint: %w", err)
		}
	}
	return nil
}

// InsertFingerprints stores hash/offset pairs for a song, committing in
// chunks of batchSize rows so one large submission does not hold a single
// giant transaction. batchSize <= 0 falls back to the configured default.
func (s *SQLiteStorage) InsertFingerprints(ctx context.Context, songID int64, pairs []types.Pair, batchSize int) error {
	start := time.Now()
	err := s.insertFingerprintsChunked(ctx, songID, pairs, batchSize)
	s.metrics.RecordFingerprintInsert(len(pairs), time.Since(start), err)
	return wrapError("InsertFingerprints", err)
}

func (s *SQLiteStorage) insertFingerprintsChunked(ctx context.Context, songID int64, pairs []types.Pair, batchSize int) error {
	normalized, err := normalizePairs(pairs)
	if err != nil {
		return err
	}
	if len(normalized) == 0 {
		return nil
	}

	size := s.effectiveBatchSize(batchSize)
	for i := 0; i < len(normalized); i += size {
		end := i + size
		if end > len(normalized) {
			end = len(normalized)
		}

		chunk := normalized[i:end]
		if err := s.withTx(ctx, func(q querier) error {
			return s.insertFingerprintsWithQuerier(ctx, q, songID, chunk)
		}); err != nil {
			return err
		}
	}

	s.logger.Debug("stored fingerprints",
		"song_id", songID,
		"pairs", len(normalized),
		"batch_size", size,
	)
	return nil
}

// Match operations

// Match looks up the distinct hashes among pairs and returns one alignment
// candidate per stored row and sampled occurrence, plus per-song row counts.
func (s *SQLiteStorage) Match(ctx context.Context, pairs []types.Pair, batchSize int) ([]types.Candidate, map[int64]int, error) {
	// Implementation moved to separate file for clarity
	start := time.Now()
	candidates, counts, hashes, err := s.match(ctx, pairs, batchSize)
	s.metrics.RecordMatch(hashes, time.Since(start), err)
	if err != nil {
		return nil, nil, wrapError("Match", err)
	}
	return candidates, counts, nil
}

// Count operations

// countSongsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) countSongsWithQuerier(ctx context.Context, q querier) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs").Scan(&count)
	return count, err
}

// CountSongs reports the number of registered songs, whether or not their
// fingerprints have finished loading.
func (s *SQLiteStorage) CountSongs(ctx context.Context) (int, error) {
	count, err := s.countSongsWithQuerier(ctx, s.querier())
	return count, wrapError("CountSongs", err)
}

// countFingerprintsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) countFingerprintsWithQuerier(ctx context.Context, q querier) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM fingerprints").Scan(&count)
	return count, err
}

// CountFingerprints reports the number of stored fingerprint rows
func (s *SQLiteStorage) CountFingerprints(ctx context.Context) (int, error) {
	count, err := s.countFingerprintsWithQuerier(ctx, s.querier())
	return count, wrapError("CountFingerprints", err)
}

// Maintenance operations

// deleteChunkSize caps the bound IDs per DELETE statement to stay under
// SQLite's variable limit
const deleteChunkSize = 500

// deleteSongsWithQuerier is the internal implementation that uses a querier.
// The ID set is processed in chunks of deleteChunkSize; atomicity across
// chunks is up to the caller's transaction.
func (s *SQLiteStorage) deleteSongsWithQuerier(ctx context.Context, q querier, songIDs []int64) (int64, error) {
	if len(songIDs) == 0 {
		return 0, nil
	}

	var deleted int64
	for i := 0; i < len(songIDs); i += deleteChunkSize {
		end := i + deleteChunkSize
		if end > len(songIDs) {
			end = len(songIDs)
		}
		chunk := songIDs[i:end]

		// Build parameterized IN clause
		placeholders := make([]string, len(chunk))
		args := make([]interface{}, len(chunk))
		for j, id := range chunk {
			placeholders[j] = "?"
			args[j] = id
		}
		in := strings.Join(placeholders, ",")

		// Fingerprints are removed explicitly so the outcome does not depend
		// on cascade enforcement being active on the connection
		if _, err := q.ExecContext(ctx, `DELETE FROM fingerprints WHERE song_id IN (`+in+`)`, args...); err != nil {
			return 0, fmt.Errorf("failed to delete fingerprints: %w", err)
		}

		result, err := q.ExecContext(ctx, `DELETE FROM songs WHERE id IN (`+in+`)`, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to delete songs: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count deleted songs: %w", err)
		}
		deleted += n
	}

	return deleted, nil
}

// DeleteSongs removes the given songs and all their fingerprints, returning
// the number of songs actually deleted. Unknown IDs are skipped.
func (s *SQLiteStorage) DeleteSongs(ctx context.Context, songIDs []int64) (int64, error) {
	start := time.Now()
	var deleted int64
	err := s.withTx(ctx, func(q querier) error {
		var txErr error
		deleted, txErr = s.deleteSongsWithQuerier(ctx, q, songIDs)
		return txErr
	})
	s.metrics.RecordDelete(time.Since(start), err)
	if err != nil {
		return 0, wrapError("DeleteSongs", err)
	}

	s.logger.Debug("deleted songs", "requested", len(songIDs), "deleted", deleted)
	return deleted, nil
}

// deleteUnfingerprintedSongsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteUnfingerprintedSongsWithQuerier(ctx context.Context, q querier) (int64, error) {
	if _, err := q.ExecContext(ctx, `
		DELETE FROM fingerprints
		WHERE song_id IN (SELECT id FROM songs WHERE fingerprinted = 0)
	`); err != nil {
		return 0, fmt.Errorf("failed to delete orphaned fingerprints: %w", err)
	}

	result, err := q.ExecContext(ctx, `DELETE FROM songs WHERE fingerprinted = 0`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unfingerprinted songs: %w", err)
	}
	return result.RowsAffected()
}

// DeleteUnfingerprintedSongs purges every song whose ingest never finished,
// along with any fingerprints it managed to store. Returns the number of
// songs removed.
func (s *SQLiteStorage) DeleteUnfingerprintedSongs(ctx context.Context) (int64, error) {
	start := time.Now()
	var deleted int64
	err := s.withTx(ctx, func(q querier) error {
		var txErr error
		deleted, txErr = s.deleteUnfingerprintedSongsWithQuerier(ctx, q)
		return txErr
	})
	s.metrics.RecordDelete(time.Since(start), err)
	if err != nil {
		return 0, wrapError("DeleteUnfingerprintedSongs", err)
	}

	if deleted > 0 {
		s.logger.Info("purged unfingerprinted songs", "deleted", deleted)
	}
	return deleted, nil
}

// Status operations

// statsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) statsWithQuerier(ctx context.Context, q querier) (*StoreStats, error) {
	stats := &StoreStats{SchemaVersion: CurrentSchemaVersion}

	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs").Scan(&stats.Songs); err != nil {
		return nil, err
	}

	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs WHERE fingerprinted = 1").Scan(&stats.FingerprintedSongs); err != nil {
		return nil, err
	}

	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM fingerprints").Scan(&stats.Fingerprints); err != nil {
		return nil, err
	}

	// Calculate database size
	var pageCount, pageSize int
	err := q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		stats.DatabaseSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	return stats, nil
}

// Stats reports row counts and the on-disk size of the store
func (s *SQLiteStorage) Stats(ctx context.Context) (*StoreStats, error) {
	stats, err := s.statsWithQuerier(ctx, s.querier())
	return stats, wrapError("Stats", err)
}

// Transaction implementations - delegate to main storage

// Write operations use the internal helper that takes a querier so they
// join this transaction instead of starting their own.

func (t *sqliteTx) InsertSong(ctx context.Context, song types.Song) (int64, error) {
	id, err := t.storage.insertSongWithQuerier(ctx, t.querier(), song)
	return id, wrapError("InsertSong", err)
}

func (t *sqliteTx) GetSong(ctx context.Context, songID int64) (*types.Song, bool, error) {
	song, ok, err := t.storage.getSongWithQuerier(ctx, t.querier(), songID)
	return song, ok, wrapError("GetSong", err)
}

func (t *sqliteTx) GetSongByPath(ctx context.Context, filePath string) (*types.Song, bool, error) {
	song, ok, err := t.storage.getSongByPathWithQuerier(ctx, t.querier(), filePath)
	return song, ok, wrapError("GetSongByPath", err)
}

func (t *sqliteTx) ListCompletedSongs(ctx context.Context) ([]*types.Song, error) {
	songs, err := t.storage.listCompletedSongsWithQuerier(ctx, t.querier())
	return songs, wrapError("ListCompletedSongs", err)
}

func (t *sqliteTx) SetSongFingerprinted(ctx context.Context, songID int64) error {
	return wrapError("SetSongFingerprinted", t.storage.setSongFingerprintedWithQuerier(ctx, t.querier(), songID))
}

func (t *sqliteTx) InsertFingerprints(ctx context.Context, songID int64, pairs []types.Pair, batchSize int) error {
	// Already inside a transaction, so per-chunk commits do not apply
	normalized, err := normalizePairs(pairs)
	if err != nil {
		return wrapError("InsertFingerprints", err)
	}
	if len(normalized) == 0 {
		return nil
	}
	return wrapError("InsertFingerprints", t.storage.insertFingerprintsWithQuerier(ctx, t.querier(), songID, normalized))
}

func (t *sqliteTx) Match(ctx context.Context, pairs []types.Pair, batchSize int) ([]types.Candidate, map[int64]int, error) {
	normalized, err := normalizePairs(pairs)
	if err != nil {
		return nil, nil, wrapError("Match", err)
	}

	candidates, counts, err := matchFingerprints(ctx, t.querier(), normalized, t.storage.effectiveBatchSize(batchSize))
	if err != nil {
		return nil, nil, wrapError("Match", err)
	}
	return candidates, counts, nil
}

func (t *sqliteTx) CountSongs(ctx context.Context) (int, error) {
	count, err := t.storage.countSongsWithQuerier(ctx, t.querier())
	return count, wrapError("CountSongs", err)
}

func (t *sqliteTx) CountFingerprints(ctx context.Context) (int, error) {
	count, err := t.storage.countFingerprintsWithQuerier(ctx, t.querier())
	return count, wrapError("CountFingerprints", err)
}

func (t *sqliteTx) DeleteSongs(ctx context.Context, songIDs []int64) (int64, error) {
	deleted, err := t.storage.deleteSongsWithQuerier(ctx, t.querier(), songIDs)
	return deleted, wrapError("DeleteSongs", err)
}

func (t *sqliteTx) DeleteUnfingerprintedSongs(ctx context.Context) (int64, error) {
	deleted, err := t.storage.deleteUnfingerprintedSongsWithQuerier(ctx, t.querier())
	return deleted, wrapError("DeleteUnfingerprintedSongs", err)
}

func (t *sqliteTx) Stats(ctx context.Context) (*StoreStats, error) {
	stats, err := t.storage.statsWithQuerier(ctx, t.querier())
	return stats, wrapError("Stats", err)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	// We return an error to prevent accidental misuse
	// If savepoints are needed in the future, implement here
	return nil, errors.New("nested transactions not supported")
}
