package storage

import (
	"context"

	"github.com/dshills/songprint/pkg/types"
)

// Storage defines the interface for fingerprint persistence operations
type Storage interface {
	// Song operations
	InsertSong(ctx context.Context, song types.Song) (int64, error)
	GetSong(ctx context.Context, songID int64) (*types.Song, bool, error)
	GetSongByPath(ctx context.Context, filePath string) (*types.Song, bool, error)
	ListCompletedSongs(ctx context.Context) ([]*types.Song, error)
	SetSongFingerprinted(ctx context.Context, songID int64) error

	// Fingerprint operations
	InsertFingerprints(ctx context.Context, songID int64, pairs []types.Pair, batchSize int) error

	// Match operations
	Match(ctx context.Context, pairs []types.Pair, batchSize int) ([]types.Candidate, map[int64]int, error)

	// Count operations
	CountSongs(ctx context.Context) (int, error)
	CountFingerprints(ctx context.Context) (int, error)

	// Maintenance operations
	DeleteSongs(ctx context.Context, songIDs []int64) (int64, error)
	DeleteUnfingerprintedSongs(ctx context.Context) (int64, error)

	// Status operations
	Stats(ctx context.Context) (*StoreStats, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// StoreStats provides counts and size information about the store
type StoreStats struct {
	Songs              int     `json:"songs"`
	FingerprintedSongs int     `json:"fingerprinted_songs"`
	Fingerprints       int     `json:"fingerprints"`
	DatabaseSizeMB     float64 `json:"database_size_mb"`
	SchemaVersion      string  `json:"schema_version"`
}
