package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/songprint/internal/storage"
	"github.com/dshills/songprint/pkg/types"
)

// ErrIngestRunning is returned when a bulk ingest is already in progress
var ErrIngestRunning = errors.New("ingest already running")

// Ingester coordinates the ingestion pipeline: register -> store -> mark complete
type Ingester struct {
	storage storage.Storage
	logger  *slog.Logger
	lock    IngestLock

	// Worker pool configuration
	workers int
}

// Config contains configuration for a bulk ingest
type Config struct {
	Workers   int // Number of recordings processed concurrently (default: runtime.NumCPU())
	BatchSize int // Fingerprint rows per transaction chunk (default: storage default)
}

// Recording is one unit of ingest work: a song plus its fingerprint pairs
type Recording struct {
	Name     string
	FilePath string
	FileHash string
	Pairs    []types.Pair
}

// Summary contains statistics about an ingest run
type Summary struct {
	SongsIngested      int
	SongsFailed        int
	FingerprintsStored int
	Duration           time.Duration
	ErrorMessages      []string
}

// New creates a new Ingester instance. A nil logger disables logging.
func New(store storage.Storage, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Ingester{
		storage: store,
		logger:  logger,
		workers: runtime.NumCPU(),
	}
}

// IngestOne registers a single recording, stores its fingerprints, and
// marks it complete. Returns the assigned song ID. If fingerprint storage
// fails partway, the song stays registered but unmarked, so a later
// DeleteUnfingerprintedSongs can reclaim it.
func (ing *Ingester) IngestOne(ctx context.Context, rec Recording, batchSize int) (int64, error) {
	songID, err := ing.storage.InsertSong(ctx, types.Song{
		Name:        rec.Name,
		FilePath:    rec.FilePath,
		FileHash:    rec.FileHash,
		TotalHashes: len(rec.Pairs),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to register song: %w", err)
	}

	if err := ing.storage.InsertFingerprints(ctx, songID, rec.Pairs, batchSize); err != nil {
		return songID, fmt.Errorf("failed to store fingerprints: %w", err)
	}

	if err := ing.storage.SetSongFingerprinted(ctx, songID); err != nil {
		return songID, fmt.Errorf("failed to mark song complete: %w", err)
	}

	ing.logger.Debug("ingested recording",
		"song_id", songID,
		"name", rec.Name,
		"pairs", len(rec.Pairs),
	)
	return songID, nil
}

// IngestAll ingests recordings concurrently. Only one bulk ingest may run
// per Ingester at a time; a concurrent call returns ErrIngestRunning.
// Individual recording failures are recorded in the summary and do not
// abort the run.
func (ing *Ingester) IngestAll(ctx context.Context, recordings []Recording, config *Config) (*Summary, error) {
	// Resolved locally so a rejected concurrent caller never touches the
	// running ingest's settings
	workers := ing.workers
	batchSize := 0
	if config != nil {
		if config.Workers > 0 {
			workers = config.Workers
		}
		batchSize = config.BatchSize
	}

	if !ing.lock.TryAcquire() {
		return nil, ErrIngestRunning
	}
	defer ing.lock.Release()

	startTime := time.Now()
	summary := &Summary{
		ErrorMessages: make([]string, 0),
	}

	// Track progress with atomic counters
	var (
		ingested int32
		failed   int32
		stored   int32
	)

	// Use errgroup for concurrent processing with error propagation
	semaphore := make(chan struct{}, workers)
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protect summary.ErrorMessages

	for _, rec := range recordings {
		rec := rec
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case semaphore <- struct{}{}:
				// Acquire semaphore
			}
			defer func() { <-semaphore }()

			if _, err := ing.IngestOne(gctx, rec, batchSize); err != nil {
				atomic.AddInt32(&failed, 1)
				mu.Lock()
				summary.ErrorMessages = append(summary.ErrorMessages, fmt.Sprintf("%s: %v", rec.Name, err))
				mu.Unlock()
				// Continue with other recordings
				return nil
			}

			atomic.AddInt32(&ingested, 1)
			atomic.AddInt32(&stored, int32(len(rec.Pairs)))
			return nil
		})
	}

	// Wait for all goroutines to complete
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.SongsIngested = int(ingested)
	summary.SongsFailed = int(failed)
	summary.FingerprintsStored = int(stored)
	summary.Duration = time.Since(startTime)

	ing.logger.Info("ingest complete",
		"songs", summary.SongsIngested,
		"failed", summary.SongsFailed,
		"pairs", summary.FingerprintsStored,
		"duration", summary.Duration,
	)
	return summary, nil
}
