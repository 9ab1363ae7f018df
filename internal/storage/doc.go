// Package storage provides SQLite-based persistence for audio fingerprints.
//
// The storage layer manages:
//   - Song registration and fingerprinting state
//   - Fingerprint hash/offset pairs
//   - Alignment-vote match queries
//   - Catalog counts and maintenance deletes
//
// # Database Schema
//
// Tables:
//   - songs: Registered recordings (name, source path, fingerprint state)
//   - fingerprints: Hash/offset pairs, unique per (hash, song, offset)
//   - schema_version: Applied migration versions
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage("songprint.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	// Register a song
//	songID, err := store.InsertSong(ctx, types.Song{
//	    Name:     "track-A",
//	    FilePath: "/music/track-a.mp3",
//	})
//
//	// Store its fingerprints in batches of 500 rows
//	err = store.InsertFingerprints(ctx, songID, pairs, 500)
//
//	// Mark ingestion complete
//	err = store.SetSongFingerprinted(ctx, songID)
//
// # Matching
//
// Match takes the hash/offset pairs sampled from an unknown clip and
// returns the raw alignment evidence: one candidate per stored row and
// sampled occurrence, plus the number of stored rows seen per song.
//
//	candidates, counts, err := store.Match(ctx, sampled, 500)
//	for _, c := range candidates {
//	    // c.SongID voted for alignment c.OffsetDiff
//	}
//
// Ranking candidates into a verdict is left to the caller: bucket the
// candidates by (SongID, OffsetDiff) and the bucket with the most votes
// identifies both the song and the time shift of the clip within it.
//
// # Transactions
//
// Use transactions to make multi-step updates atomic:
//
//	tx, err := store.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	songID, _ := tx.InsertSong(ctx, song)
//	_ = tx.InsertFingerprints(ctx, songID, pairs, 0)
//	_ = tx.SetSongFingerprinted(ctx, songID)
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// Outside a transaction, InsertFingerprints commits each batchSize chunk
// in its own transaction, so a failure partway leaves earlier chunks
// stored and the song still unmarked. DeleteUnfingerprintedSongs reclaims
// such partial ingests.
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// Pure Go build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build ./...
//
// CGO build (cgosqlite tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "cgosqlite" ./...
//
// Both builds expose identical behavior; DriverName and BuildMode report
// which one is active.
package storage
