// Package ingest coordinates the end-to-end ingestion pipeline for recordings.
//
// The ingester registers each recording, stores its fingerprint pairs in
// batches, and marks it complete, managing concurrency and per-recording
// error handling for bulk loads.
//
// # Basic Usage
//
//	ing := ingest.New(store, logger)
//
//	summary, err := ing.IngestAll(ctx, recordings, &ingest.Config{
//	    Workers:   4,
//	    BatchSize: 500,
//	})
//
// A recording that fails partway leaves its song registered but unmarked;
// storage.DeleteUnfingerprintedSongs reclaims such remnants.
package ingest
