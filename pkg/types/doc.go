// Package types provides shared type definitions for the songprint store.
//
// This package defines domain types used across multiple components of
// songprint, including songs, fingerprint pairs, and match candidates.
//
// # Core Types
//
// Song represents a registered recording and its fingerprinting state:
//
//	song := types.Song{
//	    Name:        "track-A",
//	    FilePath:    "/music/track-a.mp3",
//	    FileHash:    "9f2c44d1",
//	    TotalHashes: 4096,
//	}
//
// Pair represents a single fingerprint hash together with the offset at
// which it occurs in a recording:
//
//	pair := types.Pair{Hash: "ab12f0", Offset: 42}
//
// Candidate represents one alignment vote produced by a match query: the
// song a stored hash belongs to, and the difference between its stored
// offset and the offset at which the same hash was sampled:
//
//	cand := types.Candidate{SongID: 1, OffsetDiff: -100}
//
// # Validation
//
// Pair values are validated and canonicalized before they reach storage,
// so hash equality is well defined regardless of how the producer spelled
// the hex digest:
//
//	pair, err := types.Pair{Hash: "AB12F0", Offset: 42}.Normalize()
//	// pair.Hash == "ab12f0"
//
// Validation failures are reported via the sentinel errors in this
// package and can be tested with errors.Is.
package types
