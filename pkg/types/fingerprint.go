package types

import (
	"fmt"
	"strings"
)

// Pair is a single fingerprint: a hash and the offset at which it occurs.
// Offsets are unitless positions within a recording; only their differences
// carry meaning during matching.
type Pair struct {
	Hash   string
	Offset int
}

// Candidate is one alignment vote from a match query. OffsetDiff is the
// stored offset minus the sampled offset, so every pair a song and a query
// have in common at a consistent time shift votes for the same value.
type Candidate struct {
	SongID     int64
	OffsetDiff int
}

// Validate checks if the pair can be stored or queried
func (p Pair) Validate() error {
	if !isHexString(p.Hash) {
		return fmt.Errorf("%w: %q", ErrInvalidHash, p.Hash)
	}

	if p.Offset < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOffset, p.Offset)
	}

	return nil
}

// Normalize validates the pair and returns a copy with the hash
// canonicalized to lower-case, so equality is independent of how the
// producer spelled the digest.
func (p Pair) Normalize() (Pair, error) {
	if err := p.Validate(); err != nil {
		return Pair{}, err
	}

	p.Hash = strings.ToLower(p.Hash)
	return p, nil
}

// isHexString reports whether s is non-empty and made of hex digits only
func isHexString(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}

	return true
}
