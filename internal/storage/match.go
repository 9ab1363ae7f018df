package storage

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/songprint/pkg/types"
)

// fingerprintRow is one stored row returned by a hash lookup
type fingerprintRow struct {
	hash   string
	songID int64
	offset int
}

// buildQueryOffsets groups sampled offsets by hash, preserving the order
// in which each distinct hash first appears in the query.
func buildQueryOffsets(pairs []types.Pair) (map[string][]int, []string) {
	offsets := make(map[string][]int, len(pairs))
	distinct := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if _, seen := offsets[p.Hash]; !seen {
			distinct = append(distinct, p.Hash)
		}
		offsets[p.Hash] = append(offsets[p.Hash], p.Offset)
	}
	return offsets, distinct
}

// chunkHashes splits hashes into slices of at most size elements
func chunkHashes(hashes []string, size int) [][]string {
	if len(hashes) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(hashes)+size-1)/size)
	for i := 0; i < len(hashes); i += size {
		end := i + size
		if end > len(hashes) {
			end = len(hashes)
		}
		chunks = append(chunks, hashes[i:end])
	}
	return chunks
}

// lookupFingerprints runs one IN query for a chunk of hashes
func lookupFingerprints(ctx context.Context, q querier, hashes []string) ([]fingerprintRow, error) {
	// Build parameterized IN clause
	placeholders := make([]string, len(hashes))
	args := make([]interface{}, len(hashes))
	for i, h := range hashes {
		placeholders[i] = "?"
		args[i] = h
	}

	query := `SELECT hash, song_id, "offset" FROM fingerprints WHERE hash IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	matches := make([]fingerprintRow, 0)
	for rows.Next() {
		var row fingerprintRow
		if err := rows.Scan(&row.hash, &row.songID, &row.offset); err != nil {
			return nil, err
		}
		matches = append(matches, row)
	}
	return matches, rows.Err()
}

// mergeRows folds one chunk of stored rows into the running result. Every
// stored row contributes one count for its song, and one candidate per
// sampled occurrence of its hash in the query.
func mergeRows(rows []fingerprintRow, queryOffsets map[string][]int, candidates *[]types.Candidate, counts map[int64]int) {
	for _, row := range rows {
		counts[row.songID]++
		for _, sampled := range queryOffsets[row.hash] {
			*candidates = append(*candidates, types.Candidate{
				SongID:     row.songID,
				OffsetDiff: row.offset - sampled,
			})
		}
	}
}

// matchSequential looks up chunks one after another against q, folding each
// into the shared result.
func matchSequential(ctx context.Context, q querier, queryOffsets map[string][]int, chunks [][]string, candidates *[]types.Candidate, counts map[int64]int) error {
	for _, chunk := range chunks {
		rows, err := lookupFingerprints(ctx, q, chunk)
		if err != nil {
			return err
		}
		mergeRows(rows, queryOffsets, candidates, counts)
	}
	return nil
}

// matchParallel dispatches chunk lookups across a bounded worker pool.
// Chunk merges commute, so the combined result matches the sequential path
// up to candidate order.
func (s *SQLiteStorage) matchParallel(ctx context.Context, queryOffsets map[string][]int, chunks [][]string, candidates *[]types.Candidate, counts map[int64]int) error {
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, s.matchWorkers)
	var mu sync.Mutex

	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			rows, err := lookupFingerprints(gctx, s.db, chunk)
			if err != nil {
				return err
			}

			mu.Lock()
			mergeRows(rows, queryOffsets, candidates, counts)
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

// matchFingerprints runs the sequential lookup against q. pairs must
// already be normalized.
func matchFingerprints(ctx context.Context, q querier, pairs []types.Pair, batchSize int) ([]types.Candidate, map[int64]int, error) {
	candidates := make([]types.Candidate, 0)
	counts := make(map[int64]int)
	if len(pairs) == 0 {
		return candidates, counts, nil
	}

	queryOffsets, distinct := buildQueryOffsets(pairs)
	if err := matchSequential(ctx, q, queryOffsets, chunkHashes(distinct, batchSize), &candidates, counts); err != nil {
		return nil, nil, err
	}
	return candidates, counts, nil
}

// match normalizes the query and dispatches to the sequential or parallel
// path. The distinct hash count is returned for metrics.
func (s *SQLiteStorage) match(ctx context.Context, pairs []types.Pair, batchSize int) ([]types.Candidate, map[int64]int, int, error) {
	normalized, err := normalizePairs(pairs)
	if err != nil {
		return nil, nil, 0, err
	}

	candidates := make([]types.Candidate, 0)
	counts := make(map[int64]int)
	if len(normalized) == 0 {
		return candidates, counts, 0, nil
	}

	queryOffsets, distinct := buildQueryOffsets(normalized)
	chunks := chunkHashes(distinct, s.effectiveBatchSize(batchSize))

	if s.matchWorkers > 1 && len(chunks) > 1 {
		err = s.matchParallel(ctx, queryOffsets, chunks, &candidates, counts)
	} else {
		err = matchSequential(ctx, s.db, queryOffsets, chunks, &candidates, counts)
	}
	if err != nil {
		return nil, nil, 0, err
	}

	s.logger.Debug("match complete",
		"hashes", len(distinct),
		"chunks", len(chunks),
		"candidates", len(candidates),
	)
	return candidates, counts, len(distinct), nil
}
