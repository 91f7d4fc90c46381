package search

import (
	"errors"
	"fmt"

	"github.com/byte4ever/pain/digest"
)

// ErrInvalidWorkerCount reports a partition request for fewer than one
// chunk.
var ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

// Chunk is a contiguous run of digests starting at linear index Base.
type Chunk struct {
	ID      int
	Base    int
	Digests []digest.Digest
}

// Len returns the number of digests in c.
func (c Chunk) Len() int {
	return len(c.Digests)
}

// Partition splits digests into exactly workers chunks of
// ceil(len/workers) digests each, except the tail. When workers exceeds
// the digest count the trailing chunks are empty. Chunks share the
// backing array of digests.
func Partition(
	digests []digest.Digest,
	workers int,
) ([]Chunk, error) {
	const errCtx = "partitioning digests"

	if workers < 1 {
		return nil, fmt.Errorf(
			"%s: %w: got %d", errCtx, ErrInvalidWorkerCount, workers,
		)
	}

	n := len(digests)
	size := (n + workers - 1) / workers
	chunks := make([]Chunk, workers)

	for id := range chunks {
		lo := min(id*size, n)
		hi := min(lo+size, n)

		chunks[id] = Chunk{
			ID:      id,
			Base:    lo,
			Digests: digests[lo:hi:hi],
		}
	}

	return chunks, nil
}
