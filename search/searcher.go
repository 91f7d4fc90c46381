package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/byte4ever/pain/digest"
	"github.com/byte4ever/pain/pixel"
	"github.com/byte4ever/pain/progress"
)

// checkEvery is how many candidates pass between cancellation checks
// and progress updates.
const checkEvery = 1 << 16

// ErrPreimageNotFound reports a digest that no pixel value produces.
var ErrPreimageNotFound = errors.New("preimage not found")

// PreimageNotFoundError carries the digest that could not be inverted
// and its linear index in the stream.
type PreimageNotFoundError struct {
	Index  int
	Digest digest.Digest
}

func (e *PreimageNotFoundError) Error() string {
	return fmt.Sprintf(
		"%s: pixel %d, digest %s", ErrPreimageNotFound, e.Index, e.Digest,
	)
}

// Is makes errors.Is(err, ErrPreimageNotFound) match.
func (e *PreimageNotFoundError) Is(target error) bool {
	return target == ErrPreimageNotFound
}

// Recovered is one pixel value found by a search, addressed by its
// linear index in the stream.
type Recovered struct {
	Index int
	Value pixel.Value
}

// Searcher inverts digests produced by one algorithm. It holds no
// mutable state and may serve any number of concurrent searches.
type Searcher struct {
	alg   digest.Algorithm
	space uint64
}

// NewSearcher returns a searcher over the full pixel space.
func NewSearcher(alg digest.Algorithm) *Searcher {
	return NewBoundedSearcher(alg, pixel.Space)
}

// NewBoundedSearcher returns a searcher that only examines the first
// space ranks. Zero, or anything above pixel.Space, selects the full
// space.
func NewBoundedSearcher(
	alg digest.Algorithm,
	space uint64,
) *Searcher {
	if alg == nil {
		alg = digest.Default
	}

	if space == 0 || space > pixel.Space {
		space = pixel.Space
	}

	return &Searcher{alg: alg, space: space}
}

// Algorithm returns the digest algorithm s inverts.
func (s *Searcher) Algorithm() digest.Algorithm {
	return s.alg
}

// Find enumerates pixel values in rank order and returns the first one
// whose digest equals target. It returns ErrPreimageNotFound once the
// space is exhausted, or the context error if ctx ends first. Examined
// candidates are reported to task.
func (s *Searcher) Find(
	ctx context.Context,
	target digest.Digest,
	task *progress.Task,
) (pixel.Value, error) {
	var pending uint64

	for rank := uint64(0); rank < s.space; rank++ {
		p := pixel.FromRank(uint32(rank))
		pending++

		if s.alg.Sum(p) == target {
			task.AddChecked(pending)

			return p, nil
		}

		if pending == checkEvery {
			task.AddChecked(pending)
			pending = 0

			if err := ctx.Err(); err != nil {
				return pixel.Value{}, err
			}
		}
	}

	task.AddChecked(pending)

	return pixel.Value{}, ErrPreimageNotFound
}

// Search inverts every digest of chunk in order and passes each result
// to emit. Digests repeated within the chunk are resolved once; the
// enumeration is deterministic, so the memoized answer is the one a
// fresh search would find. The first failure, from Find or emit, stops
// the chunk.
func (s *Searcher) Search(
	ctx context.Context,
	chunk Chunk,
	task *progress.Task,
	emit func(Recovered) error,
) error {
	const errCtx = "searching chunk"

	defer task.Finish()

	memo := make(map[digest.Digest]pixel.Value)

	for i, target := range chunk.Digests {
		idx := chunk.Base + i

		v, ok := memo[target]
		if !ok {
			found, err := s.Find(ctx, target, task)
			if errors.Is(err, ErrPreimageNotFound) {
				return fmt.Errorf(
					"%s %d: %w", errCtx, chunk.ID,
					&PreimageNotFoundError{Index: idx, Digest: target},
				)
			}

			if err != nil {
				return fmt.Errorf("%s %d: %w", errCtx, chunk.ID, err)
			}

			v = found
			memo[target] = v
		}

		if err := emit(Recovered{Index: idx, Value: v}); err != nil {
			return fmt.Errorf("%s %d: %w", errCtx, chunk.ID, err)
		}

		task.Add(1)
	}

	return nil
}
