package ingest

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/lekhika-tools/shabda/pkg/devanagari"
)

// ParallelValidator fans a chunk's candidate tokens out across a worker
// pool and collects the phonetically valid ones. The result is set-equal
// to applying devanagari.IsValidWord sequentially; ordering across slices
// is preserved only because slices are concatenated in partition order,
// and callers must not rely on it.
type ParallelValidator struct {
	// Workers is the pool size. Zero or negative means all available CPUs.
	Workers int
}

// Validate partitions candidates into contiguous slices, one per worker,
// and validates them concurrently. Each worker owns its slice and its
// result cell exclusively, so no synchronization beyond fan-in is needed.
// A worker failure aborts the whole chunk.
func (v ParallelValidator) Validate(ctx context.Context, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	workers := v.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	per := (len(candidates) + workers - 1) / workers
	numSlices := (len(candidates) + per - 1) / per
	results := make([][]string, numSlices)

	pool := NewWorkerPool(workers, numSlices)
	pool.Start(ctx)

	var wg sync.WaitGroup
	for i, start := 0, 0; start < len(candidates); i, start = i+1, start+per {
		end := start + per
		if end > len(candidates) {
			end = len(candidates)
		}
		slice := candidates[start:end]
		idx := i

		wg.Add(1)
		err := pool.Submit(func(ctx context.Context) error {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				return err
			}
			valid := make([]string, 0, len(slice))
			for _, w := range slice {
				if devanagari.IsValidWord(w) {
					valid = append(valid, w)
				}
			}
			results[idx] = valid
			return nil
		})
		if err != nil {
			wg.Done()
			pool.Close()
			return nil, err
		}
	}

	wg.Wait()
	pool.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := pool.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorker, err)
	}

	var out []string
	for _, part := range results {
		out = append(out, part...)
	}
	return out, nil
}
