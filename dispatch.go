package bjpeg

import (
	"context"
	"fmt"

	"github.com/klauspost/cpuid/v2"
	"github.com/sourcegraph/conc/pool"
)

// dispatch partitions the index range [0,n) into contiguous chunks and
// runs work over each chunk concurrently (component K), one goroutine
// per chunk via github.com/sourcegraph/conc/pool, replacing the
// teacher's implicit single-goroutine loop. Indexing rather than slicing
// lets the same dispatcher drive both the DCT pass (mutating a []Block
// in place) and the quantize pass (writing into a same-length result
// slice) without constraining work to one element type. Chunk count
// defaults to the machine's logical core count
// (github.com/klauspost/cpuid/v2), mirroring
// original_source/src/parallel_quantize.rs's scoped_threadpool
// chunk-and-join pattern translated to Go's structured-concurrency
// idiom. A worker panic is recovered and surfaced as ErrWorkerFailure
// rather than crashing the process; dispatch performs no cross-chunk
// synchronization within a pass — work on one index never depends on
// another index in the same dispatch call.
func dispatch(ctx context.Context, n int, work func(i int)) error {
	if n == 0 {
		return nil
	}
	workers := cpuid.CPU.LogicalCores
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	p := pool.New().WithErrors()
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		start, end := start, end
		p.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrap(ErrWorkerFailure, "dispatch", fmt.Errorf("%v", r))
				}
			}()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			for i := start; i < end; i++ {
				work(i)
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return wrap(ErrWorkerFailure, "dispatch", err)
	}
	return nil
}
