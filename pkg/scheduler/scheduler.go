// Package scheduler implements the two sample-dispatch strategies the
// integrators are driven by: samples-per-pixel (one task per pixel per
// sample, used with integrator.Pixel) and samples-per-image (one task per
// sample with no fixed raster, used with integrator.Image). Both satisfy
// the same run(task_fn) -> processed_count contract; only how a linear task
// index is interpreted differs.
//
// Dispatch is grounded on the teacher's channel-based worker_pool.go, with
// the fixed-size channel pool replaced by a github.com/alitto/pond/v2 pool
// that actually executes each claimed task, golang.org/x/sync/errgroup +
// semaphore.Weighted to run the fixed logical worker loop that claims task
// indices and to bound how many are in flight at once, and
// github.com/cheggaaa/pb/v3 for progress reporting.
package scheduler

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// TaskFunc is one unit of sample work. threadID is in [0, workers) and
// stable for the lifetime of a single Run: a caller may use it to index
// worker-local state (an RNG stream, a scratch buffer) without locking.
// index identifies which piece of work this is; SPP and SPI interpret it
// differently. An error aborts the run and is returned from Run once every
// already-claimed task has finished.
type TaskFunc func(threadID, index int) error

// ProgressReporter observes scheduling progress across a Run.
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

// NopReporter discards every progress event; the default for tests.
type NopReporter struct{}

func (NopReporter) Start(int)  {}
func (NopReporter) Increment() {}
func (NopReporter) Finish()    {}

type barReporter struct {
	bar *pb.ProgressBar
}

// NewBarReporter returns a ProgressReporter backed by a pb/v3 bar.
func NewBarReporter() ProgressReporter { return &barReporter{} }

func (r *barReporter) Start(total int) { r.bar = pb.StartNew(total) }
func (r *barReporter) Increment() {
	if r.bar != nil {
		r.bar.Increment()
	}
}
func (r *barReporter) Finish() {
	if r.bar != nil {
		r.bar.Finish()
	}
}

// poolInFlight bounds how many claimed task indices may be outstanding in
// the execution pool at once, independent of the logical worker count, so a
// burst of slow samples can't let every remaining index be claimed and
// queued up front.
const poolInFlight = 256

// SPP schedules one task per (pixel, sample) pair: the total task count is
// Width*Height*SPP and task index i maps to pixel (i%Width,
// (i/Width)%Height). Pairs with integrator.Pixel image-sampling mode.
type SPP struct {
	Width, Height, SPP, Workers int
	Reporter                    ProgressReporter
}

// Pixel decodes a linear SPP task index into the pixel it belongs to.
func (s SPP) Pixel(index int) (x, y int) {
	return index % s.Width, (index / s.Width) % s.Height
}

// Run dispatches Width*Height*SPP tasks, returning the number that
// completed before ctx was cancelled or task returned an error.
func (s SPP) Run(ctx context.Context, task TaskFunc) (uint64, error) {
	return dispatch(ctx, s.Width*s.Height*s.SPP, s.Workers, s.Reporter, task)
}

// SPI schedules Total independent samples with no fixed pixel assignment;
// the task itself is responsible for drawing a raster position. Pairs with
// integrator.Image image-sampling mode.
type SPI struct {
	Total, Workers int
	Reporter       ProgressReporter
}

// Run dispatches Total tasks, returning the number that completed before
// ctx was cancelled or task returned an error.
func (s SPI) Run(ctx context.Context, task TaskFunc) (uint64, error) {
	return dispatch(ctx, s.Total, s.Workers, s.Reporter, task)
}

// dispatch runs `workers` logical claim-loops concurrently via an
// errgroup.Group, each identified by a stable threadID. A loop claims the
// next unclaimed index from a shared counter, hands it to the pond pool for
// execution, and blocks on that specific task's completion before claiming
// another — so the fixed threadID<->goroutine mapping holds for the whole
// run even though the actual sample work happens on a pond worker.
// Cancellation is polled only between claims: a task already handed to the
// pool always runs to completion.
func dispatch(ctx context.Context, total, workers int, reporter ProgressReporter, task TaskFunc) (uint64, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	reporter.Start(total)
	defer reporter.Finish()

	pool := pond.NewPool(poolInFlight)
	defer pool.StopAndWait()

	sem := semaphore.NewWeighted(int64(poolInFlight))
	g, gctx := errgroup.WithContext(ctx)

	var next atomic.Int64
	var processed atomic.Uint64

	for w := 0; w < workers; w++ {
		threadID := w
		g.Go(func() error {
			for {
				if gctx.Err() != nil {
					return nil
				}
				idx := int(next.Add(1)) - 1
				if idx >= total {
					return nil
				}
				if err := sem.Acquire(gctx, 1); err != nil {
					return nil
				}
				done := make(chan error, 1)
				pool.Submit(func() {
					done <- task(threadID, idx)
				})
				select {
				case err := <-done:
					sem.Release(1)
					if err != nil {
						return err
					}
				case <-gctx.Done():
					sem.Release(1)
					return nil
				}
				processed.Add(1)
				reporter.Increment()
			}
		})
	}

	err := g.Wait()
	return processed.Load(), err
}
