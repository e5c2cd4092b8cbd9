package transfer

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"zenget/pkg/types"
)

// OrchestratorOptions configures a run over a list of file descriptors
type OrchestratorOptions struct {
	// DestDir is the directory every file is written into.
	DestDir string

	// FilterKeyword includes only files whose name contains it as a
	// case-sensitive substring. Empty means download everything.
	FilterKeyword string

	// Workers is the number of files transferred in parallel.
	// Default: 1 (strictly sequential).
	Workers int
}

// Orchestrator applies per-file filtering and drives each included file
// through the scheduler until it reaches a terminal outcome. One fatally
// failed file never stops the rest of the list; only a local storage
// failure aborts the run.
type Orchestrator struct {
	scheduler *Scheduler
	opts      OrchestratorOptions
}

// NewOrchestrator creates an orchestrator running files through scheduler
func NewOrchestrator(scheduler *Scheduler, opts OrchestratorOptions) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Orchestrator{
		scheduler: scheduler,
		opts:      opts,
	}
}

// Run transfers every descriptor that passes the filter and reports the
// aggregate outcome. Every descriptor ends in exactly one terminal
// outcome; none is silently dropped. The returned error is non-nil only
// when a storage failure aborted the run, in which case the summary holds
// the outcomes recorded so far.
func (o *Orchestrator) Run(ctx context.Context, descriptors []types.FileDescriptor) (*types.RunSummary, error) {
	summary := &types.RunSummary{}

	var included []types.FileDescriptor
	for _, d := range descriptors {
		if o.opts.FilterKeyword != "" && !strings.Contains(d.Name, o.opts.FilterKeyword) {
			summary.Add(types.Skipped(d, "filtered"))
			continue
		}
		included = append(included, d)
	}

	if o.opts.Workers == 1 {
		for _, d := range included {
			outcome, err := o.scheduler.RunUntilDone(ctx, d, filepath.Join(o.opts.DestDir, d.Name))
			summary.Add(outcome)
			if err != nil {
				return summary, err
			}
		}
		return summary, nil
	}

	// Parallel across files only: each worker owns a descriptor end to
	// end, so no two attempts ever touch the same local file.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	jobs := make(chan types.FileDescriptor)

	for i := 0; i < o.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				outcome, err := o.scheduler.RunUntilDone(runCtx, d, filepath.Join(o.opts.DestDir, d.Name))
				mu.Lock()
				summary.Add(outcome)
				if err != nil && firstErr == nil {
					firstErr = err
					cancel() // storage failure, stop the run
				}
				mu.Unlock()
			}
		}()
	}

	for _, d := range included {
		select {
		case jobs <- d:
		case <-runCtx.Done():
			mu.Lock()
			summary.Add(types.FailedFatal(d, ErrCancelled.Error()))
			mu.Unlock()
		}
	}
	close(jobs)
	wg.Wait()

	return summary, firstErr
}
