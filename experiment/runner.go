package experiment

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/sarchlab/leorelay/runner"
)

// A RunExecutor executes a single run.
type RunExecutor interface {
	RunWithID(ctx context.Context, id string, p runner.Params) (
		runner.RunRecord, error)
}

// A ProgressReporter is told about the progress of a sweep.
type ProgressReporter interface {
	SweepStarted(name string, total int)
	RunStarted(name string, p runner.Params)
	RunFinished(name string, r runner.RunRecord, err error)
	SweepFinished(name string)
}

// Runner executes sweeps on a bounded pool of workers.
type Runner struct {
	executor  RunExecutor
	workers   int
	reporters []ProgressReporter
	logger    zerolog.Logger
}

// NewRunner creates a Runner with one worker per CPU.
func NewRunner(executor RunExecutor) *Runner {
	return &Runner{
		executor: executor,
		workers:  runtime.NumCPU(),
		logger:   zerolog.Nop(),
	}
}

// WithWorkers sets the number of runs executed at the same time.
func (r *Runner) WithWorkers(n int) *Runner {
	if n < 1 {
		panic("a sweep needs at least one worker")
	}

	r.workers = n

	return r
}

// WithReporter adds a progress reporter.
func (r *Runner) WithReporter(p ProgressReporter) *Runner {
	r.reporters = append(r.reporters, p)
	return r
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(logger zerolog.Logger) *Runner {
	r.logger = logger
	return r
}

// Run executes every combination of the sweep. Results come back in the
// order of Sweep.Params regardless of which worker ran them. A failed run
// does not stop the others; the failures are returned together.
func (r *Runner) Run(ctx context.Context, s Sweep) ([]Result, error) {
	params := s.Params()
	results := make([]Result, len(params))

	for _, rep := range r.reporters {
		rep.SweepStarted(s.Name, len(params))
	}

	jobs := make(chan int)
	wg := sync.WaitGroup{}

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range jobs {
				results[i] = r.runOne(ctx, s.Name, i, params[i])
			}
		}()
	}

	for i := range params {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	for _, rep := range r.reporters {
		rep.SweepFinished(s.Name)
	}

	var errs *multierror.Error
	for _, res := range results {
		if res.Err != nil {
			errs = multierror.Append(errs, res.Err)
		}
	}

	return results, errs.ErrorOrNil()
}

func (r *Runner) runOne(
	ctx context.Context,
	name string,
	index int,
	p runner.Params,
) Result {
	runID := fmt.Sprintf("%s-%d", name, index+1)

	for _, rep := range r.reporters {
		rep.RunStarted(name, p)
	}

	record, err := r.executor.RunWithID(ctx, runID, p)
	if err != nil {
		err = fmt.Errorf("%s (%s): %w", runID, p, err)
		r.logger.Error().Err(err).Msg("run failed, skipping")
	}

	for _, rep := range r.reporters {
		rep.RunFinished(name, record, err)
	}

	return Result{Params: p, Record: record, Err: err}
}
