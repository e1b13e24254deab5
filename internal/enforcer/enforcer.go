package enforcer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aatumaykin/filesweep/internal/logger"
	"github.com/google/uuid"
)

// Enforcer runs retention policies against the filesystem.
type Enforcer struct {
	logger  *logger.Logger
	metrics *Metrics

	// Filesystem and clock seams, replaced in tests.
	stat    func(string) (os.FileInfo, error)
	readDir func(string) ([]os.DirEntry, error)
	remove  func(string) error
	now     func() time.Time
}

// New creates an enforcer. Both logger and metrics may be nil; enforcement
// behaves identically without them.
func New(log *logger.Logger, metrics *Metrics) *Enforcer {
	return &Enforcer{
		logger:  log,
		metrics: metrics,
		stat:    os.Stat,
		readDir: os.ReadDir,
		remove:  os.Remove,
		now:     time.Now,
	}
}

// EnforceAll runs every policy in cfg on a pool of at most cfg.MaxWorkers
// concurrent workers and returns one Result per policy. Result order is not
// defined. Per-policy errors are absorbed into that policy's failure count;
// only a misconfigured pool is an error.
func (e *Enforcer) EnforceAll(ctx context.Context, cfg Configuration) ([]Result, error) {
	if cfg.MaxWorkers < 1 {
		return nil, fmt.Errorf("max workers must be >= 1, got %d", cfg.MaxWorkers)
	}

	results := make([]Result, 0, len(cfg.Policies))
	if len(cfg.Policies) == 0 {
		return results, nil
	}

	runID := uuid.NewString()

	workers := cfg.MaxWorkers
	if workers > len(cfg.Policies) {
		workers = len(cfg.Policies)
	}

	if e.logger != nil {
		e.logger.InfoCtx(ctx, "starting enforcement run",
			logger.Field{Key: "run_id", Value: runID},
			logger.Field{Key: "policies", Value: len(cfg.Policies)},
			logger.Field{Key: "workers", Value: workers})
	}

	jobs := make(chan Policy)
	resultCh := make(chan Result, len(cfg.Policies))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go e.worker(ctx, i, runID, jobs, resultCh, &wg)
	}

	for _, p := range cfg.Policies {
		select {
		case jobs <- p:
		default:
			if e.logger != nil {
				e.logger.DebugCtx(ctx, "worker pool saturated, waiting for free slot",
					logger.Field{Key: "run_id", Value: runID},
					logger.Field{Key: "directory", Value: p.Directory})
			}
			jobs <- p
		}
	}
	close(jobs)

	wg.Wait()
	close(resultCh)

	for res := range resultCh {
		results = append(results, res)
	}

	if e.logger != nil {
		e.logger.InfoCtx(ctx, "enforcement run finished",
			logger.Field{Key: "run_id", Value: runID},
			logger.Field{Key: "policies", Value: len(results)})
	}

	return results, nil
}

// worker consumes policies from the job channel until it is closed.
func (e *Enforcer) worker(ctx context.Context, id int, runID string, jobs <-chan Policy, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()

	if e.logger != nil {
		e.logger.DebugCtx(ctx, "worker started",
			logger.Field{Key: "run_id", Value: runID},
			logger.Field{Key: "worker_id", Value: id})
	}

	for p := range jobs {
		results <- e.processPolicy(runID, p)
	}
}

// processPolicy runs one policy and guarantees a Result even if the
// traversal panics. A panicking traversal counts as one failure so the
// worker slot is always released and the result set stays complete.
func (e *Enforcer) processPolicy(runID string, p Policy) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Error("traversal panic recovered",
					fmt.Errorf("panic: %v", r),
					logger.Field{Key: "run_id", Value: runID},
					logger.Field{Key: "directory", Value: p.Directory})
			}
			res.Directory = p.Directory
			res.Failed++
		}
	}()

	return e.runPolicy(runID, p)
}
