package sweep

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/egonetlab/egonet/pkg/genetic"
	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/logging"
	"github.com/egonetlab/egonet/pkg/metrics"
	"github.com/egonetlab/egonet/pkg/parallel"
	"github.com/egonetlab/egonet/pkg/pubsub"
)

// Event bus topics published during a sweep.
const (
	// TopicProgress carries one Progress event per finished task.
	TopicProgress = "sweep.progress"

	// TopicGeneration carries one GenerationEvent per completed
	// generation of every running task.
	TopicGeneration = "sweep.generation"
)

// Progress reports a finished sweep task.
type Progress struct {
	TaskID      string  `json:"task_id"`
	Ordinal     int     `json:"ordinal"`
	Completed   int     `json:"completed"`
	Total       int     `json:"total"`
	BestFitness float64 `json:"best_fitness"`
	Status      string  `json:"status"`
}

// GenerationEvent reports detection progress inside a single task.
type GenerationEvent struct {
	TaskID      string  `json:"task_id"`
	Ordinal     int     `json:"ordinal"`
	Generation  int     `json:"generation"`
	Total       int     `json:"total"`
	BestFitness float64 `json:"best_fitness"`
}

// RunnerOptions configures a sweep runner.
type RunnerOptions struct {
	// Workers is the number of tasks evaluated concurrently.
	Workers int

	// BaseSeed makes the whole sweep reproducible. Zero picks a
	// time-based seed.
	BaseSeed int64

	// Bus receives Progress and GenerationEvent updates. Optional.
	Bus *pubsub.Bus

	// Logger receives sweep diagnostics. Defaults to a no-op logger.
	Logger logging.Logger

	// Metrics receives sweep counters. Defaults to the shared registry.
	Metrics *metrics.Registry
}

// DefaultRunnerOptions returns the concurrency used for local sweeps.
func DefaultRunnerOptions() RunnerOptions {
	return RunnerOptions{Workers: 6}
}

// Runner evaluates every task of a grid across a worker pool. Each task
// writes into its own result slot, so no state is shared between tasks.
type Runner struct {
	workers  int
	baseSeed int64
	bus      *pubsub.Bus
	logger   logging.Logger
	metrics  *metrics.Registry
}

// NewRunner builds a Runner from options.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultRunnerOptions().Workers
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry()
	}
	return &Runner{
		workers:  opts.Workers,
		baseSeed: opts.BaseSeed,
		bus:      opts.Bus,
		logger:   opts.Logger.With(logging.Component("sweep")),
		metrics:  opts.Metrics,
	}
}

// outcome is the result slot of one task. Each worker writes only its
// own slot.
type outcome struct {
	result   *genetic.Result
	err      error
	duration time.Duration
}

// Run evaluates every parameter combination of the grid against the
// model and returns the aggregated report. Cancelling the context stops
// unstarted tasks and makes Run return the context error.
func (r *Runner) Run(ctx context.Context, m *graph.Model, grid Grid) (*Report, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	tasks := grid.Tasks(r.baseSeed)
	total := len(tasks)
	r.logger.Info("starting sweep",
		logging.Int("tasks", total),
		logging.Int("workers", r.workers),
		logging.Vertices(m.Size()),
		logging.Edges(m.EdgeCount()))

	outcomes := make([]outcome, total)
	var completed int64

	started := time.Now()
	pool := parallel.NewWorkerPool(r.workers, r.logger)
	for i := range tasks {
		task := tasks[i]
		slot := &outcomes[i]
		pool.Submit(func() {
			r.runTask(ctx, m, task, slot, total, &completed)
		})
	}
	pool.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := buildReport(m, tasks, outcomes, time.Since(started))
	if err != nil {
		return nil, err
	}
	r.metrics.SweepBestFitness.Set(report.Best.BestFitness)
	r.logger.Info("sweep complete",
		logging.Fitness(report.Best.BestFitness),
		logging.Int("ordinal", report.Best.Ordinal),
		logging.Duration("elapsed", time.Since(started)))
	return report, nil
}

func (r *Runner) runTask(ctx context.Context, m *graph.Model, task Task, slot *outcome, total int, completed *int64) {
	if ctx.Err() != nil {
		slot.err = ctx.Err()
		r.metrics.RecordSweepTask("canceled", 0)
		return
	}

	r.metrics.SweepActiveWorkers.Inc()
	defer r.metrics.SweepActiveWorkers.Dec()

	opts := task.Options
	opts.Logger = r.logger.With(logging.TaskID(task.ID))
	if r.bus != nil {
		opts.OnGeneration = func(generation, generations int, best float64) {
			r.bus.Publish(TopicGeneration, GenerationEvent{
				TaskID:      task.ID,
				Ordinal:     task.Ordinal,
				Generation:  generation,
				Total:       generations,
				BestFitness: best,
			})
		}
	}

	start := time.Now()
	result, err := genetic.Detect(m, opts)
	slot.result = result
	slot.err = err
	slot.duration = time.Since(start)

	status := "ok"
	fitness := 0.0
	if err != nil {
		status = "error"
	} else {
		fitness = result.BestFitness
	}
	r.metrics.RecordSweepTask(status, slot.duration)

	done := int(atomic.AddInt64(completed, 1))
	if r.bus != nil {
		r.bus.Publish(TopicProgress, Progress{
			TaskID:      task.ID,
			Ordinal:     task.Ordinal,
			Completed:   done,
			Total:       total,
			BestFitness: fitness,
			Status:      status,
		})
	}

	if err != nil {
		r.logger.Warn("sweep task failed",
			logging.TaskID(task.ID),
			logging.Error(err))
		return
	}
	r.logger.Debug("sweep task complete",
		logging.TaskID(task.ID),
		logging.Int("ordinal", task.Ordinal),
		logging.Fitness(fitness),
		logging.Duration("elapsed", slot.duration))
}
