package distrib

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/egonetlab/egonet/pkg/genetic"
	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/logging"
	"github.com/egonetlab/egonet/pkg/metrics"
	"github.com/egonetlab/egonet/pkg/sweep"
)

// WorkerConfig configures a pipeline worker.
type WorkerConfig struct {
	// TaskAddr is the coordinator task address, e.g. "tcp://localhost:7750".
	TaskAddr string

	// ResultAddr is the coordinator result address, e.g. "tcp://localhost:7751".
	ResultAddr string

	// WorkerID identifies this worker in results. Empty picks a random id.
	WorkerID string

	// RecvTimeout is the polling interval while waiting for tasks.
	RecvTimeout time.Duration

	// Metrics receives task counters. Defaults to the shared registry.
	Metrics *metrics.Registry
}

// DefaultWorkerConfig returns addresses for a coordinator on localhost.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		TaskAddr:    "tcp://localhost:7750",
		ResultAddr:  "tcp://localhost:7751",
		RecvTimeout: time.Second,
	}
}

// Worker pulls tasks from a coordinator, evaluates them against a local
// graph model and pushes the results back.
type Worker struct {
	taskSocket   PipelineSocket
	resultSocket PipelineSocket
	model        *graph.Model
	config       WorkerConfig
	logger       logging.Logger
	metrics      *metrics.Registry
	stopCh       chan struct{}
	wg           sync.WaitGroup
	running      bool
	runningMu    sync.Mutex
}

// NewWorker creates a worker with sockets from the factory. The model is
// the graph every received task is evaluated against.
func NewWorker(factory SocketFactory, config WorkerConfig, m *graph.Model, logger logging.Logger) (*Worker, error) {
	if config.WorkerID == "" {
		config.WorkerID = uuid.NewString()
	}
	if config.RecvTimeout <= 0 {
		config.RecvTimeout = time.Second
	}
	if config.Metrics == nil {
		config.Metrics = metrics.DefaultRegistry()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	taskSocket, err := factory.NewPullSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create task socket: %w", err)
	}
	resultSocket, err := factory.NewPushSocket()
	if err != nil {
		taskSocket.Close()
		return nil, fmt.Errorf("failed to create result socket: %w", err)
	}

	return &Worker{
		taskSocket:   taskSocket,
		resultSocket: resultSocket,
		model:        m,
		config:       config,
		logger:       logger.With(logging.Component("worker"), logging.String("worker_id", config.WorkerID)),
		metrics:      config.Metrics,
		stopCh:       make(chan struct{}),
	}, nil
}

// ID returns the worker identifier reported in results.
func (w *Worker) ID() string {
	return w.config.WorkerID
}

// Start connects to the coordinator and begins processing tasks.
func (w *Worker) Start() error {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	if w.running {
		return nil
	}

	if err := w.taskSocket.Dial(w.config.TaskAddr); err != nil {
		return fmt.Errorf("failed to dial %s: %w", w.config.TaskAddr, err)
	}
	if err := w.taskSocket.SetRecvDeadline(w.config.RecvTimeout); err != nil {
		return err
	}
	if err := w.resultSocket.Dial(w.config.ResultAddr); err != nil {
		return fmt.Errorf("failed to dial %s: %w", w.config.ResultAddr, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.receiveLoop()

	w.logger.Info("worker started",
		logging.String("task_addr", w.config.TaskAddr),
		logging.Vertices(w.model.Size()))
	return nil
}

// Stop stops task processing and closes the sockets.
func (w *Worker) Stop() error {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopCh)
	w.running = false
	w.wg.Wait()
	w.taskSocket.Close()
	w.resultSocket.Close()

	w.logger.Info("worker stopped")
	return nil
}

func (w *Worker) receiveLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		data, err := w.taskSocket.Recv()
		if err != nil {
			continue // Timeout
		}

		msg, err := ParseMessage(data)
		if err != nil {
			w.logger.Warn("discarding unparseable task", logging.Error(err))
			continue
		}
		if msg.Type != MsgTask {
			continue
		}

		var task sweep.Task
		if err := msg.Decode(&task); err != nil {
			w.logger.Warn("discarding malformed task", logging.Error(err))
			continue
		}

		w.report(w.execute(task))
	}
}

// execute runs one detection task against the local model.
func (w *Worker) execute(task sweep.Task) ResultPayload {
	w.metrics.SweepActiveWorkers.Inc()
	defer w.metrics.SweepActiveWorkers.Dec()

	opts := task.Options
	opts.Logger = w.logger.With(logging.TaskID(task.ID))

	start := time.Now()
	result, err := genetic.Detect(w.model, opts)
	duration := time.Since(start)

	payload := ResultPayload{
		TaskID:          task.ID,
		Ordinal:         task.Ordinal,
		WorkerID:        w.config.WorkerID,
		Seed:            task.Options.Seed,
		DurationSeconds: duration.Seconds(),
	}
	if err != nil {
		payload.Error = err.Error()
		w.metrics.RecordSweepTask("error", duration)
		w.logger.Warn("task failed", logging.TaskID(task.ID), logging.Error(err))
		return payload
	}

	payload.BestFitness = result.BestFitness
	payload.Communities = result.Communities
	payload.Generations = result.Generations
	w.metrics.RecordSweepTask("ok", duration)
	w.logger.Info("task complete",
		logging.TaskID(task.ID),
		logging.Int("ordinal", task.Ordinal),
		logging.Fitness(result.BestFitness),
		logging.Duration("elapsed", duration))
	return payload
}

// report pushes a result back to the coordinator.
func (w *Worker) report(payload ResultPayload) {
	msg, err := NewMessage(MsgResult, payload)
	if err != nil {
		w.logger.Error("failed to encode result", logging.Error(err))
		return
	}
	data, err := msg.Encode()
	if err != nil {
		w.logger.Error("failed to encode result", logging.Error(err))
		return
	}
	if err := w.resultSocket.Send(data); err != nil {
		w.logger.Error("failed to push result", logging.TaskID(payload.TaskID), logging.Error(err))
	}
}
