package distrib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/egonetlab/egonet/pkg/logging"
	"github.com/egonetlab/egonet/pkg/sweep"
)

// CoordinatorConfig configures the task coordinator.
type CoordinatorConfig struct {
	// TaskAddr is the address tasks are pushed from, e.g. "tcp://*:7750".
	TaskAddr string

	// ResultAddr is the address results are pulled on, e.g. "tcp://*:7751".
	ResultAddr string

	// RecvTimeout is the polling interval while waiting for results.
	RecvTimeout time.Duration

	// SendTimeout bounds how long a task send waits for a worker.
	SendTimeout time.Duration
}

// DefaultCoordinatorConfig returns the default coordinator addresses.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		TaskAddr:    "tcp://*:7750",
		ResultAddr:  "tcp://*:7751",
		RecvTimeout: time.Second,
		SendTimeout: 30 * time.Second,
	}
}

// Coordinator fans sweep tasks out to workers and collects one result
// per task. Tasks round-robin across every connected worker.
type Coordinator struct {
	taskSocket   PipelineSocket
	resultSocket PipelineSocket
	config       CoordinatorConfig
	logger       logging.Logger
	running      bool
	runningMu    sync.Mutex
}

// NewCoordinator creates a coordinator with sockets from the factory.
func NewCoordinator(factory SocketFactory, config CoordinatorConfig, logger logging.Logger) (*Coordinator, error) {
	if config.RecvTimeout <= 0 {
		config.RecvTimeout = time.Second
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	taskSocket, err := factory.NewPushSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create task socket: %w", err)
	}
	resultSocket, err := factory.NewPullSocket()
	if err != nil {
		taskSocket.Close()
		return nil, fmt.Errorf("failed to create result socket: %w", err)
	}

	return &Coordinator{
		taskSocket:   taskSocket,
		resultSocket: resultSocket,
		config:       config,
		logger:       logger.With(logging.Component("coordinator")),
	}, nil
}

// Start binds the task and result sockets.
func (c *Coordinator) Start() error {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()

	if c.running {
		return nil
	}

	if err := c.taskSocket.Listen(c.config.TaskAddr); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.config.TaskAddr, err)
	}
	if err := c.taskSocket.SetSendDeadline(c.config.SendTimeout); err != nil {
		return err
	}
	if err := c.resultSocket.Listen(c.config.ResultAddr); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.config.ResultAddr, err)
	}
	if err := c.resultSocket.SetRecvDeadline(c.config.RecvTimeout); err != nil {
		return err
	}

	c.running = true
	c.logger.Info("coordinator started",
		logging.String("task_addr", c.config.TaskAddr),
		logging.String("result_addr", c.config.ResultAddr))
	return nil
}

// Stop closes both sockets.
func (c *Coordinator) Stop() error {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()

	if !c.running {
		return nil
	}

	c.running = false
	c.taskSocket.Close()
	c.resultSocket.Close()
	c.logger.Info("coordinator stopped")
	return nil
}

// Distribute pushes every task to the worker pool and waits for one
// result per task. Results land in the slot of their ordinal, so late
// duplicates cannot clobber other tasks. Cancelling the context aborts
// the wait.
func (c *Coordinator) Distribute(ctx context.Context, tasks []sweep.Task) ([]ResultPayload, error) {
	c.runningMu.Lock()
	running := c.running
	c.runningMu.Unlock()
	if !running {
		return nil, fmt.Errorf("coordinator not running")
	}

	c.logger.Info("distributing tasks", logging.Count(len(tasks)))
	for _, task := range tasks {
		msg, err := NewMessage(MsgTask, task)
		if err != nil {
			return nil, fmt.Errorf("failed to encode task %s: %w", task.ID, err)
		}
		data, err := msg.Encode()
		if err != nil {
			return nil, fmt.Errorf("failed to encode task %s: %w", task.ID, err)
		}
		if err := c.taskSocket.Send(data); err != nil {
			return nil, fmt.Errorf("failed to push task %s: %w", task.ID, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	results := make([]ResultPayload, len(tasks))
	received := make([]bool, len(tasks))
	remaining := len(tasks)

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := c.resultSocket.Recv()
		if err != nil {
			continue // Timeout
		}

		msg, err := ParseMessage(data)
		if err != nil {
			c.logger.Warn("discarding unparseable result", logging.Error(err))
			continue
		}
		if msg.Type != MsgResult {
			continue
		}

		var payload ResultPayload
		if err := msg.Decode(&payload); err != nil {
			c.logger.Warn("discarding malformed result", logging.Error(err))
			continue
		}
		if payload.Ordinal < 0 || payload.Ordinal >= len(tasks) || received[payload.Ordinal] {
			continue
		}

		results[payload.Ordinal] = payload
		received[payload.Ordinal] = true
		remaining--
		c.logger.Debug("result received",
			logging.TaskID(payload.TaskID),
			logging.String("worker", payload.WorkerID),
			logging.Fitness(payload.BestFitness),
			logging.Int("remaining", remaining))
	}

	c.logger.Info("all results collected", logging.Count(len(results)))
	return results, nil
}
