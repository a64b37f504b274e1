package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/getadhive/adhive/core"
	"github.com/getadhive/adhive/logging"
	"github.com/getadhive/adhive/worker"
)

// ErrUnknownReceiver is returned by Route when a message addresses a worker
// that was never registered. The message is not delivered; routing failures
// are observable but never fatal.
var ErrUnknownReceiver = errors.New("unknown receiver")

// DefaultStepTimeout bounds how long a workflow waits for one step's result.
const DefaultStepTimeout = 30 * time.Second

// Options configures a Dispatcher.
type Options struct {
	// ID is the dispatcher's worker identifier.
	ID string

	// StepTimeout bounds the wait for each workflow step's completion
	// signal; expiry is a step failure, not a false success.
	StepTimeout time.Duration

	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Dispatcher is the central router and workflow sequencer. It owns the
// worker registry, wires every registered worker's outbound callback to its
// own Route method (star topology) and correlates result messages back to
// awaiting workflow steps.
//
// The registry is written only at registration time, before routing begins,
// and read thereafter.
type Dispatcher struct {
	*worker.Base

	logger      logging.Logger
	stepTimeout time.Duration

	mu       sync.Mutex
	registry map[string]core.Worker
	order    []string // registration order, used for role lookup
	pending  map[string]chan core.Message

	workflowsCompleted int
	workflowsFailed    int
}

// New constructs a Dispatcher. The dispatcher itself satisfies core.Worker
// but processes no task messages directly; its job is routing and
// sequencing.
func New(optFns ...func(o *Options)) *Dispatcher {
	opts := Options{
		ID:          "dispatcher_001",
		StepTimeout: DefaultStepTimeout,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	d := &Dispatcher{
		Base:        worker.NewBase(opts.ID, core.RoleDispatcher, "central router and workflow sequencer", opts.Logger),
		logger:      opts.Logger,
		stepTimeout: opts.StepTimeout,
		registry:    make(map[string]core.Worker),
		pending:     make(map[string]chan core.Message),
	}

	// The dispatcher's own outbound traffic also flows through Route, so
	// send counters stay accurate for every participant.
	d.SetSendFunc(d.Route)

	return d
}

// Register adds a worker to the registry and wires its outbound send
// callback to Route. Registration must complete before routing begins.
func (d *Dispatcher) Register(w core.Worker) {
	d.mu.Lock()
	d.registry[w.ID()] = w
	d.order = append(d.order, w.ID())
	d.mu.Unlock()

	w.SetSendFunc(d.Route)
	d.logger.Info("worker registered", "worker_id", w.ID(), "role", w.Role())
}

// Route delivers a message to its receiver. Result messages addressed to the
// dispatcher that correlate to an awaiting workflow step resolve that step
// instead of going through Receive. An unregistered receiver yields
// ErrUnknownReceiver with no delivery.
func (d *Dispatcher) Route(ctx context.Context, msg core.Message) error {
	if msg.Kind == core.KindResult && msg.Receiver == d.ID() {
		if d.resolvePending(msg) {
			return nil
		}
	}

	d.mu.Lock()
	w, ok := d.registry[msg.Receiver]
	d.mu.Unlock()

	if !ok {
		d.logger.Warn("message dropped", "receiver", msg.Receiver, "message_id", msg.ID)
		return fmt.Errorf("%w: %s", ErrUnknownReceiver, msg.Receiver)
	}

	return w.Receive(ctx, msg)
}

// resolvePending hands a correlated result to its waiting step, if any.
func (d *Dispatcher) resolvePending(msg core.Message) bool {
	d.mu.Lock()
	ch, ok := d.pending[msg.CorrelationID]
	if ok {
		delete(d.pending, msg.CorrelationID)
	}
	d.mu.Unlock()

	if !ok {
		return false
	}

	ch <- msg // buffered, never blocks
	return true
}

// dispatchAndWait routes a task message and blocks until the correlated
// result arrives, the step timeout expires or the context is cancelled. The
// message ID is the correlation token.
func (d *Dispatcher) dispatchAndWait(ctx context.Context, msg core.Message) (core.Message, error) {
	ch := make(chan core.Message, 1)

	d.mu.Lock()
	d.pending[msg.ID] = ch
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.pending, msg.ID)
		d.mu.Unlock()
	}()

	if err := d.Send(ctx, msg); err != nil {
		return core.Message{}, err
	}

	select {
	case reply := <-ch:
		return reply, nil
	case <-time.After(d.stepTimeout):
		return core.Message{}, fmt.Errorf("timed out after %s waiting for %s", d.stepTimeout, msg.Receiver)
	case <-ctx.Done():
		return core.Message{}, ctx.Err()
	}
}

// findByRole returns the first registered worker with the given role, in
// registration order. Deployments that register multiple workers per role
// should address them by ID instead.
func (d *Dispatcher) findByRole(role core.Role) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range d.order {
		if d.registry[id].Role() == role {
			return id, true
		}
	}
	return "", false
}

// HiveStatus is a snapshot of the dispatcher and every registered worker.
type HiveStatus struct {
	DispatcherID       string       `json:"dispatcher_id"`
	TotalWorkers       int          `json:"total_workers"`
	WorkflowsCompleted int          `json:"workflows_completed"`
	WorkflowsFailed    int          `json:"workflows_failed"`
	Workers            []core.Stats `json:"workers"`
}

// Status returns the current hive snapshot.
func (d *Dispatcher) Status() HiveStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	workers := make([]core.Stats, 0, len(d.order))
	for _, id := range d.order {
		workers = append(workers, d.registry[id].Stats())
	}

	return HiveStatus{
		DispatcherID:       d.ID(),
		TotalWorkers:       len(d.order),
		WorkflowsCompleted: d.workflowsCompleted,
		WorkflowsFailed:    d.workflowsFailed,
		Workers:            workers,
	}
}
