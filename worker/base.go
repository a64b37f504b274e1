package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/getadhive/adhive/core"
	"github.com/getadhive/adhive/logging"
)

// Base bundles the shared worker lifecycle: counters, state transitions and
// outbound dispatch. Embed it in concrete workers and register a handler to
// satisfy core.Worker. All exported methods are goroutine-safe.
type Base struct {
	id          string
	role        core.Role
	description string
	logger      logging.Logger

	mu               sync.Mutex
	state            core.State
	running          bool
	send             core.SendFunc
	handler          func(ctx context.Context, msg core.Message) (*core.Message, error)
	tasksCompleted   int
	tasksFailed      int
	messagesSent     int
	messagesReceived int
}

// NewBase constructs a Base in the idle state.
func NewBase(id string, role core.Role, description string, logger logging.Logger) *Base {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Base{
		id:          id,
		role:        role,
		description: description,
		logger:      logger,
		state:       core.StateIdle,
	}
}

// ID returns the worker identifier.
func (b *Base) ID() string { return b.id }

// Role returns the worker's role.
func (b *Base) Role() core.Role { return b.role }

// Description returns a short description of the worker's purpose.
func (b *Base) Description() string { return b.description }

// State returns the current lifecycle state.
func (b *Base) State() core.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// setHandler registers the task-specific handler invoked on message receipt.
// Concrete workers call this from their constructor.
func (b *Base) setHandler(fn func(ctx context.Context, msg core.Message) (*core.Message, error)) {
	b.handler = fn
}

// SetSendFunc wires the outbound dispatch callback. The dispatcher calls
// this at registration time, before any routing begins.
func (b *Base) SetSendFunc(fn core.SendFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = fn
}

// Start marks the worker as running.
func (b *Base) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return errors.New("worker is already running")
	}
	b.running = true
	b.logger.Info("worker started", "worker_id", b.id, "role", b.role)
	return nil
}

// Stop marks the worker as stopped.
func (b *Base) Stop(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return errors.New("worker is not running")
	}
	b.running = false
	b.logger.Info("worker stopped", "worker_id", b.id)
	return nil
}

// Receive implements the shared receipt sequence: count the message, enter
// thinking, run the handler, dispatch its response (if any), return to idle.
// Handlers that do not recognize a payload return (nil, nil) and no response
// is sent.
func (b *Base) Receive(ctx context.Context, msg core.Message) error {
	b.mu.Lock()
	b.messagesReceived++
	b.state = core.StateThinking
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.state = core.StateIdle
		b.mu.Unlock()
	}()

	if b.handler == nil {
		return nil
	}

	response, err := b.handler(ctx, msg)
	if err != nil {
		b.logger.Error("handler failed", "worker_id", b.id, "message_id", msg.ID, "error", err)
		return err
	}
	if response == nil {
		return nil
	}

	return b.Send(ctx, *response)
}

// Send stamps this worker as the sender and dispatches the message through
// the registered send callback, counting it on success.
func (b *Base) Send(ctx context.Context, msg core.Message) error {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()

	if send == nil {
		return fmt.Errorf("worker %s has no send callback registered", b.id)
	}

	msg.Sender = b.id
	if err := send(ctx, msg); err != nil {
		return err
	}

	b.mu.Lock()
	b.messagesSent++
	b.mu.Unlock()
	return nil
}

// MarkWorking transitions the worker into the working state. Intended for
// implementations that model long-running multi-phase steps between receipt
// and response; Receive still restores idle on completion.
func (b *Base) MarkWorking() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = core.StateWorking
}

// TaskCompleted increments the completed-task counter.
func (b *Base) TaskCompleted() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasksCompleted++
}

// TaskFailed increments the failed-task counter.
func (b *Base) TaskFailed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasksFailed++
}

// Stats returns a snapshot of the worker's counters and state.
func (b *Base) Stats() core.Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return core.Stats{
		WorkerID:         b.id,
		Role:             b.role,
		State:            b.state,
		TasksCompleted:   b.tasksCompleted,
		TasksFailed:      b.tasksFailed,
		MessagesSent:     b.messagesSent,
		MessagesReceived: b.messagesReceived,
	}
}
