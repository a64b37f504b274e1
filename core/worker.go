package core

import "context"

// Role identifies a worker's function in the hive. The set is open ended;
// these are the roles the stock workflow knows about.
type Role string

const (
	// RoleDispatcher is the central router and workflow sequencer.
	RoleDispatcher Role = "dispatcher"
	// RoleAnalysis marks workers that analyze shopper behavior.
	RoleAnalysis Role = "analysis"
	// RoleCampaign marks workers that create ad campaigns.
	RoleCampaign Role = "campaign"
)

// State is a worker's lifecycle state. Thinking and working are transient:
// a worker enters thinking on message receipt and returns to idle once its
// response, if any, has been dispatched. Working is reserved for
// implementations that model long-running multi-phase steps.
type State string

const (
	// StateIdle means the worker is waiting for messages.
	StateIdle State = "idle"
	// StateThinking means the worker is processing a received message.
	StateThinking State = "thinking"
	// StateWorking means the worker is executing a long-running step.
	StateWorking State = "working"
)

// SendFunc dispatches an outbound message. The dispatcher wires every
// registered worker's SendFunc to its own Route method so all traffic passes
// through the dispatcher (star topology); workers never address each other
// directly.
type SendFunc func(ctx context.Context, msg Message) error

// Stats is a snapshot of a worker's counters and state.
type Stats struct {
	WorkerID         string `json:"worker_id"`
	Role             Role   `json:"role"`
	State            State  `json:"state"`
	TasksCompleted   int    `json:"tasks_completed"`
	TasksFailed      int    `json:"tasks_failed"`
	MessagesSent     int    `json:"messages_sent"`
	MessagesReceived int    `json:"messages_received"`
}

// Worker is a logical participant that receives task messages and may
// produce result messages. A worker exists from registration until explicit
// shutdown; the dispatcher holds a non-owning reference used only for
// routing.
//
// Implementations must:
//   - Increment the received counter and enter thinking on Receive
//   - Dispatch any response through the configured SendFunc and count it
//   - Return to idle after Receive completes, response or not
//   - Produce no response (and no error) for unrecognized task payloads
type Worker interface {
	ID() string
	Role() Role
	State() State
	Receive(ctx context.Context, msg Message) error
	SetSendFunc(fn SendFunc)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Stats() Stats
}
