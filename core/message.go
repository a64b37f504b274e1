package core

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind categorizes inter-worker messages.
type MessageKind string

const (
	// KindTask asks the receiver to perform work.
	KindTask MessageKind = "task"
	// KindResult carries the outcome of a task back to the requester.
	KindResult MessageKind = "result"
	// KindQuery requests information without side effects.
	KindQuery MessageKind = "query"
)

// Message is the unit of inter-worker communication. It is created by the
// sender and exclusively consumed by the receiver. After routing begins the
// only mutation is the Sender field, which the sending worker stamps just
// before dispatch.
type Message struct {
	ID            string      `json:"id"`
	CorrelationID string      `json:"correlation_id,omitempty"` // ID of the message this one answers
	Sender        string      `json:"sender"`
	Receiver      string      `json:"receiver"`
	Payload       any         `json:"payload"`
	Kind          MessageKind `json:"kind"`
	Timestamp     time.Time   `json:"timestamp"`
}

// NewMessage creates a message addressed to receiver. The sender field is
// stamped later, at dispatch time.
func NewMessage(receiver string, payload any, kind MessageKind) Message {
	return Message{
		ID:        uuid.NewString()[:8],
		Receiver:  receiver,
		Payload:   payload,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}

// Reply builds a message back to this message's sender, correlated to it so
// routers can match responses to outstanding tasks.
func (m Message) Reply(payload any, kind MessageKind) Message {
	reply := NewMessage(m.Sender, payload, kind)
	reply.CorrelationID = m.ID
	return reply
}
