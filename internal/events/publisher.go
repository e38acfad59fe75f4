// Package events publishes todo mutation events to NATS JetStream so
// downstream consumers (projections, notifiers) can react without polling
// the API. Publishing is best-effort from the API's point of view.
package events

import (
	"encoding/json"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/todoflow-labs/todo-service/internal/todo"
)

const (
	Stream  = "todo_events"
	Subject = "todo.events"
)

// Event types.
const (
	TodoCreated = "todo.created"
	TodoUpdated = "todo.updated"
	TodoDeleted = "todo.deleted"
)

// Event is the wire shape published on Subject. Todo is omitted for
// deletions, where only the id survives.
type Event struct {
	Type string     `json:"type"`
	ID   string     `json:"id"`
	Todo *todo.Todo `json:"todo,omitempty"`
}

// Publisher emits mutation events. Implementations must not block the
// request path for long; errors are reported, not retried.
type Publisher interface {
	Publish(evt Event) error
}

// Noop discards every event. Used when NATS_URL is not configured.
type Noop struct{}

func (Noop) Publish(Event) error { return nil }

// JetStream publishes events to the todo_events stream.
type JetStream struct {
	js nats.JetStreamContext
}

func NewJetStream(js nats.JetStreamContext) *JetStream {
	return &JetStream{js: js}
}

func (p *JetStream) Publish(evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(Subject, data)
	return err
}

// EnsureStream creates the events stream if it does not exist yet.
func EnsureStream(js nats.JetStreamContext) error {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     Stream,
		Subjects: []string{Subject},
	})
	if err != nil && !strings.Contains(err.Error(), "file already in use") {
		return err
	}
	return nil
}

// Created builds a creation event.
func Created(t todo.Todo) Event {
	return Event{Type: TodoCreated, ID: t.ID, Todo: &t}
}

// Updated builds an update event.
func Updated(t todo.Todo) Event {
	return Event{Type: TodoUpdated, ID: t.ID, Todo: &t}
}

// Deleted builds a deletion event.
func Deleted(id string) Event {
	return Event{Type: TodoDeleted, ID: id}
}
