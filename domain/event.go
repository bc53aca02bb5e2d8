package domain

import "context"

// Event types published after successful mutations.
const (
	TaskCreated     = "task-created"
	TaskUpdated     = "task-updated"
	TaskDeleted     = "task-deleted"
	CategoryCreated = "category-created"
	CategoryDeleted = "category-deleted"

	entityTask     = "task"
	entityCategory = "category"
)

// Event describes a change to a task or category.
type Event struct {
	ID         string `json:"id"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Type       string `json:"type"`
	Data       any    `json:"data,omitempty"`
	Time       int64  `json:"time"`
}

// Publisher delivers change events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
