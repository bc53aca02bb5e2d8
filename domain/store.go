package domain

import "context"

// CategoryStore persists categories.
type CategoryStore interface {
	ListCategories(ctx context.Context, limit int) ([]Category, error)
	// GetCategory returns nil when no category has the id.
	GetCategory(ctx context.Context, id string) (*Category, error)
	// InsertCategory fails with ErrConflict when the id is taken.
	InsertCategory(ctx context.Context, c Category) error
	// DeleteCategory removes the category unless it is a default one and
	// reports whether anything was removed.
	DeleteCategory(ctx context.Context, id string) (bool, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	ListTasks(ctx context.Context, f TaskFilter, limit int) ([]Task, error)
	// GetTask returns nil when no task has the id.
	GetTask(ctx context.Context, id string) (*Task, error)
	InsertTask(ctx context.Context, t Task) error
	// UpdateTask applies the changes to one task and returns the stored
	// result, or nil when no task has the id.
	UpdateTask(ctx context.Context, id string, c TaskChanges) (*Task, error)
	// UpdateTasks applies the changes to every task matching f and returns
	// how many were modified.
	UpdateTasks(ctx context.Context, f TaskFilter, c TaskChanges) (int, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	CountTasks(ctx context.Context, f TaskFilter) (int, error)
}

// Store is implemented by backends holding both collections.
type Store interface {
	CategoryStore
	TaskStore
	Ping(ctx context.Context) error
}
