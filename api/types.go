package api

import (
	"context"

	"taskboard-api/domain"
)

// CategoryService is the category behaviour the handlers rely on.
type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id string) (domain.Category, error)
	CreateWithID(ctx context.Context, id string, in domain.CategoryCreate) (domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// TaskService is the task behaviour the handlers rely on.
type TaskService interface {
	List(ctx context.Context, q domain.TaskQuery) ([]domain.Task, error)
	Get(ctx context.Context, id string) (domain.Task, error)
	CreateWithID(ctx context.Context, id string, in domain.TaskCreate) (domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// StatsService computes the dashboard counters.
type StatsService interface {
	Get(ctx context.Context) (domain.Stats, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deduper remembers which entity a create request produced so that retries
// carrying the same idempotency key return it instead of creating another.
type Deduper interface {
	// Reserve records id under key when the key is new and returns (id, true).
	// Otherwise it returns the id recorded first and false.
	Reserve(ctx context.Context, scope, key, id string) (string, bool, error)
	// Release forgets a key, used when the create it guarded failed.
	Release(ctx context.Context, scope, key string) error
}

// Services bundles the dependencies of the HTTP handlers. Deduper is optional.
type Services struct {
	Categories CategoryService
	Tasks      TaskService
	Stats      StatsService
	Health     Pinger
	Deduper    Deduper
}
