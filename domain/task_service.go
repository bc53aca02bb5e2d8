package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TaskListLimit caps the number of tasks returned by a listing.
const TaskListLimit = 1000

// TaskService manages tasks.
type TaskService struct {
	st     TaskStore
	events Publisher
	log    *log.Logger
	newID  func() string
	now    func() time.Time
}

// NewTaskService creates a TaskService. A nil publisher disables change
// events and a nil logger falls back to the standard logger.
func NewTaskService(st TaskStore, events Publisher, logger *log.Logger) *TaskService {
	if st == nil {
		panic("domain.NewTaskService: store is required")
	}
	if events == nil {
		events = noopPublisher{}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &TaskService{st: st, events: events, log: logger, newID: uuid.NewString, now: time.Now}
}

// List returns the tasks matching every filter present in q.
func (s *TaskService) List(ctx context.Context, q TaskQuery) ([]Task, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}
	tasks, err := s.st.ListTasks(ctx, q.Filter(), TaskListLimit)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Get returns a single task.
func (s *TaskService) Get(ctx context.Context, id string) (Task, error) {
	t, err := s.st.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if t == nil {
		return Task{}, ErrNotFound
	}
	return *t, nil
}

// Create validates the input and stores a new task.
func (s *TaskService) Create(ctx context.Context, in TaskCreate) (Task, error) {
	return s.CreateWithID(ctx, s.newID(), in)
}

// CreateWithID stores a new task under a caller chosen id.
func (s *TaskService) CreateWithID(ctx context.Context, id string, in TaskCreate) (Task, error) {
	if err := Validate(in); err != nil {
		return Task{}, err
	}
	t := NewTask(id, in, s.now())
	if err := s.st.InsertTask(ctx, t); err != nil {
		return Task{}, err
	}
	publish(ctx, s.events, s.log, s.now(), entityTask, t.ID, TaskCreated, t)
	return t, nil
}

// Update applies a partial update. Setting the status to done stamps
// completed_at, any other status clears it.
func (s *TaskService) Update(ctx context.Context, id string, patch TaskPatch) (Task, error) {
	if err := Validate(patch); err != nil {
		return Task{}, err
	}
	changes := patch.Changes(s.now())
	if changes.IsEmpty() {
		return Task{}, ErrNothingToUpdate
	}
	t, err := s.st.UpdateTask(ctx, id, changes)
	if err != nil {
		return Task{}, err
	}
	if t == nil {
		return Task{}, ErrNotFound
	}
	publish(ctx, s.events, s.log, s.now(), entityTask, t.ID, TaskUpdated, t)
	return *t, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	deleted, err := s.st.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	publish(ctx, s.events, s.log, s.now(), entityTask, id, TaskDeleted, nil)
	return nil
}
