package storage

import (
	"context"
	"sync"

	"taskboard-api/domain"
)

// Memory is an in-process document store keeping insertion order. It backs
// local runs and tests.
type Memory struct {
	mu         sync.RWMutex
	categories collection[domain.Category]
	tasks      collection[domain.Task]
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		categories: newCollection[domain.Category](),
		tasks:      newCollection[domain.Task](),
	}
}

type collection[T any] struct {
	order []string
	docs  map[string]T
}

func newCollection[T any]() collection[T] {
	return collection[T]{docs: map[string]T{}}
}

func (c *collection[T]) insert(id string, doc T) bool {
	if _, ok := c.docs[id]; ok {
		return false
	}
	c.order = append(c.order, id)
	c.docs[id] = doc
	return true
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.docs[id]; !ok {
		return false
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// find walks the documents in insertion order until fn returns false.
func (c *collection[T]) find(fn func(id string, doc T) bool) {
	for _, id := range c.order {
		if !fn(id, c.docs[id]) {
			return
		}
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) ListCategories(_ context.Context, limit int) ([]domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Category{}
	m.categories.find(func(_ string, c domain.Category) bool {
		out = append(out, c)
		return limit <= 0 || len(out) < limit
	})
	return out, nil
}

func (m *Memory) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories.docs[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *Memory) InsertCategory(_ context.Context, c domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.categories.insert(c.ID, c) {
		return domain.ErrConflict
	}
	return nil
}

func (m *Memory) DeleteCategory(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories.docs[id]
	if !ok || c.IsDefault {
		return false, nil
	}
	return m.categories.remove(id), nil
}

func (m *Memory) ListTasks(_ context.Context, f domain.TaskFilter, limit int) ([]domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Task{}
	m.tasks.find(func(_ string, t domain.Task) bool {
		if f.Matches(t) {
			out = append(out, cloneTask(t))
		}
		return limit <= 0 || len(out) < limit
	})
	return out, nil
}

func (m *Memory) GetTask(_ context.Context, id string) (*domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks.docs[id]
	if !ok {
		return nil, nil
	}
	t = cloneTask(t)
	return &t, nil
}

func (m *Memory) InsertTask(_ context.Context, t domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.tasks.insert(t.ID, cloneTask(t)) {
		return domain.ErrConflict
	}
	return nil
}

func (m *Memory) UpdateTask(_ context.Context, id string, c domain.TaskChanges) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks.docs[id]
	if !ok {
		return nil, nil
	}
	c.Apply(&t)
	m.tasks.docs[id] = t
	t = cloneTask(t)
	return &t, nil
}

func (m *Memory) UpdateTasks(_ context.Context, f domain.TaskFilter, c domain.TaskChanges) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range m.tasks.order {
		t := m.tasks.docs[id]
		if !f.Matches(t) {
			continue
		}
		c.Apply(&t)
		m.tasks.docs[id] = t
		n++
	}
	return n, nil
}

func (m *Memory) DeleteTask(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks.remove(id), nil
}

func (m *Memory) CountTasks(_ context.Context, f domain.TaskFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.tasks.docs {
		if f.Matches(t) {
			n++
		}
	}
	return n, nil
}

func cloneTask(t domain.Task) domain.Task {
	t.CategoryID = cloneString(t.CategoryID)
	t.DueDate = cloneString(t.DueDate)
	t.CompletedAt = cloneString(t.CompletedAt)
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
