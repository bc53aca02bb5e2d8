package domain

import (
	"context"
	"errors"
)

type fakeStore struct {
	catOrder  []string
	cats      map[string]Category
	taskOrder []string
	tasks     map[string]Task

	updateManyErr error
	counts        []TaskFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{cats: map[string]Category{}, tasks: map[string]Task{}}
}

func (f *fakeStore) ListCategories(ctx context.Context, limit int) ([]Category, error) {
	out := []Category{}
	for _, id := range f.catOrder {
		if len(out) == limit {
			break
		}
		out = append(out, f.cats[id])
	}
	return out, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, id string) (*Category, error) {
	c, ok := f.cats[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeStore) InsertCategory(ctx context.Context, c Category) error {
	if _, ok := f.cats[c.ID]; ok {
		return ErrConflict
	}
	f.catOrder = append(f.catOrder, c.ID)
	f.cats[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) (bool, error) {
	c, ok := f.cats[id]
	if !ok || c.IsDefault {
		return false, nil
	}
	delete(f.cats, id)
	f.catOrder = without(f.catOrder, id)
	return true, nil
}

func (f *fakeStore) ListTasks(ctx context.Context, filter TaskFilter, limit int) ([]Task, error) {
	out := []Task{}
	for _, id := range f.taskOrder {
		if len(out) == limit {
			break
		}
		if t := f.tasks[id]; filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTask(ctx context.Context, id string) (*Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeStore) InsertTask(ctx context.Context, t Task) error {
	if _, ok := f.tasks[t.ID]; ok {
		return ErrConflict
	}
	f.taskOrder = append(f.taskOrder, t.ID)
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, id string, c TaskChanges) (*Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	c.Apply(&t)
	f.tasks[id] = t
	return &t, nil
}

func (f *fakeStore) UpdateTasks(ctx context.Context, filter TaskFilter, c TaskChanges) (int, error) {
	if f.updateManyErr != nil {
		return 0, f.updateManyErr
	}
	n := 0
	for id, t := range f.tasks {
		if !filter.Matches(t) {
			continue
		}
		c.Apply(&t)
		f.tasks[id] = t
		n++
	}
	return n, nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, id string) (bool, error) {
	if _, ok := f.tasks[id]; !ok {
		return false, nil
	}
	delete(f.tasks, id)
	f.taskOrder = without(f.taskOrder, id)
	return true, nil
}

func (f *fakeStore) CountTasks(ctx context.Context, filter TaskFilter) (int, error) {
	f.counts = append(f.counts, filter)
	n := 0
	for _, t := range f.tasks {
		if filter.Matches(t) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev Event) error {
	p.events = append(p.events, ev)
	return p.err
}

var errBoom = errors.New("boom")
