package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CategoryListLimit caps the number of categories returned by a listing.
const CategoryListLimit = 100

// CategoryService manages categories and their effect on tasks.
type CategoryService struct {
	categories CategoryStore
	tasks      TaskStore
	events     Publisher
	log        *log.Logger
	newID      func() string
	now        func() time.Time
}

// NewCategoryService creates a CategoryService. A nil publisher disables
// change events and a nil logger falls back to the standard logger.
func NewCategoryService(categories CategoryStore, tasks TaskStore, events Publisher, logger *log.Logger) *CategoryService {
	if categories == nil || tasks == nil {
		panic("domain.NewCategoryService: stores are required")
	}
	if events == nil {
		events = noopPublisher{}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &CategoryService{
		categories: categories,
		tasks:      tasks,
		events:     events,
		log:        logger,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// List returns the stored categories.
func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	cats, err := s.categories.ListCategories(ctx, CategoryListLimit)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []Category{}
	}
	return cats, nil
}

// Get returns a single category.
func (s *CategoryService) Get(ctx context.Context, id string) (Category, error) {
	c, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if c == nil {
		return Category{}, ErrNotFound
	}
	return *c, nil
}

// Create validates the input and stores a new client category.
func (s *CategoryService) Create(ctx context.Context, in CategoryCreate) (Category, error) {
	return s.CreateWithID(ctx, s.newID(), in)
}

// CreateWithID stores a new client category under a caller chosen id.
func (s *CategoryService) CreateWithID(ctx context.Context, id string, in CategoryCreate) (Category, error) {
	if err := Validate(in); err != nil {
		return Category{}, err
	}
	c := NewCategory(id, in)
	if err := s.categories.InsertCategory(ctx, c); err != nil {
		return Category{}, err
	}
	publish(ctx, s.events, s.log, s.now(), entityCategory, c.ID, CategoryCreated, c)
	return c, nil
}

// Delete removes a client category and detaches it from every task that
// references it. Default categories are reported as not found.
//
// The removal and the detach are separate store operations; a failure of the
// second is logged and does not change the outcome.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	deleted, err := s.categories.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	n, err := s.tasks.UpdateTasks(ctx, TaskFilter{CategoryID: id}, TaskChanges{ClearCategory: true})
	cascadedTasks.Add(float64(n))
	if err != nil {
		s.log.WithError(err).WithFields(log.Fields{"category": id, "detached": n}).Warn("category cascade incomplete")
	} else if n > 0 {
		s.log.WithFields(log.Fields{"category": id, "detached": n}).Debug("category detached from tasks")
	}
	publish(ctx, s.events, s.log, s.now(), entityCategory, id, CategoryDeleted, nil)
	return nil
}

// SeedDefaults inserts each default category that is not stored yet and
// returns how many were inserted. Running it again is a no-op.
func (s *CategoryService) SeedDefaults(ctx context.Context) (int, error) {
	inserted := 0
	for _, def := range DefaultCategories() {
		existing, err := s.categories.GetCategory(ctx, def.ID)
		if err != nil {
			return inserted, err
		}
		if existing != nil {
			continue
		}
		if err := s.categories.InsertCategory(ctx, def); err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	s.log.WithField("inserted", inserted).Info("default categories seeded")
	return inserted, nil
}

func publish(ctx context.Context, pub Publisher, logger *log.Logger, now time.Time, entityType, entityID, typ string, data any) {
	ev := Event{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Type:       typ,
		Data:       data,
		Time:       now.UnixNano(),
	}
	if err := pub.Publish(ctx, ev); err != nil {
		logger.WithError(err).WithFields(log.Fields{"entity": entityID, "type": typ}).Error("publish change event")
	}
}
