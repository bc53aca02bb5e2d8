package storage

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"

	"taskboard-api/domain"
)

const (
	maxPageSize       = 1000
	maxUpdateAttempts = 5
)

// Tables stores tasks and categories in Azure Table Storage, one table per
// collection with a single partition each.
type Tables struct {
	svc           *aztables.ServiceClient
	taskTable     *aztables.Client
	categoryTable *aztables.Client
	tableNames    []string
}

// New creates a Tables store from the given connection string.
func New(connStr, tasksTable, categoriesTable string) (*Tables, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute,
				RetryDelay:    time.Second,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, err
	}
	return &Tables{
		svc:           svc,
		taskTable:     svc.NewClient(tasksTable),
		categoryTable: svc.NewClient(categoriesTable),
		tableNames:    []string{tasksTable, categoriesTable},
	}, nil
}

// Bootstrap creates the tables when they do not exist yet.
func (s *Tables) Bootstrap(ctx context.Context) error {
	for _, name := range s.tableNames {
		_, err := s.svc.NewClient(name).CreateTable(ctx, nil)
		if err != nil {
			var respErr *azcore.ResponseError
			if !(errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists)) {
				return err
			}
		}
	}
	return nil
}

// Ping reads a single category to check the account is reachable.
func (s *Tables) Ping(ctx context.Context) error {
	filter := eq("PartitionKey", categoryPartition)
	top := int32(1)
	pager := s.categoryTable.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter, Top: &top})
	_, err := pager.NextPage(ctx)
	return err
}

// listEntities walks the pages of a filtered listing, handing every raw
// entity to fn until fn returns false or limit entities were seen.
func listEntities(ctx context.Context, table *aztables.Client, filter, sel string, limit int, fn func([]byte) (bool, error)) error {
	opts := &aztables.ListEntitiesOptions{Filter: &filter}
	if sel != "" {
		opts.Select = &sel
	}
	pageSize := int32(maxPageSize)
	if limit > 0 && limit < maxPageSize {
		pageSize = int32(limit)
	}
	opts.Top = &pageSize

	seen := 0
	pager := table.NewListEntitiesPager(opts)
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, e := range resp.Entities {
			more, err := fn(e)
			if err != nil {
				return err
			}
			seen++
			if !more || (limit > 0 && seen >= limit) {
				return nil
			}
		}
	}
	return nil
}

func (s *Tables) ListCategories(ctx context.Context, limit int) ([]domain.Category, error) {
	cats := []domain.Category{}
	err := listEntities(ctx, s.categoryTable, eq("PartitionKey", categoryPartition), "", limit, func(raw []byte) (bool, error) {
		var ent categoryEntity
		if err := sonic.Unmarshal(raw, &ent); err != nil {
			return false, err
		}
		cats = append(cats, ent.category())
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *Tables) getCategory(ctx context.Context, id string) (*categoryEntity, azcore.ETag, error) {
	resp, err := s.categoryTable.GetEntity(ctx, categoryPartition, id, nil)
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return nil, "", nil
		}
		return nil, "", err
	}
	var ent categoryEntity
	if err := sonic.Unmarshal(resp.Value, &ent); err != nil {
		return nil, "", err
	}
	return &ent, resp.ETag, nil
}

func (s *Tables) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	ent, _, err := s.getCategory(ctx, id)
	if err != nil || ent == nil {
		return nil, err
	}
	c := ent.category()
	return &c, nil
}

func (s *Tables) InsertCategory(ctx context.Context, c domain.Category) error {
	payload, err := sonic.Marshal(newCategoryEntity(c))
	if err != nil {
		return err
	}
	if _, err := s.categoryTable.AddEntity(ctx, payload, nil); err != nil {
		if hasStatus(err, http.StatusConflict) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// DeleteCategory removes a non-default category. The delete is conditioned
// on the ETag read with the default flag, so a concurrent replace is retried.
func (s *Tables) DeleteCategory(ctx context.Context, id string) (bool, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		ent, etag, err := s.getCategory(ctx, id)
		if err != nil {
			return false, err
		}
		if ent == nil || ent.IsDefault {
			return false, nil
		}
		_, err = s.categoryTable.DeleteEntity(ctx, categoryPartition, id, &aztables.DeleteEntityOptions{IfMatch: &etag})
		switch {
		case err == nil:
			return true, nil
		case hasStatus(err, http.StatusNotFound):
			return false, nil
		case hasStatus(err, http.StatusPreconditionFailed):
			continue
		default:
			return false, err
		}
	}
	return false, domain.ErrConcurrencyConflict
}

func (s *Tables) ListTasks(ctx context.Context, f domain.TaskFilter, limit int) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := listEntities(ctx, s.taskTable, taskFilter(f), "", limit, func(raw []byte) (bool, error) {
		var ent taskEntity
		if err := sonic.Unmarshal(raw, &ent); err != nil {
			return false, err
		}
		tasks = append(tasks, ent.task())
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Tables) getTask(ctx context.Context, id string) (*domain.Task, azcore.ETag, error) {
	resp, err := s.taskTable.GetEntity(ctx, taskPartition, id, nil)
	if err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return nil, "", nil
		}
		return nil, "", err
	}
	var ent taskEntity
	if err := sonic.Unmarshal(resp.Value, &ent); err != nil {
		return nil, "", err
	}
	t := ent.task()
	return &t, resp.ETag, nil
}

func (s *Tables) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	t, _, err := s.getTask(ctx, id)
	return t, err
}

func (s *Tables) InsertTask(ctx context.Context, t domain.Task) error {
	payload, err := sonic.Marshal(newTaskEntity(t))
	if err != nil {
		return err
	}
	if _, err := s.taskTable.AddEntity(ctx, payload, nil); err != nil {
		if hasStatus(err, http.StatusConflict) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Tables) UpdateTask(ctx context.Context, id string, c domain.TaskChanges) (*domain.Task, error) {
	return s.updateTask(ctx, id, c, domain.TaskFilter{})
}

// updateTask replaces the stored task with the changes applied, provided it
// still matches f. Table merges cannot remove properties, so the whole entity
// is rewritten under its ETag and re-read when another writer got there first.
func (s *Tables) updateTask(ctx context.Context, id string, c domain.TaskChanges, f domain.TaskFilter) (*domain.Task, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		t, etag, err := s.getTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil || !f.Matches(*t) {
			return nil, nil
		}
		c.Apply(t)
		payload, err := sonic.Marshal(newTaskEntity(*t))
		if err != nil {
			return nil, err
		}
		_, err = s.taskTable.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{IfMatch: &etag, UpdateMode: aztables.UpdateModeReplace})
		switch {
		case err == nil:
			return t, nil
		case hasStatus(err, http.StatusNotFound):
			return nil, nil
		case hasStatus(err, http.StatusPreconditionFailed):
			continue
		default:
			return nil, err
		}
	}
	return nil, domain.ErrConcurrencyConflict
}

func (s *Tables) UpdateTasks(ctx context.Context, f domain.TaskFilter, c domain.TaskChanges) (int, error) {
	var ids []string
	err := listEntities(ctx, s.taskTable, taskFilter(f), "RowKey", 0, func(raw []byte) (bool, error) {
		var keys entityKeys
		if err := sonic.Unmarshal(raw, &keys); err != nil {
			return false, err
		}
		ids = append(ids, keys.RowKey)
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		t, err := s.updateTask(ctx, id, c, f)
		if err != nil {
			return n, err
		}
		if t != nil {
			n++
		}
	}
	return n, nil
}

func (s *Tables) DeleteTask(ctx context.Context, id string) (bool, error) {
	if _, err := s.taskTable.DeleteEntity(ctx, taskPartition, id, nil); err != nil {
		if hasStatus(err, http.StatusNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Tables) CountTasks(ctx context.Context, f domain.TaskFilter) (int, error) {
	n := 0
	err := listEntities(ctx, s.taskTable, taskFilter(f), "RowKey", 0, func([]byte) (bool, error) {
		n++
		return true, nil
	})
	return n, err
}

func hasStatus(err error, code int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == code
}
