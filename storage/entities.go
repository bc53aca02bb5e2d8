package storage

import "taskboard-api/domain"

const (
	taskPartition     = "task"
	categoryPartition = "category"
)

// entityKeys carries the table keys of a stored entity.
type entityKeys struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
}

type taskEntity struct {
	entityKeys
	Title       string  `json:"Title"`
	Description string  `json:"Description"`
	Status      string  `json:"Status"`
	Priority    string  `json:"Priority"`
	CategoryID  *string `json:"CategoryID,omitempty"`
	DueDate     *string `json:"DueDate,omitempty"`
	CreatedAt   string  `json:"CreatedAt"`
	CompletedAt *string `json:"CompletedAt,omitempty"`
}

func newTaskEntity(t domain.Task) taskEntity {
	return taskEntity{
		entityKeys:  entityKeys{PartitionKey: taskPartition, RowKey: t.ID},
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CategoryID:  t.CategoryID,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func (e taskEntity) task() domain.Task {
	return domain.Task{
		ID:          e.RowKey,
		Title:       e.Title,
		Description: e.Description,
		Status:      domain.Status(e.Status),
		Priority:    domain.Priority(e.Priority),
		CategoryID:  e.CategoryID,
		DueDate:     e.DueDate,
		CreatedAt:   e.CreatedAt,
		CompletedAt: e.CompletedAt,
	}
}

type categoryEntity struct {
	entityKeys
	Name      string `json:"Name"`
	Color     string `json:"Color"`
	IsDefault bool   `json:"IsDefault"`
}

func newCategoryEntity(c domain.Category) categoryEntity {
	return categoryEntity{
		entityKeys: entityKeys{PartitionKey: categoryPartition, RowKey: c.ID},
		Name:       c.Name,
		Color:      c.Color,
		IsDefault:  c.IsDefault,
	}
}

func (e categoryEntity) category() domain.Category {
	return domain.Category{ID: e.RowKey, Name: e.Name, Color: e.Color, IsDefault: e.IsDefault}
}
