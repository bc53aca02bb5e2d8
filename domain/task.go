package domain

import "time"

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Priority ranks tasks on the board.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TimestampLayout renders UTC instants as ISO-8601 with an explicit offset.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Task represents a single board item.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	CategoryID  *string  `json:"category_id"`
	DueDate     *string  `json:"due_date"`
	CreatedAt   string   `json:"created_at"`
	CompletedAt *string  `json:"completed_at"`
}

// TaskCreate is the payload accepted when creating a task.
type TaskCreate struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Status      Status   `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    Priority `json:"priority" validate:"omitempty,oneof=high medium low"`
	CategoryID  *string  `json:"category_id"`
	DueDate     *string  `json:"due_date"`
}

// NewTask builds a task from the create payload, applying defaults.
// CompletedAt always starts empty, whatever the initial status is.
func NewTask(id string, in TaskCreate, now time.Time) Task {
	t := Task{
		ID:        id,
		Title:     in.Title,
		Status:    in.Status,
		Priority:  in.Priority,
		CreatedAt: FormatTimestamp(now),
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		t.CategoryID = ptr(*in.CategoryID)
	}
	if in.DueDate != nil && *in.DueDate != "" {
		t.DueDate = ptr(*in.DueDate)
	}
	return t
}

// TaskPatch is a partial task update as sent by clients. A nil field is
// absent; empty strings are treated as absent as well, so text fields cannot
// be cleared through an update.
type TaskPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *Status   `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    *Priority `json:"priority" validate:"omitempty,oneof=high medium low"`
	CategoryID  *string   `json:"category_id"`
	DueDate     *string   `json:"due_date"`
}

// Changes resolves the patch into the set of field writes, deriving
// completed_at from the status when one is supplied.
func (p TaskPatch) Changes(now time.Time) TaskChanges {
	var c TaskChanges
	c.Title = nonEmpty(p.Title)
	c.Description = nonEmpty(p.Description)
	c.CategoryID = nonEmpty(p.CategoryID)
	c.DueDate = nonEmpty(p.DueDate)
	if p.Status != nil && *p.Status != "" {
		st := *p.Status
		c.Status = &st
		if st == StatusDone {
			c.CompletedAt = ptr(FormatTimestamp(now))
		} else {
			c.ClearCompletedAt = true
		}
	}
	if p.Priority != nil && *p.Priority != "" {
		pr := *p.Priority
		c.Priority = &pr
	}
	return c
}

// TaskChanges is the set of field writes applied to stored tasks in one
// single-document update.
type TaskChanges struct {
	Title            *string
	Description      *string
	Status           *Status
	Priority         *Priority
	CategoryID       *string
	DueDate          *string
	CompletedAt      *string
	ClearCompletedAt bool
	ClearCategory    bool
}

// IsEmpty reports whether the changes would not modify anything.
func (c TaskChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Status == nil && c.Priority == nil &&
		c.CategoryID == nil && c.DueDate == nil && c.CompletedAt == nil &&
		!c.ClearCompletedAt && !c.ClearCategory
}

// Apply writes the changes into t.
func (c TaskChanges) Apply(t *Task) {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Status != nil {
		t.Status = *c.Status
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.CategoryID != nil {
		t.CategoryID = ptr(*c.CategoryID)
	}
	if c.ClearCategory {
		t.CategoryID = nil
	}
	if c.DueDate != nil {
		t.DueDate = ptr(*c.DueDate)
	}
	if c.CompletedAt != nil {
		t.CompletedAt = ptr(*c.CompletedAt)
	}
	if c.ClearCompletedAt {
		t.CompletedAt = nil
	}
}

// TaskFilter selects tasks by equality on the set fields. Zero values impose
// no constraint. StatusNot excludes tasks in that status.
type TaskFilter struct {
	Status     Status
	Priority   Priority
	CategoryID string
	StatusNot  Status
}

// Matches reports whether t satisfies every constraint of f.
func (f TaskFilter) Matches(t Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.CategoryID != "" && (t.CategoryID == nil || *t.CategoryID != f.CategoryID) {
		return false
	}
	if f.StatusNot != "" && t.Status == f.StatusNot {
		return false
	}
	return true
}

// TaskQuery carries the list filters accepted on the HTTP boundary.
type TaskQuery struct {
	Status     string `query:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority   string `query:"priority" validate:"omitempty,oneof=high medium low"`
	CategoryID string `query:"category_id"`
}

// Filter converts the query into a store filter.
func (q TaskQuery) Filter() TaskFilter {
	return TaskFilter{
		Status:     Status(q.Status),
		Priority:   Priority(q.Priority),
		CategoryID: q.CategoryID,
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return ptr(*s)
}

func ptr[T any](v T) *T { return &v }
