package domain

import (
	"errors"
	"testing"
	"time"
)

func ptrString(s string) *string { return &s }

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 123456000, time.UTC)

func TestFormatTimestamp(t *testing.T) {
	got := FormatTimestamp(fixedNow.In(time.FixedZone("CET", 3600)))
	if got != "2024-03-01T12:30:00.123456+00:00" {
		t.Fatalf("unexpected timestamp: %s", got)
	}
}

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("t1", TaskCreate{Title: "Write code"}, fixedNow)
	if task.Status != StatusTodo || task.Priority != PriorityMedium {
		t.Fatalf("unexpected defaults: %#v", task)
	}
	if task.Description != "" || task.CategoryID != nil || task.DueDate != nil || task.CompletedAt != nil {
		t.Fatalf("unexpected optional fields: %#v", task)
	}
	if task.CreatedAt != FormatTimestamp(fixedNow) {
		t.Fatalf("unexpected created_at: %s", task.CreatedAt)
	}
}

func TestNewTaskDoneDoesNotSetCompletedAt(t *testing.T) {
	task := NewTask("t1", TaskCreate{Title: "x", Status: StatusDone, CategoryID: ptrString("cat-work")}, fixedNow)
	if task.Status != StatusDone {
		t.Fatalf("expected done status, got %s", task.Status)
	}
	if task.CompletedAt != nil {
		t.Fatalf("expected completed_at to stay empty, got %v", *task.CompletedAt)
	}
	if task.CategoryID == nil || *task.CategoryID != "cat-work" {
		t.Fatalf("unexpected category: %v", task.CategoryID)
	}
}

func TestTaskPatchChanges(t *testing.T) {
	done, todo := StatusDone, StatusTodo
	high := PriorityHigh

	tests := map[string]struct {
		patch       TaskPatch
		empty       bool
		completedAt bool
		clear       bool
	}{
		"empty":          {patch: TaskPatch{}, empty: true},
		"empty strings":  {patch: TaskPatch{Title: ptrString(""), Description: ptrString(""), DueDate: ptrString("")}, empty: true},
		"done stamps":    {patch: TaskPatch{Status: &done}, completedAt: true},
		"todo clears":    {patch: TaskPatch{Status: &todo}, clear: true},
		"title only":     {patch: TaskPatch{Title: ptrString("A2")}},
		"priority only":  {patch: TaskPatch{Priority: &high}},
		"category moved": {patch: TaskPatch{CategoryID: ptrString("cat-health")}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := tc.patch.Changes(fixedNow)
			if c.IsEmpty() != tc.empty {
				t.Fatalf("IsEmpty=%v, want %v (%#v)", c.IsEmpty(), tc.empty, c)
			}
			if (c.CompletedAt != nil) != tc.completedAt {
				t.Fatalf("unexpected CompletedAt: %v", c.CompletedAt)
			}
			if c.ClearCompletedAt != tc.clear {
				t.Fatalf("unexpected ClearCompletedAt: %v", c.ClearCompletedAt)
			}
		})
	}
}

func TestTaskChangesApply(t *testing.T) {
	task := Task{ID: "t1", Title: "A", Status: StatusDone, CompletedAt: ptrString("then"), CategoryID: ptrString("c1")}

	TaskChanges{Title: ptrString("A2")}.Apply(&task)
	if task.Title != "A2" || task.CompletedAt == nil || *task.CompletedAt != "then" {
		t.Fatalf("title change touched completion: %#v", task)
	}

	TaskChanges{ClearCompletedAt: true, ClearCategory: true}.Apply(&task)
	if task.CompletedAt != nil || task.CategoryID != nil {
		t.Fatalf("expected cleared fields: %#v", task)
	}
}

func TestTaskFilterMatches(t *testing.T) {
	task := Task{Status: StatusTodo, Priority: PriorityHigh, CategoryID: ptrString("c1")}

	tests := map[string]struct {
		filter TaskFilter
		want   bool
	}{
		"no constraints":     {TaskFilter{}, true},
		"status and prio":    {TaskFilter{Status: StatusTodo, Priority: PriorityHigh}, true},
		"status mismatch":    {TaskFilter{Status: StatusDone, Priority: PriorityHigh}, false},
		"category":           {TaskFilter{CategoryID: "c1"}, true},
		"other category":     {TaskFilter{CategoryID: "c2"}, false},
		"excluded status":    {TaskFilter{StatusNot: StatusTodo}, false},
		"open high priority": {TaskFilter{Priority: PriorityHigh, StatusNot: StatusDone}, true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.filter.Matches(task); got != tc.want {
				t.Fatalf("Matches=%v, want %v", got, tc.want)
			}
		})
	}

	if (TaskFilter{CategoryID: "c1"}).Matches(Task{}) {
		t.Fatal("task without category matched a category filter")
	}
}

func TestValidate(t *testing.T) {
	bad := StatusDone + "x"
	tests := map[string]struct {
		in   any
		want string
	}{
		"missing title": {TaskCreate{}, "title is required"},
		"bad status":    {TaskCreate{Title: "t", Status: "later"}, "status must be one of: todo in_progress done"},
		"bad patch":     {TaskPatch{Status: &bad}, "status must be one of: todo in_progress done"},
		"bad query":     {TaskQuery{Priority: "urgent"}, "priority must be one of: high medium low"},
		"missing name":  {CategoryCreate{}, "name is required"},
		"bad color":     {CategoryCreate{Name: "x", Color: "blue"}, "color must be a hex color"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := Validate(tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Error() != tc.want {
				t.Fatalf("unexpected message %q", verr.Error())
			}
		})
	}

	if err := Validate(TaskCreate{Title: "ok", Status: StatusInProgress, Priority: PriorityLow}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if err := Validate(CategoryCreate{Name: "ok", Color: "#10B981"}); err != nil {
		t.Fatalf("valid category rejected: %v", err)
	}
}
