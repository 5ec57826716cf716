package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// RepeatKind describes how often a recurring task repeats.
type RepeatKind string

// Supported repeat kinds.
const (
	RepeatKindNone    RepeatKind = "none"
	RepeatKindDaily   RepeatKind = "daily"
	RepeatKindWeekly  RepeatKind = "weekly"
	RepeatKindMonthly RepeatKind = "monthly"
)

// IsValid reports whether the repeat kind is one of the supported values.
func (k RepeatKind) IsValid() bool {
	switch k {
	case RepeatKindNone, RepeatKindDaily, RepeatKindWeekly, RepeatKindMonthly:
		return true
	default:
		return false
	}
}

// IsRecurring reports whether the repeat kind produces occurrences.
func (k RepeatKind) IsRecurring() bool {
	return k == RepeatKindDaily || k == RepeatKindWeekly || k == RepeatKindMonthly
}

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskOwnerIDEmpty is returned when a task's owner ID is empty or nil.
	ErrTaskOwnerIDEmpty = errors.New("task owner ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskDueDateZero is returned when a recurring task has no due date.
	ErrTaskDueDateZero = errors.New("recurring task must have a due date")

	// ErrRecurringHasParent is returned when a recurring task also carries a
	// parent recurring ID. A rule cannot be generated from another rule.
	ErrRecurringHasParent = errors.New("recurring task cannot itself be a generated occurrence")
)

// Task represents a single task record. The same entity serves as both a
// recurring definition (RepeatKind != none) and a generated occurrence
// (ParentRecurringID set, RepeatKind == none); plain one-off tasks carry
// neither.
type Task struct {
	ID                uuid.UUID  `json:"id"`
	OwnerID           uuid.UUID  `json:"owner_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Priority          int        `json:"priority"`
	Category          string     `json:"category,omitempty"`
	Links             []string   `json:"links,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	DueDate           time.Time  `json:"due_date"`
	RepeatKind        RepeatKind `json:"repeat_kind"`
	ParentRecurringID *uuid.UUID `json:"parent_recurring_id,omitempty"`
	ParentTaskID      *uuid.UUID `json:"parent_task_id,omitempty"`
	IsCompleted       bool       `json:"is_completed"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewTask creates a new Task with the given owner, title, and due date.
// It generates a new UUID for the task ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title string, dueDate time.Time, kind RepeatKind) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Title:      title,
		DueDate:    dueDate,
		RepeatKind: kind,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// NewOccurrence creates a concrete, non-repeating task generated from a
// recurring definition for one calendar date. Detail fields are copied from
// the rule; the occurrence links back to it through ParentRecurringID and is
// never itself recurring or completed at creation.
func NewOccurrence(rule *Task, dueDate time.Time) (*Task, error) {
	if rule == nil {
		return nil, ErrTaskIDEmpty
	}

	now := time.Now().UTC()
	parentID := rule.ID
	occ := &Task{
		ID:                uuid.New(),
		OwnerID:           rule.OwnerID,
		Title:             rule.Title,
		Description:       rule.Description,
		Priority:          rule.Priority,
		Category:          rule.Category,
		Links:             append([]string(nil), rule.Links...),
		Notes:             rule.Notes,
		DueDate:           dueDate,
		RepeatKind:        RepeatKindNone,
		ParentRecurringID: &parentID,
		IsCompleted:       false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := occ.Validate(); err != nil {
		return nil, err
	}

	return occ, nil
}

// IsRecurringDefinition reports whether the task is an active recurring
// definition: it repeats and is not itself a generated occurrence.
func (t *Task) IsRecurringDefinition() bool {
	return t.RepeatKind.IsRecurring() && t.ParentRecurringID == nil
}

// IsSubtask reports whether the task is a child of another task.
func (t *Task) IsSubtask() bool {
	return t.ParentTaskID != nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if !t.RepeatKind.IsValid() {
		return ErrInvalidRepeatKind
	}

	if t.RepeatKind.IsRecurring() {
		if t.DueDate.IsZero() {
			return ErrTaskDueDateZero
		}
		if t.ParentRecurringID != nil {
			return ErrRecurringHasParent
		}
		if t.IsSubtask() {
			return ErrSubtaskRecurrence
		}
	}

	return nil
}
