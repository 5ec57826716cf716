package api

import (
	"time"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// Common request/response structures

// UpdateDueDateRequest defines the payload for changing a task's due date.
type UpdateDueDateRequest struct {
	// DueDate is the new due date and time, RFC 3339.
	DueDate time.Time `json:"due_date" validate:"required"`
}

// UpdateRepeatKindRequest defines the payload for changing a task's repeat
// kind.
type UpdateRepeatKindRequest struct {
	RepeatKind string `json:"repeat_kind" validate:"required,oneof=none daily weekly monthly"`
}

// MutationResponse reports what a schedule change did.
type MutationResponse struct {
	// DeletedCount is the number of future occurrences removed.
	DeletedCount int64 `json:"deleted_count"`

	// GeneratedCount is the number of occurrences created from the new
	// schedule.
	GeneratedCount int `json:"generated_count"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID                string     `json:"id"`
	OwnerID           string     `json:"owner_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Priority          int        `json:"priority"`
	Category          string     `json:"category,omitempty"`
	Links             []string   `json:"links,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	RepeatKind        string     `json:"repeat_kind"`
	ParentRecurringID *string    `json:"parent_recurring_id,omitempty"`
	ParentTaskID      *string    `json:"parent_task_id,omitempty"`
	IsCompleted       bool       `json:"is_completed"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// OccurrenceListResponse wraps the occurrences of one recurring definition.
type OccurrenceListResponse struct {
	RuleID      string         `json:"rule_id"`
	Occurrences []TaskResponse `json:"occurrences"`
}

// taskToResponse converts a domain task to its API representation.
func taskToResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		OwnerID:     t.OwnerID.String(),
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		Links:       t.Links,
		Notes:       t.Notes,
		RepeatKind:  string(t.RepeatKind),
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if !t.DueDate.IsZero() {
		due := t.DueDate
		resp.DueDate = &due
	}
	if t.ParentRecurringID != nil {
		id := t.ParentRecurringID.String()
		resp.ParentRecurringID = &id
	}
	if t.ParentTaskID != nil {
		id := t.ParentTaskID.String()
		resp.ParentTaskID = &id
	}
	return resp
}

// tasksToResponses converts a slice of domain tasks.
func tasksToResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
