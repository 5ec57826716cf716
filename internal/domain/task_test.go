package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validRule(t *testing.T) *Task {
	t.Helper()
	rule, err := NewTask(
		uuid.New(),
		"water the plants",
		time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
		RepeatKindDaily,
	)
	if err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}
	return rule
}

func TestRepeatKindIsValid(t *testing.T) {
	t.Parallel()

	valid := []RepeatKind{RepeatKindNone, RepeatKindDaily, RepeatKindWeekly, RepeatKindMonthly}
	for _, k := range valid {
		if !k.IsValid() {
			t.Errorf("expected %q to be valid", k)
		}
	}

	invalid := []RepeatKind{"", "yearly", "invalid"}
	for _, k := range invalid {
		if k.IsValid() {
			t.Errorf("expected %q to be invalid", k)
		}
	}
}

func TestNewTaskValidation(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		ownerID  uuid.UUID
		title    string
		due      time.Time
		kind     RepeatKind
		expected error
	}{
		{
			name:     "valid recurring task",
			ownerID:  uuid.New(),
			title:    "weekly report",
			due:      due,
			kind:     RepeatKindWeekly,
			expected: nil,
		},
		{
			name:     "missing owner",
			ownerID:  uuid.Nil,
			title:    "weekly report",
			due:      due,
			kind:     RepeatKindWeekly,
			expected: ErrTaskOwnerIDEmpty,
		},
		{
			name:     "missing title",
			ownerID:  uuid.New(),
			title:    "",
			due:      due,
			kind:     RepeatKindWeekly,
			expected: ErrTaskTitleEmpty,
		},
		{
			name:     "invalid repeat kind",
			ownerID:  uuid.New(),
			title:    "weekly report",
			due:      due,
			kind:     RepeatKind("fortnightly"),
			expected: ErrInvalidRepeatKind,
		},
		{
			name:     "recurring task without a due date",
			ownerID:  uuid.New(),
			title:    "weekly report",
			due:      time.Time{},
			kind:     RepeatKindWeekly,
			expected: ErrTaskDueDateZero,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTask(tc.ownerID, tc.title, tc.due, tc.kind)
			if !errors.Is(err, tc.expected) {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestValidateRecurringInvariants(t *testing.T) {
	t.Parallel()

	t.Run("recurring task cannot carry a parent recurring ID", func(t *testing.T) {
		rule := validRule(t)
		parent := uuid.New()
		rule.ParentRecurringID = &parent

		if err := rule.Validate(); !errors.Is(err, ErrRecurringHasParent) {
			t.Errorf("Expected ErrRecurringHasParent, got %v", err)
		}
	})

	t.Run("subtask cannot recur", func(t *testing.T) {
		rule := validRule(t)
		parent := uuid.New()
		rule.ParentTaskID = &parent

		if err := rule.Validate(); !errors.Is(err, ErrSubtaskRecurrence) {
			t.Errorf("Expected ErrSubtaskRecurrence, got %v", err)
		}
	})

	t.Run("non-recurring subtask is fine", func(t *testing.T) {
		task, err := NewTask(uuid.New(), "buy soil", time.Time{}, RepeatKindNone)
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
		parent := uuid.New()
		task.ParentTaskID = &parent

		if err := task.Validate(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func TestNewOccurrence(t *testing.T) {
	t.Parallel()

	rule := validRule(t)
	rule.Description = "front porch and kitchen"
	rule.Priority = 2
	rule.Category = "home"
	rule.Links = []string{"https://example.com/plants"}
	rule.Notes = "skip the cactus"

	due := time.Date(2024, time.January, 16, 10, 0, 0, 0, time.UTC)
	occ, err := NewOccurrence(rule, due)
	if err != nil {
		t.Fatalf("NewOccurrence returned unexpected error: %v", err)
	}

	if occ.RepeatKind != RepeatKindNone {
		t.Errorf("occurrence must never recurse, got kind %q", occ.RepeatKind)
	}
	if occ.ParentRecurringID == nil || *occ.ParentRecurringID != rule.ID {
		t.Errorf("occurrence must link back to its rule")
	}
	if occ.IsCompleted {
		t.Errorf("occurrence must start incomplete")
	}
	if !occ.DueDate.Equal(due) {
		t.Errorf("Expected due date %v, got %v", due, occ.DueDate)
	}
	if occ.ID == rule.ID {
		t.Errorf("occurrence must have its own identity")
	}

	// Detail fields are copied from the rule.
	if occ.Title != rule.Title || occ.Description != rule.Description ||
		occ.Priority != rule.Priority || occ.Category != rule.Category ||
		occ.Notes != rule.Notes {
		t.Errorf("occurrence did not copy rule details")
	}
	if len(occ.Links) != 1 || occ.Links[0] != rule.Links[0] {
		t.Errorf("occurrence did not copy rule links")
	}

	// The copied links slice must be independent of the rule's.
	occ.Links[0] = "changed"
	if rule.Links[0] == "changed" {
		t.Errorf("occurrence links alias the rule's slice")
	}
}

func TestIsRecurringDefinition(t *testing.T) {
	t.Parallel()

	rule := validRule(t)
	if !rule.IsRecurringDefinition() {
		t.Errorf("expected rule to be a recurring definition")
	}

	occ, err := NewOccurrence(rule, rule.DueDate.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("NewOccurrence returned unexpected error: %v", err)
	}
	if occ.IsRecurringDefinition() {
		t.Errorf("occurrence must not be a recurring definition")
	}

	oneOff, err := NewTask(uuid.New(), "one-off", time.Time{}, RepeatKindNone)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if oneOff.IsRecurringDefinition() {
		t.Errorf("one-off task must not be a recurring definition")
	}
}
