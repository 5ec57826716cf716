package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
)

func TestTaskToResponseMapsAllFields(t *testing.T) {
	t.Parallel()

	due := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)
	parentRecurring := uuid.New()
	parentTask := uuid.New()
	task := &domain.Task{
		ID:                uuid.New(),
		OwnerID:           uuid.New(),
		Title:             "Water the plants",
		Description:       "Balcony first",
		Priority:          2,
		Category:          "home",
		Links:             []string{"https://example.com/guide"},
		Notes:             "skip if raining",
		DueDate:           due,
		RepeatKind:        domain.RepeatKindNone,
		ParentRecurringID: &parentRecurring,
		ParentTaskID:      &parentTask,
		IsCompleted:       true,
		CreatedAt:         due.Add(-48 * time.Hour),
		UpdatedAt:         due.Add(-time.Hour),
	}

	resp := taskToResponse(task)

	assert.Equal(t, task.ID.String(), resp.ID)
	assert.Equal(t, task.OwnerID.String(), resp.OwnerID)
	assert.Equal(t, "Water the plants", resp.Title)
	assert.Equal(t, "Balcony first", resp.Description)
	assert.Equal(t, 2, resp.Priority)
	assert.Equal(t, "home", resp.Category)
	assert.Equal(t, []string{"https://example.com/guide"}, resp.Links)
	assert.Equal(t, "skip if raining", resp.Notes)
	require.NotNil(t, resp.DueDate)
	assert.True(t, due.Equal(*resp.DueDate))
	assert.Equal(t, "none", resp.RepeatKind)
	require.NotNil(t, resp.ParentRecurringID)
	assert.Equal(t, parentRecurring.String(), *resp.ParentRecurringID)
	require.NotNil(t, resp.ParentTaskID)
	assert.Equal(t, parentTask.String(), *resp.ParentTaskID)
	assert.True(t, resp.IsCompleted)
}

func TestTaskToResponseOmitsUnsetOptionals(t *testing.T) {
	t.Parallel()

	task := &domain.Task{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		Title:      "Standalone",
		RepeatKind: domain.RepeatKindNone,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	resp := taskToResponse(task)

	assert.Nil(t, resp.DueDate)
	assert.Nil(t, resp.ParentRecurringID)
	assert.Nil(t, resp.ParentTaskID)
}

func TestTaskResponseJSONRoundTrip(t *testing.T) {
	t.Parallel()

	rule := &domain.Task{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		Title:      "Weekly review",
		Priority:   1,
		DueDate:    time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC),
		RepeatKind: domain.RepeatKindWeekly,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(taskToResponse(rule))
	require.NoError(t, err)

	var decoded TaskResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.Priority)
	assert.Equal(t, "weekly", decoded.RepeatKind)
}
