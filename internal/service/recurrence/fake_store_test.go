package recurrence

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/domain/recur"
	"github.com/taskhive/taskhive-api/internal/store"
)

// fakeTaskStore is an in-memory store.TaskStore for exercising the engine
// without a database. Failure hooks let individual tests inject errors at
// specific points, mirroring how the persistence layer can fail mid-batch.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	failFindOccurrences error
	failFindDefinitions error
	failDelete          error
	failSaveSchedule    error
	// failCreateAfter fails CreateOccurrence once createCalls exceeds the
	// threshold. Negative means never fail.
	failCreateAfter int
	createCalls     int
	deleteCalls     int
}

func newFakeTaskStore(seed ...*domain.Task) *fakeTaskStore {
	s := &fakeTaskStore{
		tasks:           make(map[uuid.UUID]*domain.Task),
		failCreateAfter: -1,
	}
	for _, t := range seed {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *fakeTaskStore) FindRecurringDefinitions(ctx context.Context) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFindDefinitions != nil {
		return nil, s.failFindDefinitions
	}
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.IsRecurringDefinition() {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) FindOccurrences(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFindOccurrences != nil {
		return nil, s.failFindOccurrences
	}
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.ParentRecurringID != nil && *t.ParentRecurringID == parentID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) CreateOccurrence(ctx context.Context, occ *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.failCreateAfter >= 0 && s.createCalls > s.failCreateAfter {
		return store.NewStoreError("task", "create", "create failed", store.ErrTransactionFailed)
	}
	for _, t := range s.tasks {
		if t.ParentRecurringID != nil && occ.ParentRecurringID != nil &&
			*t.ParentRecurringID == *occ.ParentRecurringID &&
			recur.SameDay(t.DueDate, occ.DueDate) {
			return store.ErrOccurrenceExists
		}
	}
	copied := *occ
	s.tasks[occ.ID] = &copied
	return nil
}

func (s *fakeTaskStore) DeleteOccurrencesFrom(ctx context.Context, parentID uuid.UUID, from time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.tasks {
		if t.ParentRecurringID != nil && *t.ParentRecurringID == parentID &&
			!t.DueDate.Before(from) {
			delete(s.tasks, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.failDelete != nil {
		return s.failDelete
	}
	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) SaveSchedule(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaveSchedule != nil {
		return s.failSaveSchedule
	}
	existing, ok := s.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	existing.DueDate = task.DueDate
	existing.RepeatKind = task.RepeatKind
	existing.UpdatedAt = task.UpdatedAt
	return nil
}

func (s *fakeTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return s
}

func (s *fakeTaskStore) DB() *sql.DB {
	return nil
}

// occurrencesOf returns the stored occurrences of a rule sorted by due date.
func (s *fakeTaskStore) occurrencesOf(parentID uuid.UUID) []*domain.Task {
	out, _ := s.FindOccurrences(context.Background(), parentID)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].DueDate.Before(out[i].DueDate) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// passthroughTx runs the transaction function directly against the fake,
// standing in for a database transaction in unit tests.
func passthroughTx(ctx context.Context, db *sql.DB, fn store.TxFn) error {
	return fn(ctx, nil)
}
