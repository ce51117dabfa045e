package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskmaster-api/internal/model"
	"github.com/BuzzLyutic/taskmaster-api/internal/repo"
)

var ErrNotFound = errors.New("task not found")

// NotFoundError is returned when the referenced task does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Task with ID %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps any failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type Option func(*TaskService)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithIDGenerator overrides how new task ids are produced.
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) { s.newID = newID }
}

type TaskService struct {
	repo  repo.TaskRepository
	now   func() time.Time
	newID func() string
}

func NewTaskService(repo repo.TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is UTC with microsecond precision so it survives a Postgres round trip.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *TaskService) Create(ctx context.Context, in model.NewTask) (model.Task, error) {
	now := s.timestamp()
	t := model.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return model.Task{}, &StorageError{Op: "create task", Err: err}
	}
	return created, nil
}

// GetByID is the existence check reused by Update and Delete.
func (s *TaskService) GetByID(ctx context.Context, id string) (model.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return model.Task{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return model.Task{}, &StorageError{Op: "get task", Err: err}
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, opts model.ListOptions) ([]model.Task, error) {
	if opts.Limit <= 0 {
		opts.Limit = model.DefaultLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	tasks, err := s.repo.List(ctx, opts.Filter, opts.Limit, opts.Offset)
	if err != nil {
		return nil, &StorageError{Op: "list tasks", Err: err}
	}
	return tasks, nil
}

// Count ignores pagination and applies the same filter as List.
func (s *TaskService) Count(ctx context.Context, filter model.TaskFilter) (int64, error) {
	n, err := s.repo.Count(ctx, filter)
	if err != nil {
		return 0, &StorageError{Op: "count tasks", Err: err}
	}
	return n, nil
}

// Update applies only the fields present in the patch and refreshes updatedAt.
// The existence check and the mutation are separate store calls; a delete racing
// in between surfaces as NotFoundError from the conditional update.
func (s *TaskService) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	updatedAt := s.timestamp()
	if !updatedAt.After(existing.UpdatedAt) {
		updatedAt = existing.UpdatedAt.Add(time.Microsecond)
	}

	t, err := s.repo.Update(ctx, id, patch, updatedAt)
	if errors.Is(err, repo.ErrorNotFound) {
		return model.Task{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return model.Task{}, &StorageError{Op: "update task", Err: err}
	}
	return t, nil
}

// Delete removes the task permanently and returns its last state.
func (s *TaskService) Delete(ctx context.Context, id string) (model.Task, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	err = s.repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return model.Task{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return model.Task{}, &StorageError{Op: "delete task", Err: err}
	}
	return existing, nil
}

// GetByStatus returns every task with the status, newest first, unpaginated.
func (s *TaskService) GetByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx, model.TaskFilter{Status: &status}, 0, 0)
	if err != nil {
		return nil, &StorageError{Op: "list tasks by status", Err: err}
	}
	return tasks, nil
}
