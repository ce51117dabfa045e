package repo

import (
	"context"
	"errors"
	"time"

	"github.com/BuzzLyutic/taskmaster-api/internal/model"
)

var ErrorNotFound = errors.New("not found")

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	// List returns tasks newest first. limit <= 0 means no limit.
	List(ctx context.Context, filter model.TaskFilter, limit, offset int) ([]model.Task, error)
	Count(ctx context.Context, filter model.TaskFilter) (int64, error)
	// Update applies the patch only if the row still exists, ErrorNotFound otherwise.
	Update(ctx context.Context, id string, patch model.TaskPatch, updatedAt time.Time) (model.Task, error)
	Delete(ctx context.Context, id string) error
}
