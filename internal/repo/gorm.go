package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BuzzLyutic/taskmaster-api/internal/model"
)

// taskRow mirrors the tasks table for gorm.
type taskRow struct {
	ID          string    `gorm:"primaryKey;type:text"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description *string   `gorm:"type:text"`
	Status      string    `gorm:"type:text;not null;default:PENDING;index:idx_tasks_status_created,priority:1"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false;index:idx_tasks_status_created,priority:2;index:idx_tasks_created"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (taskRow) TableName() string { return "tasks" }

func rowFromTask(t model.Task) taskRow {
	return taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r taskRow) task() model.Task {
	return model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      model.Status(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// GormTaskRepo stores tasks through gorm; used for the file-backed SQLite store.
type GormTaskRepo struct {
	db *gorm.DB
}

func NewGormTaskRepo(db *gorm.DB) *GormTaskRepo {
	return &GormTaskRepo{db: db}
}

// AutoMigrate creates the tasks table when missing.
func (r *GormTaskRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&taskRow{})
}

func (r *GormTaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	row := rowFromTask(t)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return t, fmt.Errorf("create task: %w", err)
	}
	return row.task(), nil
}

func (r *GormTaskRepo) Get(ctx context.Context, id string) (model.Task, error) {
	var row taskRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Task{}, ErrorNotFound
		}
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	return row.task(), nil
}

func applyFilter(q *gorm.DB, f model.TaskFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	return q
}

func (r *GormTaskRepo) List(ctx context.Context, filter model.TaskFilter, limit, offset int) ([]model.Task, error) {
	var rows []taskRow
	q := applyFilter(r.db.WithContext(ctx).Model(&taskRow{}), filter).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.task())
	}
	return tasks, nil
}

func (r *GormTaskRepo) Count(ctx context.Context, filter model.TaskFilter) (int64, error) {
	var n int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&taskRow{}), filter).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *GormTaskRepo) Update(ctx context.Context, id string, patch model.TaskPatch, updatedAt time.Time) (model.Task, error) {
	updates := map[string]any{"updated_at": updatedAt}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description.Set {
		updates["description"] = patch.Description.Ptr()
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}

	var out model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&taskRow{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrorNotFound
		}
		var row taskRow
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		out = row.task()
		return nil
	})
	if errors.Is(err, ErrorNotFound) {
		return model.Task{}, ErrorNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return out, nil
}

func (r *GormTaskRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&taskRow{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrorNotFound
	}
	return nil
}
