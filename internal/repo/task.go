package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskmaster-api/internal/model"
)

var ErrorConstraint = errors.New("constraint violation")

const taskColumns = `id, title, description, status, created_at, updated_at`

type TaskRepo struct { // Репозиторий поверх Postgres
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t      model.Task
		status string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.CreatedAt, &t.UpdatedAt)
	t.Status = model.Status(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, err
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+taskColumns,
		t.ID, t.Title, t.Description, string(t.Status), t.CreatedAt, t.UpdatedAt,
	))
	if err != nil {
		return t, r.mapError(err)
	}
	return created, nil
}

func (r *TaskRepo) Get(ctx context.Context, id string) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) List(ctx context.Context, filter model.TaskFilter, limit, offset int) ([]model.Task, error) {
	// LIMIT NULL means no limit in Postgres
	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, filter.StatusParam(), lim, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, max(limit, 0))
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Count(ctx context.Context, filter model.TaskFilter) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks WHERE ($1::text IS NULL OR status = $1)
	`, filter.StatusParam()).Scan(&n)
	return n, err
}

func (r *TaskRepo) Update(ctx context.Context, id string, patch model.TaskPatch, updatedAt time.Time) (model.Task, error) {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	t, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = COALESCE($2, title),
		    description = CASE WHEN $3::boolean THEN $4::text ELSE description END,
		    status = COALESCE($5, status),
		    updated_at = $6
		WHERE id = $1
		RETURNING `+taskColumns,
		id, patch.Title, patch.Description.Set, patch.Description.Ptr(), status, updatedAt,
	))

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, r.mapError(err)
	}
	return t, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

// mapError переводит нарушения ограничений схемы в ErrorConstraint
func (r *TaskRepo) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23514", "22001": // unique, check, string too long
			return errors.Join(ErrorConstraint, err)
		}
	}
	return err
}
