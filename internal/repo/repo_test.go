package repo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskmaster-api/internal/model"
	"github.com/BuzzLyutic/taskmaster-api/internal/repo"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTask(n int, status model.Status) model.Task {
	at := baseTime.Add(time.Duration(n) * time.Minute)
	return model.Task{
		ID:        fmt.Sprintf("task-%02d", n),
		Title:     fmt.Sprintf("Task %d", n),
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func seed(t *testing.T, r repo.TaskRepository, tasks ...model.Task) {
	t.Helper()
	for _, task := range tasks {
		_, err := r.Create(context.Background(), task)
		require.NoError(t, err)
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

// runRepositoryContract exercises behaviour every TaskRepository backend must share.
func runRepositoryContract(t *testing.T, setup func(t *testing.T) repo.TaskRepository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		r := setup(t)
		desc := "two litres"
		in := newTask(1, model.StatusPending)
		in.Description = &desc

		created, err := r.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, in.ID, created.ID)

		got, err := r.Get(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, in.Title, got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, desc, *got.Description)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.True(t, in.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, in.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("null description round trips", func(t *testing.T) {
		r := setup(t)
		seed(t, r, newTask(1, model.StatusPending))

		got, err := r.Get(ctx, "task-01")
		require.NoError(t, err)
		assert.Nil(t, got.Description)
	})

	t.Run("get missing", func(t *testing.T) {
		r := setup(t)
		_, err := r.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, repo.ErrorNotFound)
	})

	t.Run("list newest first with pagination", func(t *testing.T) {
		r := setup(t)
		seed(t, r, newTask(1, model.StatusPending), newTask(2, model.StatusPending), newTask(3, model.StatusPending))

		all, err := r.List(ctx, model.TaskFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-03", "task-02", "task-01"}, ids(all))

		page, err := r.List(ctx, model.TaskFilter{}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-02"}, ids(page))

		unlimited, err := r.List(ctx, model.TaskFilter{}, 0, 0)
		require.NoError(t, err)
		assert.Len(t, unlimited, 3)

		past, err := r.List(ctx, model.TaskFilter{}, 10, 5)
		require.NoError(t, err)
		assert.Empty(t, past)
	})

	t.Run("list and count by status", func(t *testing.T) {
		r := setup(t)
		seed(t, r,
			newTask(1, model.StatusCompleted),
			newTask(2, model.StatusPending),
			newTask(3, model.StatusCompleted),
		)

		completed := model.StatusCompleted
		filter := model.TaskFilter{Status: &completed}

		got, err := r.List(ctx, filter, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-03", "task-01"}, ids(got))

		n, err := r.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		total, err := r.Count(ctx, model.TaskFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("partial update", func(t *testing.T) {
		r := setup(t)
		desc := "keep me"
		in := newTask(1, model.StatusPending)
		in.Description = &desc
		seed(t, r, in)

		title := "Renamed"
		later := in.UpdatedAt.Add(time.Hour)
		updated, err := r.Update(ctx, in.ID, model.TaskPatch{Title: &title}, later)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "keep me", *updated.Description)
		assert.Equal(t, model.StatusPending, updated.Status)
		assert.True(t, in.CreatedAt.Equal(updated.CreatedAt))
		assert.True(t, later.Equal(updated.UpdatedAt))
	})

	t.Run("update clears and sets description", func(t *testing.T) {
		r := setup(t)
		desc := "old"
		in := newTask(1, model.StatusPending)
		in.Description = &desc
		seed(t, r, in)

		cleared, err := r.Update(ctx, in.ID, model.TaskPatch{Description: model.Null[string]()}, in.UpdatedAt.Add(time.Second))
		require.NoError(t, err)
		assert.Nil(t, cleared.Description)

		empty, err := r.Update(ctx, in.ID, model.TaskPatch{Description: model.Some("")}, in.UpdatedAt.Add(2*time.Second))
		require.NoError(t, err)
		require.NotNil(t, empty.Description)
		assert.Equal(t, "", *empty.Description)
	})

	t.Run("update status", func(t *testing.T) {
		r := setup(t)
		seed(t, r, newTask(1, model.StatusPending))

		completed := model.StatusCompleted
		updated, err := r.Update(ctx, "task-01", model.TaskPatch{Status: &completed}, baseTime.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, updated.Status)
		assert.Equal(t, "Task 1", updated.Title)
	})

	t.Run("update missing", func(t *testing.T) {
		r := setup(t)
		title := "x"
		_, err := r.Update(ctx, "nope", model.TaskPatch{Title: &title}, baseTime)
		assert.ErrorIs(t, err, repo.ErrorNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		r := setup(t)
		seed(t, r, newTask(1, model.StatusPending))

		require.NoError(t, r.Delete(ctx, "task-01"))

		_, err := r.Get(ctx, "task-01")
		assert.ErrorIs(t, err, repo.ErrorNotFound)

		assert.ErrorIs(t, r.Delete(ctx, "task-01"), repo.ErrorNotFound)
	})
}
