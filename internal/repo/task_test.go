package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskmaster-api/internal/model"
	"github.com/BuzzLyutic/taskmaster-api/internal/repo"
	"github.com/BuzzLyutic/taskmaster-api/internal/testutil"
)

func TestTaskRepo(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	runRepositoryContract(t, func(t *testing.T) repo.TaskRepository {
		testutil.TruncateTables(t, pool)
		return repo.NewTaskRepo(pool)
	})
}

func TestTaskRepo_CheckConstraint(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	testutil.TruncateTables(t, pool)

	r := repo.NewTaskRepo(pool)
	bad := newTask(1, model.Status("DONE"))

	_, err := r.Create(context.Background(), bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrorConstraint)
}

func TestTaskRepo_SeededOrder(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	testutil.TruncateTables(t, pool)

	seeded := testutil.SeedTasks(t, pool, 3)
	r := repo.NewTaskRepo(pool)

	got, err := r.List(context.Background(), model.TaskFilter{}, 1, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, seeded[1], got[0].ID, "second-newest task")
}
