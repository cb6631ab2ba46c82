package scoring_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskquest/internal/models"
	"taskquest/internal/scoring"
	"taskquest/internal/testinfra"
)

func seed(t *testing.T, store *testinfra.MemStore, email string, tasks ...models.Task) int {
	t.Helper()
	ctx := context.Background()
	id, err := store.Accounts().Create(ctx, email, "hash")
	require.NoError(t, err)
	for _, task := range tasks {
		task.UserID = id
		require.NoError(t, store.Tasks().Create(ctx, &task))
	}
	return id
}

func TestServiceCompleteTask(t *testing.T) {
	store := testinfra.NewMemStore()
	id := seed(t, store, "a@example.com", models.Task{ID: "t1", Category: "strength", Points: 50})
	store.SetProgress(id, 80, 1, models.Stats{"strength": 0})

	svc := scoring.NewService(store)
	out, err := svc.CompleteTask(context.Background(), "t1", id)
	require.NoError(t, err)
	assert.Equal(t, 130, out.NewTotalPoints)
	assert.Equal(t, 2, out.NewLevel)
	assert.True(t, out.LevelChanged)

	acc, _ := store.Account(id)
	assert.Equal(t, 130, acc.TotalPoints)
	assert.Equal(t, 2, acc.CurrentLevel)
	assert.Equal(t, 50, acc.Stats["strength"])

	task, _ := store.Task("t1")
	assert.True(t, task.Completed)
}

func TestServiceRejectsSecondCompletion(t *testing.T) {
	store := testinfra.NewMemStore()
	id := seed(t, store, "a@example.com", models.Task{ID: "t1", Category: "stamina", Points: 30})
	svc := scoring.NewService(store)

	_, err := svc.CompleteTask(context.Background(), "t1", id)
	require.NoError(t, err)
	before, _ := store.Account(id)

	_, err = svc.CompleteTask(context.Background(), "t1", id)
	assert.ErrorIs(t, err, models.ErrAlreadyCompleted)

	after, _ := store.Account(id)
	assert.Equal(t, before, after)
}

func TestServiceForeignAndMissingAreIndistinguishable(t *testing.T) {
	store := testinfra.NewMemStore()
	owner := seed(t, store, "owner@example.com", models.Task{ID: "t1", Category: "general", Points: 10})
	other := seed(t, store, "other@example.com")
	svc := scoring.NewService(store)

	_, foreign := svc.CompleteTask(context.Background(), "t1", other)
	_, missing := svc.CompleteTask(context.Background(), "nope", other)
	assert.ErrorIs(t, foreign, models.ErrNotFound)
	assert.ErrorIs(t, missing, models.ErrNotFound)
	assert.Equal(t, missing.Error(), foreign.Error())

	task, _ := store.Task("t1")
	assert.False(t, task.Completed)
	acc, _ := store.Account(owner)
	assert.Zero(t, acc.TotalPoints)
}

func TestServiceRollsBackOnStorageFailure(t *testing.T) {
	store := testinfra.NewMemStore()
	id := seed(t, store, "a@example.com", models.Task{ID: "t1", Category: "general", Points: 10})
	store.FailSave = errors.New("connection reset")
	svc := scoring.NewService(store)

	_, err := svc.CompleteTask(context.Background(), "t1", id)
	assert.ErrorIs(t, err, models.ErrStorage)

	var se *models.StorageError
	require.ErrorAs(t, err, &se)

	task, _ := store.Task("t1")
	assert.False(t, task.Completed)
	acc, _ := store.Account(id)
	assert.Zero(t, acc.TotalPoints)
	assert.Zero(t, acc.Stats["general"])
}

func TestServiceCancelledContextCommitsNothing(t *testing.T) {
	store := testinfra.NewMemStore()
	id := seed(t, store, "a@example.com", models.Task{ID: "t1", Category: "general", Points: 10})
	svc := scoring.NewService(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.CompleteTask(ctx, "t1", id)
	assert.ErrorIs(t, err, models.ErrStorage)

	task, _ := store.Task("t1")
	assert.False(t, task.Completed)
}

func TestServiceConcurrentCompletionsAccumulate(t *testing.T) {
	store := testinfra.NewMemStore()
	var tasks []models.Task
	want := 0
	wantByCat := map[string]int{}
	cats := []string{"strength", "stamina", "intelligence", "agility", "general", "focus"}
	for i := 0; i < 40; i++ {
		p := 5 + i
		c := cats[i%len(cats)]
		tasks = append(tasks, models.Task{ID: fmt.Sprintf("task-%02d", i), Category: c, Points: p})
		want += p
		wantByCat[c] += p
	}
	id := seed(t, store, "a@example.com", tasks...)
	svc := scoring.NewService(store)

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(taskID string) {
			defer wg.Done()
			_, err := svc.CompleteTask(context.Background(), taskID, id)
			assert.NoError(t, err)
		}(task.ID)
	}
	wg.Wait()

	acc, _ := store.Account(id)
	assert.Equal(t, want, acc.TotalPoints)
	assert.Equal(t, scoring.LevelFor(want), acc.CurrentLevel)
	for c, p := range wantByCat {
		assert.Equalf(t, p, acc.Stats[c], "category %s", c)
	}
}
