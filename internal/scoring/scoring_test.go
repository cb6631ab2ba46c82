package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskquest/internal/models"
)

func account(total, level int, stats models.Stats) models.Account {
	return models.Account{ID: 7, Email: "a@example.com", TotalPoints: total, CurrentLevel: level, Stats: stats}
}

func TestCompleteCrossesThreshold(t *testing.T) {
	acc := account(80, 1, models.Stats{"strength": 0})
	task := models.Task{ID: "t1", UserID: 7, Category: "strength", Points: 50}

	out, err := Complete(task, acc)
	require.NoError(t, err)

	assert.Equal(t, 50, out.PointsEarned)
	assert.Equal(t, 130, out.NewTotalPoints)
	assert.Equal(t, 2, out.NewLevel)
	assert.Equal(t, 1, out.LevelBefore)
	assert.True(t, out.LevelChanged)
	assert.Equal(t, 50, out.UpdatedStats["strength"])

	assert.True(t, out.Task.Completed)
	assert.Equal(t, 130, out.Account.TotalPoints)
	assert.Equal(t, 2, out.Account.CurrentLevel)

	// inputs untouched
	assert.Equal(t, 0, acc.Stats["strength"])
	assert.False(t, task.Completed)
}

func TestCompleteCreatesMissingCategory(t *testing.T) {
	acc := account(0, 1, models.NewStats())
	task := models.Task{ID: "t1", UserID: 7, Category: "focus", Points: 20}

	out, err := Complete(task, acc)
	require.NoError(t, err)
	assert.Equal(t, 20, out.UpdatedStats["focus"])
	assert.False(t, out.LevelChanged)
	_, present := acc.Stats["focus"]
	assert.False(t, present)
}

func TestCompleteNilStats(t *testing.T) {
	out, err := Complete(models.Task{UserID: 7, Category: "general", Points: 5}, account(0, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, models.Stats{"general": 5}, out.UpdatedStats)
}

func TestCompleteZeroPoints(t *testing.T) {
	out, err := Complete(models.Task{UserID: 7, Category: "general"}, account(100, 2, models.NewStats()))
	require.NoError(t, err)
	assert.Equal(t, 100, out.NewTotalPoints)
	assert.False(t, out.LevelChanged)
	assert.True(t, out.Task.Completed)
}

func TestCompleteRejectsCompletedTask(t *testing.T) {
	_, err := Complete(models.Task{UserID: 7, Completed: true, Points: 10}, account(0, 1, nil))
	assert.ErrorIs(t, err, models.ErrAlreadyCompleted)
}

func TestCompleteHidesForeignTask(t *testing.T) {
	_, err := Complete(models.Task{UserID: 8, Points: 10}, account(0, 1, nil))
	assert.ErrorIs(t, err, models.ErrNotFound)

	// ownership is checked first so a finished foreign task leaks nothing
	_, err = Complete(models.Task{UserID: 8, Completed: true}, account(0, 1, nil))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCompleteAboveCeiling(t *testing.T) {
	out, err := Complete(models.Task{UserID: 7, Category: "agility", Points: 1000}, account(5500, 10, nil))
	require.NoError(t, err)
	assert.Equal(t, 6500, out.NewTotalPoints)
	assert.Equal(t, MaxLevel, out.NewLevel)
	assert.False(t, out.LevelChanged)
}
