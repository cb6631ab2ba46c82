// Package scoring awards points for completed tasks and derives levels.
package scoring

import (
	"taskquest/internal/models"
)

// Outcome is the progression change produced by completing one task.
type Outcome struct {
	TaskID         string       `json:"-"`
	PointsEarned   int          `json:"pointsEarned"`
	NewTotalPoints int          `json:"newTotalPoints"`
	LevelBefore    int          `json:"-"`
	NewLevel       int          `json:"newLevel"`
	LevelChanged   bool         `json:"levelChanged"`
	UpdatedStats   models.Stats `json:"updatedStats"`

	// Account and Task hold the post-completion rows for the caller to persist.
	Account models.Account `json:"-"`
	Task    models.Task    `json:"-"`
}

// Complete computes the new progression state for account after finishing
// task. Neither argument is modified. A task owned by another account is
// reported as models.ErrNotFound.
func Complete(task models.Task, account models.Account) (Outcome, error) {
	if task.UserID != account.ID {
		return Outcome{}, models.ErrNotFound
	}
	if task.Completed {
		return Outcome{}, models.ErrAlreadyCompleted
	}

	earned := task.Points
	total := account.TotalPoints + earned

	stats := account.Stats.Clone()
	stats[task.Category] += earned

	level := LevelFor(total)

	next := account
	next.TotalPoints = total
	next.CurrentLevel = level
	next.Stats = stats

	done := task
	done.Completed = true

	return Outcome{
		TaskID:         task.ID,
		PointsEarned:   earned,
		NewTotalPoints: total,
		LevelBefore:    account.CurrentLevel,
		NewLevel:       level,
		LevelChanged:   level != account.CurrentLevel,
		UpdatedStats:   stats,
		Account:        next,
		Task:           done,
	}, nil
}
