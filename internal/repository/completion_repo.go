package repository

import (
	"context"
	"database/sql"

	"taskquest/internal/models"
	"taskquest/internal/scoring"
)

// CompletionRepo runs scoring transactions against PostgreSQL.
type CompletionRepo struct {
	db *sql.DB
}

func NewCompletionRepo(db *sql.DB) *CompletionRepo {
	return &CompletionRepo{db: db}
}

// InTx implements scoring.Transactor.
func (r *CompletionRepo) InTx(ctx context.Context, fn func(uow scoring.UnitOfWork) error) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&completionTx{tx: tx})
	})
}

type completionTx struct {
	tx *sql.Tx
}

// LockAccount takes the row lock that serializes completions per account.
func (c *completionTx) LockAccount(ctx context.Context, id int) (*models.Account, error) {
	row := c.tx.QueryRowContext(ctx,
		`SELECT id, email, password, total_points, current_level, stats FROM users WHERE id = $1 FOR UPDATE`, id)
	return scanAccount(row, "lock account")
}

func (c *completionTx) LockTask(ctx context.Context, id string) (*models.Task, error) {
	row := c.tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id)
	return scanTask(row, "lock task")
}

// SaveCompletion writes the task flag and the account progression. The
// completed = FALSE guard makes a lost race fail instead of double-awarding.
func (c *completionTx) SaveCompletion(ctx context.Context, task *models.Task, account *models.Account) error {
	res, err := c.tx.ExecContext(ctx,
		`UPDATE tasks SET completed = TRUE WHERE id = $1 AND user_id = $2 AND completed = FALSE`,
		task.ID, task.UserID)
	if err != nil {
		return translate("mark task completed", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("mark task completed", err)
	}
	if n == 0 {
		return models.ErrAlreadyCompleted
	}

	_, err = c.tx.ExecContext(ctx,
		`UPDATE users SET total_points = $1, current_level = $2, stats = $3::jsonb WHERE id = $4`,
		account.TotalPoints, account.CurrentLevel, account.Stats, account.ID)
	return translate("update progression", err)
}
