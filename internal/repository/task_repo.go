package repository

import (
	"context"
	"database/sql"

	"taskquest/internal/models"
)

const taskColumns = `id, user_id, title, COALESCE(description, ''), difficulty, difficulty_text,
	category, category_text, category_icon_class, points, completed`

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Create inserts task. A taken id yields models.ErrConflict and an unknown
// owner models.ErrNotFound.
func (r *TaskRepo) Create(ctx context.Context, t *models.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, difficulty, difficulty_text,
			category, category_text, category_icon_class, points, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.UserID, t.Title, t.Description, t.Difficulty, t.DifficultyText,
		t.Category, t.CategoryText, t.CategoryIconClass, t.Points, t.Completed,
	)
	return translate("task create", err)
}

func (r *TaskRepo) Get(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row, "task get")
}

// ListByOwner returns open tasks first, then by id descending.
func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID int) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY completed ASC, id DESC`, ownerID)
	if err != nil {
		return nil, translate("task list", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows, "task list scan")
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("task list", err)
	}
	return tasks, nil
}

// Delete removes the task only when ownerID owns it.
func (r *TaskRepo) Delete(ctx context.Context, id string, ownerID int) error {
	var deleted string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2 RETURNING id`, id, ownerID,
	).Scan(&deleted)
	return translate("task delete", err)
}

func scanTask(row rowScanner, op string) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Difficulty, &t.DifficultyText,
		&t.Category, &t.CategoryText, &t.CategoryIconClass, &t.Points, &t.Completed)
	if err != nil {
		return nil, translate(op, err)
	}
	return &t, nil
}
