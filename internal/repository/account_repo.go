package repository

import (
	"context"
	"database/sql"

	"taskquest/internal/models"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create inserts a new account with zero points, level 1 and the default stats.
func (r *AccountRepo) Create(ctx context.Context, email, passwordHash string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password, stats) VALUES ($1, $2, $3::jsonb) RETURNING id`,
		email, passwordHash, models.NewStats(),
	).Scan(&id)
	if err != nil {
		return 0, translate("account create", err)
	}
	return id, nil
}

func (r *AccountRepo) Get(ctx context.Context, id int) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password, total_points, current_level, stats FROM users WHERE id = $1`, id)
	return scanAccount(row, "account get")
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password, total_points, current_level, stats FROM users WHERE email = $1`, email)
	return scanAccount(row, "account get by email")
}

// Delete removes the account; its tasks go with it through ON DELETE CASCADE.
func (r *AccountRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate("account delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("account delete", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner, op string) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.TotalPoints, &a.CurrentLevel, &a.Stats); err != nil {
		return nil, translate(op, err)
	}
	return &a, nil
}
