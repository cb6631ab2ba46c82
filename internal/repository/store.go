package repository

import (
	"context"
	"database/sql"
	"time"

	"taskquest/internal/models"
)

// Store bundles the repositories that share one connection pool.
type Store struct {
	db          *sql.DB
	Accounts    *AccountRepo
	Tasks       *TaskRepo
	Completions *CompletionRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:          db,
		Accounts:    NewAccountRepo(db),
		Tasks:       NewTaskRepo(db),
		Completions: NewCompletionRepo(db),
	}
}

// DBTime round-trips to the database and returns its clock.
func (s *Store) DBTime(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := s.db.QueryRowContext(ctx, `SELECT NOW()`).Scan(&now); err != nil {
		return time.Time{}, models.NewStorageError("db time", err)
	}
	return now, nil
}
