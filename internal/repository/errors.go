package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"taskquest/internal/models"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate maps driver errors onto the models error taxonomy.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return models.ErrConflict
		case pqForeignKeyViolation:
			return models.ErrNotFound
		}
	}
	return models.NewStorageError(op, err)
}
