package scoring

import (
	"context"
	"errors"

	"taskquest/internal/models"
)

// UnitOfWork is the set of reads and writes available inside one completion
// transaction. Lock methods must hold their row until the transaction ends.
type UnitOfWork interface {
	LockAccount(ctx context.Context, id int) (*models.Account, error)
	LockTask(ctx context.Context, id string) (*models.Task, error)
	SaveCompletion(ctx context.Context, task *models.Task, account *models.Account) error
}

// Transactor runs fn atomically: every write made through the UnitOfWork
// commits together, or none do when fn returns an error.
type Transactor interface {
	InTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}

// Service completes tasks against a transactional store.
type Service struct {
	tx Transactor
}

func NewService(tx Transactor) *Service {
	return &Service{tx: tx}
}

// CompleteTask marks taskID done for ownerID and awards its points. The
// account row is locked before the task row so that completions for one
// account are applied one at a time.
func (s *Service) CompleteTask(ctx context.Context, taskID string, ownerID int) (*Outcome, error) {
	var out Outcome
	err := s.tx.InTx(ctx, func(uow UnitOfWork) error {
		account, err := uow.LockAccount(ctx, ownerID)
		if err != nil {
			return err
		}
		task, err := uow.LockTask(ctx, taskID)
		if err != nil {
			return err
		}

		out, err = Complete(*task, *account)
		if err != nil {
			return err
		}
		return uow.SaveCompletion(ctx, &out.Task, &out.Account)
	})
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// classify keeps domain errors intact and folds anything else into a
// StorageError so callers never see a raw driver error.
func classify(err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrAlreadyCompleted),
		errors.Is(err, models.ErrStorage):
		return err
	default:
		return models.NewStorageError("complete task", err)
	}
}
