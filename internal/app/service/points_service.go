package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

const defaultHistoryLimit = 50

type PointsService struct {
	store ports.Store
	now   func() time.Time
	newID func() string
}

func NewPointsService(store ports.Store) *PointsService {
	return &PointsService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

var _ ports.PointsService = (*PointsService)(nil)

// CreateTransaction appends a ledger entry and moves the volunteer's running
// balance in one transaction, holding the volunteer row lock throughout.
func (s *PointsService) CreateTransaction(ctx context.Context, input domain.CreatePointsTransactionInput) (domain.PointsTransaction, error) {
	if err := input.Validate(); err != nil {
		return domain.PointsTransaction{}, err
	}

	var txn domain.PointsTransaction
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		balance, err := tx.Ledger().LockVolunteerBalance(ctx, input.VolunteerID)
		if err != nil {
			return err
		}

		after, err := input.Apply(balance.Points)
		if err != nil {
			return err
		}

		txn = domain.PointsTransaction{
			ID:            s.newID(),
			VolunteerID:   input.VolunteerID,
			TaskID:        input.TaskID,
			Amount:        input.Amount,
			Type:          input.Type,
			Status:        domain.PointsTransactionCompleted,
			Description:   input.Description,
			BalanceBefore: balance.Points,
			BalanceAfter:  after,
			CreatedAt:     s.now(),
		}
		if err := tx.Ledger().Insert(ctx, txn); err != nil {
			return err
		}

		next := domain.Balance{Points: after, CompletedTasksCount: balance.CompletedTasksCount}
		if input.Type == domain.PointsTransactionTaskCompletion {
			next.CompletedTasksCount++
		}
		return tx.Ledger().UpdateVolunteerBalance(ctx, input.VolunteerID, next)
	})
	if err != nil {
		return domain.PointsTransaction{}, err
	}
	return txn, nil
}

// Adjust is the admin entry point for manual corrections and refunds.
func (s *PointsService) Adjust(ctx context.Context, actor domain.Actor, input domain.CreatePointsTransactionInput) (domain.PointsTransaction, error) {
	if err := domain.Authorize(domain.OpAdjustPoints, actor, nil); err != nil {
		return domain.PointsTransaction{}, err
	}
	if input.Type == domain.PointsTransactionTaskCompletion {
		return domain.PointsTransaction{}, domain.ErrInvalidTransactionType
	}
	return s.CreateTransaction(ctx, input)
}

func (s *PointsService) Balance(ctx context.Context, actor domain.Actor, volunteerID string) (int, error) {
	if err := domain.CanViewVolunteer(actor, volunteerID); err != nil {
		return 0, err
	}
	volunteer, err := s.store.Profiles().GetVolunteer(ctx, volunteerID)
	if err != nil {
		return 0, err
	}
	return volunteer.Points, nil
}

func (s *PointsService) History(ctx context.Context, actor domain.Actor, volunteerID string, limit, offset int) ([]domain.PointsTransaction, int, error) {
	if err := domain.CanViewVolunteer(actor, volunteerID); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Ledger().ListByVolunteer(ctx, volunteerID, limit, offset)
}
