package domain

import (
	"fmt"
	"time"
)

type PointsTransactionType string

const (
	PointsTransactionTaskCompletion   PointsTransactionType = "task_completion"
	PointsTransactionManualAdjustment PointsTransactionType = "manual_adjustment"
	PointsTransactionRefund           PointsTransactionType = "refund"
)

func (t PointsTransactionType) Valid() bool {
	switch t {
	case PointsTransactionTaskCompletion, PointsTransactionManualAdjustment, PointsTransactionRefund:
		return true
	}
	return false
}

type PointsTransactionStatus string

const (
	PointsTransactionPending   PointsTransactionStatus = "pending"
	PointsTransactionCompleted PointsTransactionStatus = "completed"
	PointsTransactionCancelled PointsTransactionStatus = "cancelled"
)

// PointsTransaction is an immutable ledger entry.
type PointsTransaction struct {
	ID            string
	VolunteerID   string
	TaskID        *string
	Amount        int
	Type          PointsTransactionType
	Status        PointsTransactionStatus
	Description   *string
	BalanceBefore int
	BalanceAfter  int
	CreatedAt     time.Time
}

type CreatePointsTransactionInput struct {
	VolunteerID string
	TaskID      *string
	Amount      int
	Type        PointsTransactionType
	Description *string
}

func (in CreatePointsTransactionInput) Validate() error {
	if !in.Type.Valid() {
		return ErrInvalidTransactionType
	}
	// A zero-point task still counts as completed.
	if in.Amount == 0 && in.Type != PointsTransactionTaskCompletion {
		return ErrZeroAmount
	}
	return nil
}

// Apply returns the balance after the transaction, rejecting a negative result.
func (in CreatePointsTransactionInput) Apply(balanceBefore int) (int, error) {
	after := balanceBefore + in.Amount
	if after < 0 {
		return balanceBefore, fmt.Errorf("%w: current balance %d, requested %d", ErrInsufficientBalance, balanceBefore, in.Amount)
	}
	return after, nil
}

// Balance is the running total held on a volunteer profile.
type Balance struct {
	Points              int
	CompletedTasksCount int
}
