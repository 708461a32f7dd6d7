package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

const (
	pointsColumns     = "id, volunteer_id, task_id, amount, type, status, description, balance_before, balance_after, created_at"
	taskCompletionKey = "uq_points_transactions_completion"
)

type PointsRepository struct {
	q sqlx.ExtContext
}

type pointsTransactionRow struct {
	ID            string         `db:"id"`
	VolunteerID   string         `db:"volunteer_id"`
	TaskID        sql.NullString `db:"task_id"`
	Amount        int            `db:"amount"`
	Type          string         `db:"type"`
	Status        string         `db:"status"`
	Description   sql.NullString `db:"description"`
	BalanceBefore int            `db:"balance_before"`
	BalanceAfter  int            `db:"balance_after"`
	CreatedAt     time.Time      `db:"created_at"`
}

type balanceRow struct {
	Points              int `db:"points"`
	CompletedTasksCount int `db:"completed_tasks_count"`
}

var _ ports.PointsRepository = (*PointsRepository)(nil)

func (r *PointsRepository) LockVolunteerBalance(ctx context.Context, volunteerID string) (domain.Balance, error) {
	var row balanceRow
	err := sqlx.GetContext(ctx, r.q, &row,
		"SELECT points, completed_tasks_count FROM volunteers WHERE user_id = ? FOR UPDATE", volunteerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Balance{}, domain.ErrVolunteerNotFound
	}
	if err != nil {
		return domain.Balance{}, err
	}
	return domain.Balance{Points: row.Points, CompletedTasksCount: row.CompletedTasksCount}, nil
}

func (r *PointsRepository) UpdateVolunteerBalance(ctx context.Context, volunteerID string, balance domain.Balance) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE volunteers SET points = ?, completed_tasks_count = ? WHERE user_id = ?",
		balance.Points, balance.CompletedTasksCount, volunteerID,
	)
	return err
}

func (r *PointsRepository) Insert(ctx context.Context, txn domain.PointsTransaction) error {
	row := pointsTransactionRow{
		ID:            txn.ID,
		VolunteerID:   txn.VolunteerID,
		TaskID:        nullString(txn.TaskID),
		Amount:        txn.Amount,
		Type:          string(txn.Type),
		Status:        string(txn.Status),
		Description:   nullString(txn.Description),
		BalanceBefore: txn.BalanceBefore,
		BalanceAfter:  txn.BalanceAfter,
		CreatedAt:     txn.CreatedAt,
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, `
INSERT INTO points_transactions (`+pointsColumns+`)
VALUES (:id, :volunteer_id, :task_id, :amount, :type, :status, :description, :balance_before, :balance_after, :created_at)`, row)
	if isDuplicateOf(err, taskCompletionKey) {
		return domain.ErrDuplicateTaskCredit
	}
	return err
}

func (r *PointsRepository) ListByVolunteer(ctx context.Context, volunteerID string, limit, offset int) ([]domain.PointsTransaction, int, error) {
	var total int
	if err := sqlx.GetContext(ctx, r.q, &total,
		"SELECT COUNT(*) FROM points_transactions WHERE volunteer_id = ?", volunteerID); err != nil {
		return nil, 0, err
	}

	var rows []pointsTransactionRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, `
SELECT `+pointsColumns+`
FROM points_transactions
WHERE volunteer_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`, volunteerID, limit, offset); err != nil {
		return nil, 0, err
	}

	txns := make([]domain.PointsTransaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, domain.PointsTransaction{
			ID:            row.ID,
			VolunteerID:   row.VolunteerID,
			TaskID:        stringPtr(row.TaskID),
			Amount:        row.Amount,
			Type:          domain.PointsTransactionType(row.Type),
			Status:        domain.PointsTransactionStatus(row.Status),
			Description:   stringPtr(row.Description),
			BalanceBefore: row.BalanceBefore,
			BalanceAfter:  row.BalanceAfter,
			CreatedAt:     row.CreatedAt,
		})
	}
	return txns, total, nil
}
