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

const responseColumns = "id, task_id, volunteer_id, program_id, status, created_at"

const approvedResponseKey = "uq_task_responses_approved"

type TaskResponseRepository struct {
	q sqlx.ExtContext
}

type taskResponseRow struct {
	ID          string    `db:"id"`
	TaskID      string    `db:"task_id"`
	VolunteerID string    `db:"volunteer_id"`
	ProgramID   string    `db:"program_id"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

var _ ports.TaskResponseRepository = (*TaskResponseRepository)(nil)

func (r *TaskResponseRepository) Create(ctx context.Context, response domain.TaskResponse) error {
	_, err := sqlx.NamedExecContext(ctx, r.q,
		"INSERT INTO task_responses ("+responseColumns+") VALUES (:id, :task_id, :volunteer_id, :program_id, :status, :created_at)",
		mapDomainResponseToRow(response),
	)
	if err == nil {
		return nil
	}
	if isDuplicateOf(err, approvedResponseKey) {
		return domain.ErrDuplicateApproval
	}
	if _, dup := duplicateKey(err); dup {
		return domain.ErrAlreadyResponded
	}
	return err
}

func (r *TaskResponseRepository) Find(ctx context.Context, taskID, volunteerID string) (domain.TaskResponse, error) {
	var row taskResponseRow
	err := sqlx.GetContext(ctx, r.q, &row,
		"SELECT "+responseColumns+" FROM task_responses WHERE task_id = ? AND volunteer_id = ?",
		taskID, volunteerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TaskResponse{}, domain.ErrResponseNotFound
	}
	if err != nil {
		return domain.TaskResponse{}, err
	}
	return mapResponseRowToDomain(row), nil
}

func (r *TaskResponseRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskResponseStatus) error {
	res, err := r.q.ExecContext(ctx, "UPDATE task_responses SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		if isDuplicateOf(err, approvedResponseKey) {
			return domain.ErrDuplicateApproval
		}
		return err
	}
	return requireAffected(res, func() (bool, error) { return r.exists(ctx, id) }, domain.ErrResponseNotFound)
}

func (r *TaskResponseRepository) RejectPendingExcept(ctx context.Context, taskID, volunteerID string) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		"UPDATE task_responses SET status = ? WHERE task_id = ? AND volunteer_id <> ? AND status = ?",
		string(domain.TaskResponseStatusRejected), taskID, volunteerID, string(domain.TaskResponseStatusPending),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TaskResponseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM task_responses WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrResponseNotFound
	}
	return nil
}

func (r *TaskResponseRepository) ListByTask(ctx context.Context, taskID string) ([]domain.TaskResponse, error) {
	return r.list(ctx,
		"SELECT "+responseColumns+" FROM task_responses WHERE task_id = ? ORDER BY created_at DESC, id DESC",
		taskID,
	)
}

func (r *TaskResponseRepository) ListByVolunteer(ctx context.Context, volunteerID string, status *domain.TaskResponseStatus) ([]domain.TaskResponse, error) {
	if status == nil {
		return r.list(ctx,
			"SELECT "+responseColumns+" FROM task_responses WHERE volunteer_id = ? ORDER BY created_at DESC, id DESC",
			volunteerID,
		)
	}
	return r.list(ctx,
		"SELECT "+responseColumns+" FROM task_responses WHERE volunteer_id = ? AND status = ? ORDER BY created_at DESC, id DESC",
		volunteerID, string(*status),
	)
}

func (r *TaskResponseRepository) RespondedTaskIDs(ctx context.Context, volunteerID string, taskIDs []string) (map[string]bool, error) {
	responded := make(map[string]bool)
	if len(taskIDs) == 0 {
		return responded, nil
	}

	query, args, err := in(r.q, "SELECT task_id FROM task_responses WHERE volunteer_id = ? AND task_id IN (?)", volunteerID, taskIDs)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := sqlx.SelectContext(ctx, r.q, &ids, query, args...); err != nil {
		return nil, err
	}
	for _, id := range ids {
		responded[id] = true
	}
	return responded, nil
}

func (r *TaskResponseRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.TaskResponse, error) {
	var rows []taskResponseRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, err
	}

	responses := make([]domain.TaskResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, mapResponseRowToDomain(row))
	}
	return responses, nil
}

func (r *TaskResponseRepository) exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, "SELECT COUNT(*) FROM task_responses WHERE id = ?", id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func mapDomainResponseToRow(response domain.TaskResponse) taskResponseRow {
	return taskResponseRow{
		ID:          response.ID,
		TaskID:      response.TaskID,
		VolunteerID: response.VolunteerID,
		ProgramID:   response.ProgramID,
		Status:      string(response.Status),
		CreatedAt:   response.CreatedAt,
	}
}

func mapResponseRowToDomain(row taskResponseRow) domain.TaskResponse {
	return domain.TaskResponse{
		ID:          row.ID,
		TaskID:      row.TaskID,
		VolunteerID: row.VolunteerID,
		ProgramID:   row.ProgramID,
		Status:      domain.TaskResponseStatus(row.Status),
		CreatedAt:   row.CreatedAt,
	}
}
