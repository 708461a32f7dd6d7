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

type RatingRepository struct {
	q sqlx.ExtContext
}

type ratingRow struct {
	ID            string         `db:"id"`
	VolunteerID   string         `db:"volunteer_id"`
	TaskID        string         `db:"task_id"`
	RatedByUserID string         `db:"rated_by_user_id"`
	Score         int            `db:"score"`
	Comment       sql.NullString `db:"comment"`
	CreatedAt     time.Time      `db:"created_at"`
}

type ratingSummaryRow struct {
	Rating      sql.NullFloat64 `db:"rating"`
	RatingCount int             `db:"rating_count"`
}

var _ ports.RatingRepository = (*RatingRepository)(nil)

func (r *RatingRepository) Create(ctx context.Context, rating domain.VolunteerRating) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
INSERT INTO volunteer_ratings (id, volunteer_id, task_id, rated_by_user_id, score, comment, created_at)
VALUES (:id, :volunteer_id, :task_id, :rated_by_user_id, :score, :comment, :created_at)`, ratingRow{
		ID:            rating.ID,
		VolunteerID:   rating.VolunteerID,
		TaskID:        rating.TaskID,
		RatedByUserID: rating.RatedByUserID,
		Score:         rating.Score,
		Comment:       nullString(rating.Comment),
		CreatedAt:     rating.CreatedAt,
	})
	if _, dup := duplicateKey(err); dup {
		return domain.ErrAlreadyRated
	}
	return err
}

func (r *RatingRepository) Exists(ctx context.Context, taskID, ratedByUserID string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		"SELECT COUNT(*) FROM volunteer_ratings WHERE task_id = ? AND rated_by_user_id = ?", taskID, ratedByUserID)
	return n > 0, err
}

func (r *RatingRepository) LockSummary(ctx context.Context, volunteerID string) (domain.RatingSummary, error) {
	var row ratingSummaryRow
	err := sqlx.GetContext(ctx, r.q, &row,
		"SELECT rating, rating_count FROM volunteers WHERE user_id = ? FOR UPDATE", volunteerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RatingSummary{}, domain.ErrVolunteerNotFound
	}
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return domain.RatingSummary{Rating: row.Rating.Float64, RatingCount: row.RatingCount}, nil
}

func (r *RatingRepository) UpdateSummary(ctx context.Context, volunteerID string, summary domain.RatingSummary) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE volunteers SET rating = ?, rating_count = ? WHERE user_id = ?",
		summary.Rating, summary.RatingCount, volunteerID,
	)
	return err
}

func (r *RatingRepository) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.VolunteerRating, error) {
	var rows []ratingRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, `
SELECT id, volunteer_id, task_id, rated_by_user_id, score, comment, created_at
FROM volunteer_ratings
WHERE volunteer_id = ?
ORDER BY created_at DESC, id DESC`, volunteerID); err != nil {
		return nil, err
	}

	ratings := make([]domain.VolunteerRating, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, domain.VolunteerRating{
			ID:            row.ID,
			VolunteerID:   row.VolunteerID,
			TaskID:        row.TaskID,
			RatedByUserID: row.RatedByUserID,
			Score:         row.Score,
			Comment:       stringPtr(row.Comment),
			CreatedAt:     row.CreatedAt,
		})
	}
	return ratings, nil
}
