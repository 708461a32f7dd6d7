package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

type ProfileRepository struct {
	q sqlx.ExtContext
}

type volunteerRow struct {
	UserID              string          `db:"user_id"`
	CityID              sql.NullString  `db:"city_id"`
	Points              int             `db:"points"`
	CompletedTasksCount int             `db:"completed_tasks_count"`
	Rating              sql.NullFloat64 `db:"rating"`
	RatingCount         int             `db:"rating_count"`
}

type needyRow struct {
	UserID  string         `db:"user_id"`
	CityID  sql.NullString `db:"city_id"`
	Address sql.NullString `db:"address"`
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

func (r *ProfileRepository) GetVolunteer(ctx context.Context, userID string) (domain.Volunteer, error) {
	var row volunteerRow
	err := sqlx.GetContext(ctx, r.q, &row, `
SELECT user_id, city_id, points, completed_tasks_count, rating, rating_count
FROM volunteers
WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Volunteer{}, domain.ErrVolunteerNotFound
	}
	if err != nil {
		return domain.Volunteer{}, err
	}

	volunteer := domain.Volunteer{
		UserID:              row.UserID,
		CityID:              stringPtr(row.CityID),
		Points:              row.Points,
		CompletedTasksCount: row.CompletedTasksCount,
		Rating:              floatPtr(row.Rating),
		RatingCount:         row.RatingCount,
	}

	if err := sqlx.SelectContext(ctx, r.q, &volunteer.ProgramIDs,
		"SELECT program_id FROM volunteer_programs WHERE volunteer_id = ? ORDER BY program_id", userID); err != nil {
		return domain.Volunteer{}, err
	}
	if err := sqlx.SelectContext(ctx, r.q, &volunteer.SkillIDs,
		"SELECT skill_id FROM volunteer_skills WHERE volunteer_id = ? ORDER BY skill_id", userID); err != nil {
		return domain.Volunteer{}, err
	}

	return volunteer, nil
}

func (r *ProfileRepository) GetNeedy(ctx context.Context, userID string) (domain.Needy, error) {
	var row needyRow
	err := sqlx.GetContext(ctx, r.q, &row, "SELECT user_id, city_id, address FROM needies WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Needy{}, domain.ErrNeedyNotFound
	}
	if err != nil {
		return domain.Needy{}, err
	}

	return domain.Needy{
		UserID:  row.UserID,
		CityID:  stringPtr(row.CityID),
		Address: stringPtr(row.Address),
	}, nil
}
