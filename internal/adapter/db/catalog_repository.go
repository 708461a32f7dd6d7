package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

type CatalogRepository struct {
	q sqlx.ExtContext
}

type namedRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type skillRow struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	CategoryID sql.NullString `db:"category_id"`
}

type cityRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Latitude    sql.NullFloat64 `db:"latitude"`
	Longitude   sql.NullFloat64 `db:"longitude"`
	CityGroupID sql.NullString  `db:"city_group_id"`
}

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

func (r *CatalogRepository) FindProgram(ctx context.Context, id string) (domain.Program, error) {
	var row namedRow
	err := sqlx.GetContext(ctx, r.q, &row, "SELECT id, name FROM programs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Program{}, domain.ErrProgramNotFound
	}
	if err != nil {
		return domain.Program{}, err
	}
	return domain.Program{ID: row.ID, Name: row.Name}, nil
}

func (r *CatalogRepository) FindCategory(ctx context.Context, id string) (domain.Category, error) {
	var row namedRow
	err := sqlx.GetContext(ctx, r.q, &row, "SELECT id, name FROM categories WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	if err != nil {
		return domain.Category{}, err
	}
	return domain.Category{ID: row.ID, Name: row.Name}, nil
}

func (r *CatalogRepository) FindSkillsByIDs(ctx context.Context, ids []string) ([]domain.Skill, error) {
	if len(ids) == 0 {
		return []domain.Skill{}, nil
	}
	query, args, err := in(r.q, "SELECT id, name, category_id FROM skills WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}

	var rows []skillRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, err
	}
	skills := make([]domain.Skill, 0, len(rows))
	for _, row := range rows {
		skills = append(skills, domain.Skill{ID: row.ID, Name: row.Name, CategoryID: stringPtr(row.CategoryID)})
	}
	return skills, nil
}

func (r *CatalogRepository) FindCity(ctx context.Context, id string) (domain.City, error) {
	var row cityRow
	err := sqlx.GetContext(ctx, r.q, &row,
		"SELECT id, name, latitude, longitude, city_group_id FROM cities WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.City{}, domain.ErrCityNotFound
	}
	if err != nil {
		return domain.City{}, err
	}
	return domain.City{
		ID:        row.ID,
		Name:      row.Name,
		Latitude:  floatPtr(row.Latitude),
		Longitude: floatPtr(row.Longitude),
		GroupID:   stringPtr(row.CityGroupID),
	}, nil
}

func (r *CatalogRepository) CityIDsForCity(ctx context.Context, cityID string) ([]string, error) {
	city, err := r.FindCity(ctx, cityID)
	if errors.Is(err, domain.ErrCityNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if city.GroupID == nil {
		return []string{city.ID}, nil
	}

	var ids []string
	if err := sqlx.SelectContext(ctx, r.q, &ids,
		"SELECT id FROM cities WHERE city_group_id = ? ORDER BY id", *city.GroupID); err != nil {
		return nil, err
	}
	return ids, nil
}
