package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

const mysqlDuplicateEntry = 1062

// Store runs every repository on either the pool or one transaction.
type Store struct {
	db *sqlx.DB
	q  sqlx.ExtContext
	tx *sqlx.Tx
}

var _ ports.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &Store{db: s.db, q: tx, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Tasks() ports.TaskRepository {
	return &TaskRepository{q: s.q}
}

func (s *Store) Responses() ports.TaskResponseRepository {
	return &TaskResponseRepository{q: s.q}
}

func (s *Store) Profiles() ports.ProfileRepository {
	return &ProfileRepository{q: s.q}
}

func (s *Store) Ledger() ports.PointsRepository {
	return &PointsRepository{q: s.q}
}

func (s *Store) Ratings() ports.RatingRepository {
	return &RatingRepository{q: s.q}
}

func (s *Store) Catalog() ports.CatalogRepository {
	return &CatalogRepository{q: s.q}
}

// duplicateKey reports whether err is a unique-index violation and, if so,
// the message naming the violated key.
func duplicateKey(err error) (string, bool) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return mysqlErr.Message, true
	}
	return "", false
}

func isDuplicateOf(err error, key string) bool {
	msg, ok := duplicateKey(err)
	return ok && strings.Contains(msg, key)
}

// in expands slice arguments and rebinds the query for the driver.
func in(q sqlx.ExtContext, query string, args ...interface{}) (string, []interface{}, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return q.Rebind(query), args, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	value := v.String
	return &value
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	value := v.Float64
	return &value
}
