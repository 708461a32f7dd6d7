package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

// NotificationRepository resolves push recipients and stores their
// subscriptions.
type NotificationRepository struct {
	q sqlx.ExtContext
}

type recipientRow struct {
	UserID   string         `db:"user_id"`
	Language sql.NullString `db:"language"`
}

type subscriptionRow struct {
	ID       string `db:"id"`
	UserID   string `db:"user_id"`
	Endpoint string `db:"endpoint"`
	P256dh   string `db:"p256dh"`
	Auth     string `db:"auth"`
}

var (
	_ ports.RecipientRepository    = (*NotificationRepository)(nil)
	_ ports.SubscriptionRepository = (*NotificationRepository)(nil)
)

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

func (r *NotificationRepository) UserRecipient(ctx context.Context, userID string) (domain.Recipient, error) {
	var row recipientRow
	err := sqlx.GetContext(ctx, r.q, &row, "SELECT id AS user_id, language FROM users WHERE id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Recipient{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.Recipient{}, err
	}
	return domain.Recipient{UserID: row.UserID, Language: row.Language.String}, nil
}

func (r *NotificationRepository) VolunteerRecipients(ctx context.Context, query domain.RecipientQuery) ([]domain.Recipient, error) {
	conds := []string{"vp.program_id = ?", "v.user_id <> ?"}
	args := []interface{}{query.ProgramID, query.ExcludeUserID}

	if len(query.SkillIDs) > 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM volunteer_skills vs WHERE vs.volunteer_id = v.user_id AND vs.skill_id IN (?))")
		args = append(args, query.SkillIDs)
	}
	if query.CityIDs != nil {
		if len(query.CityIDs) == 0 {
			conds = append(conds, "1 = 0")
		} else {
			conds = append(conds, "v.city_id IN (?)")
			args = append(args, query.CityIDs)
		}
	}

	stmt, args, err := in(r.q, `
SELECT u.id AS user_id, u.language
FROM volunteers v
JOIN users u ON u.id = v.user_id
JOIN volunteer_programs vp ON vp.volunteer_id = v.user_id
WHERE `+strings.Join(conds, " AND ")+`
ORDER BY u.id`, args...)
	if err != nil {
		return nil, err
	}

	var rows []recipientRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, stmt, args...); err != nil {
		return nil, err
	}
	recipients := make([]domain.Recipient, 0, len(rows))
	for _, row := range rows {
		recipients = append(recipients, domain.Recipient{UserID: row.UserID, Language: row.Language.String})
	}
	return recipients, nil
}

// SaveSubscription upserts by (user, endpoint) and returns the stored row.
func (r *NotificationRepository) SaveSubscription(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error) {
	_, err := r.q.ExecContext(ctx, `
INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE p256dh = VALUES(p256dh), auth = VALUES(auth)`,
		uuid.NewString(), sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth,
	)
	if err != nil {
		return domain.PushSubscription{}, err
	}

	var row subscriptionRow
	if err := sqlx.GetContext(ctx, r.q, &row,
		"SELECT id, user_id, endpoint, p256dh, auth FROM push_subscriptions WHERE user_id = ? AND endpoint = ?",
		sub.UserID, sub.Endpoint); err != nil {
		return domain.PushSubscription{}, err
	}
	return mapSubscriptionRow(row), nil
}

func (r *NotificationRepository) DeleteSubscriptions(ctx context.Context, userID string, endpoint *string) error {
	if endpoint == nil {
		_, err := r.q.ExecContext(ctx, "DELETE FROM push_subscriptions WHERE user_id = ?", userID)
		return err
	}
	_, err := r.q.ExecContext(ctx, "DELETE FROM push_subscriptions WHERE user_id = ? AND endpoint = ?", userID, *endpoint)
	return err
}

func (r *NotificationRepository) DeleteSubscription(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM push_subscriptions WHERE id = ?", id)
	return err
}

func (r *NotificationRepository) SubscriptionsFor(ctx context.Context, userIDs []string) ([]domain.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query, args, err := in(r.q,
		"SELECT id, user_id, endpoint, p256dh, auth FROM push_subscriptions WHERE user_id IN (?) ORDER BY id", userIDs)
	if err != nil {
		return nil, err
	}

	var rows []subscriptionRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, err
	}
	subs := make([]domain.PushSubscription, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, mapSubscriptionRow(row))
	}
	return subs, nil
}

func mapSubscriptionRow(row subscriptionRow) domain.PushSubscription {
	return domain.PushSubscription{
		ID:       row.ID,
		UserID:   row.UserID,
		Endpoint: row.Endpoint,
		P256dh:   row.P256dh,
		Auth:     row.Auth,
	}
}
