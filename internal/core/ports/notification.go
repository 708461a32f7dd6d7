package ports

import (
	"context"
	"errors"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

// ErrSubscriptionGone is returned by a PushSender when the endpoint no
// longer accepts messages and the subscription should be dropped.
var ErrSubscriptionGone = errors.New("push subscription gone")

// PayloadFunc renders a notification in the recipient's language.
type PayloadFunc func(lang string) domain.NotificationPayload

// NotificationSink delivers notifications to resolved audiences.
type NotificationSink interface {
	NotifyUser(ctx context.Context, userID string, payload PayloadFunc) error
	NotifyUsersBySkillsAndCity(ctx context.Context, skillIDs []string, programID string, cityID *string, payload PayloadFunc) error
	NotifyAllProgramVolunteers(ctx context.Context, programID string, cityID *string, payload PayloadFunc) error
	NotifyOthersExcept(ctx context.Context, programID, excludedUserID string, skillIDs []string, cityID *string, payload PayloadFunc) error
}

// Outbox accepts events after the owning transaction committed. Enqueue
// never blocks on delivery and never reports delivery failures.
type Outbox interface {
	Enqueue(ctx context.Context, events ...domain.NotificationEvent)
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event domain.NotificationEvent) error
}

type RecipientRepository interface {
	UserRecipient(ctx context.Context, userID string) (domain.Recipient, error)
	VolunteerRecipients(ctx context.Context, query domain.RecipientQuery) ([]domain.Recipient, error)
}

type SubscriptionRepository interface {
	SaveSubscription(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error)
	DeleteSubscriptions(ctx context.Context, userID string, endpoint *string) error
	DeleteSubscription(ctx context.Context, id string) error
	SubscriptionsFor(ctx context.Context, userIDs []string) ([]domain.PushSubscription, error)
}

type PushSender interface {
	Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, actor domain.Actor, endpoint, p256dh, auth string) (domain.PushSubscription, error)
	Unsubscribe(ctx context.Context, actor domain.Actor, endpoint *string) error
}
