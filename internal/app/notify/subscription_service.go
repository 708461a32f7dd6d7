package notify

import (
	"context"
	"strings"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

type SubscriptionService struct {
	repo ports.SubscriptionRepository
}

var _ ports.SubscriptionService = (*SubscriptionService)(nil)

func NewSubscriptionService(repo ports.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

// Subscribe stores the device for actor, replacing the keys of an existing
// subscription with the same endpoint.
func (s *SubscriptionService) Subscribe(ctx context.Context, actor domain.Actor, endpoint, p256dh, auth string) (domain.PushSubscription, error) {
	if err := domain.Authorize(domain.OpManageSubscriptions, actor, nil); err != nil {
		return domain.PushSubscription{}, err
	}

	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" || strings.TrimSpace(p256dh) == "" || strings.TrimSpace(auth) == "" {
		return domain.PushSubscription{}, domain.ErrInvalidSubscription
	}

	return s.repo.SaveSubscription(ctx, domain.PushSubscription{
		UserID:   actor.UserID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	})
}

// Unsubscribe removes one endpoint, or every device of actor when endpoint is nil.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, actor domain.Actor, endpoint *string) error {
	if err := domain.Authorize(domain.OpManageSubscriptions, actor, nil); err != nil {
		return err
	}
	return s.repo.DeleteSubscriptions(ctx, actor.UserID, endpoint)
}
