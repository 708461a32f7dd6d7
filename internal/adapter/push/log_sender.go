package push

import (
	"context"

	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

// LogSender only logs; used when no VAPID keys are configured.
type LogSender struct{}

var _ ports.PushSender = LogSender{}

func (LogSender) Send(_ context.Context, sub domain.PushSubscription, payload []byte) error {
	zap.L().Info("push notification (not sent)",
		zap.String("user_id", sub.UserID),
		zap.String("subscription_id", sub.ID),
		zap.ByteString("payload", payload),
	)
	return nil
}
