package push

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

const defaultTTL = 24 * 60 * 60

type Config struct {
	PublicKey  string
	PrivateKey string
	// Subject is the VAPID contact, a mailto: or https: URL.
	Subject string
	TTL     int
}

// WebPushSender delivers messages to browser push services signed with
// the VAPID key pair.
type WebPushSender struct {
	cfg    Config
	client *http.Client
}

var _ ports.PushSender = (*WebPushSender)(nil)

func NewWebPushSender(cfg Config) *WebPushSender {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	return &WebPushSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.cfg.Subject,
		TTL:             s.cfg.TTL,
		VAPIDPublicKey:  s.cfg.PublicKey,
		VAPIDPrivateKey: s.cfg.PrivateKey,
	})
	if err != nil {
		return fmt.Errorf("send web push: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// checkStatus maps the push service answer; 404 and 410 mean the
// subscription expired or was revoked.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ports.ErrSubscriptionGone)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push service status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
