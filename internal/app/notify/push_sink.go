package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
	"github.com/philipp-moriss/volunteers-backend/pkg/translator"
)

const pushIcon = "/pwa-192x192.png"

// CityGroups resolves the set of cities sharing a group with a city.
type CityGroups interface {
	CityIDsForCity(ctx context.Context, cityID string) ([]string, error)
}

// PushSink resolves audiences to subscribed devices and sends Web Push
// messages rendered in each recipient's language.
type PushSink struct {
	recipients    ports.RecipientRepository
	subscriptions ports.SubscriptionRepository
	cities        CityGroups
	sender        ports.PushSender
}

var _ ports.NotificationSink = (*PushSink)(nil)

func NewPushSink(recipients ports.RecipientRepository, subscriptions ports.SubscriptionRepository, cities CityGroups, sender ports.PushSender) *PushSink {
	return &PushSink{
		recipients:    recipients,
		subscriptions: subscriptions,
		cities:        cities,
		sender:        sender,
	}
}

type pushMessage struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Icon  string            `json:"icon"`
	Badge string            `json:"badge"`
	Data  map[string]string `json:"data"`
	Tag   string            `json:"tag"`
}

func (s *PushSink) NotifyUser(ctx context.Context, userID string, payload ports.PayloadFunc) error {
	recipient, err := s.recipients.UserRecipient(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve recipient %s: %w", userID, err)
	}
	return s.send(ctx, []domain.Recipient{recipient}, payload)
}

// NotifyUsersBySkillsAndCity does nothing for a task without skills.
func (s *PushSink) NotifyUsersBySkillsAndCity(ctx context.Context, skillIDs []string, programID string, cityID *string, payload ports.PayloadFunc) error {
	if len(skillIDs) == 0 {
		return nil
	}
	return s.notifyVolunteers(ctx, domain.RecipientQuery{ProgramID: programID, SkillIDs: skillIDs}, cityID, payload)
}

func (s *PushSink) NotifyAllProgramVolunteers(ctx context.Context, programID string, cityID *string, payload ports.PayloadFunc) error {
	return s.notifyVolunteers(ctx, domain.RecipientQuery{ProgramID: programID}, cityID, payload)
}

func (s *PushSink) NotifyOthersExcept(ctx context.Context, programID, excludedUserID string, skillIDs []string, cityID *string, payload ports.PayloadFunc) error {
	query := domain.RecipientQuery{
		ProgramID:     programID,
		SkillIDs:      skillIDs,
		ExcludeUserID: excludedUserID,
	}
	return s.notifyVolunteers(ctx, query, cityID, payload)
}

func (s *PushSink) notifyVolunteers(ctx context.Context, query domain.RecipientQuery, cityID *string, payload ports.PayloadFunc) error {
	if cityID != nil {
		group, err := s.cities.CityIDsForCity(ctx, *cityID)
		if err != nil {
			return fmt.Errorf("resolve city group: %w", err)
		}
		query.CityIDs = domain.EffectiveCityIDs(cityID, group)
	}

	recipients, err := s.recipients.VolunteerRecipients(ctx, query)
	if err != nil {
		return fmt.Errorf("resolve volunteers: %w", err)
	}
	return s.send(ctx, recipients, payload)
}

func (s *PushSink) send(ctx context.Context, recipients []domain.Recipient, payload ports.PayloadFunc) error {
	if len(recipients) == 0 {
		return nil
	}

	languages := make(map[string]string, len(recipients))
	userIDs := make([]string, 0, len(recipients))
	for _, r := range recipients {
		lang := r.Language
		if lang == "" {
			lang = translator.DefaultLanguage
		}
		languages[r.UserID] = lang
		userIDs = append(userIDs, r.UserID)
	}

	subs, err := s.subscriptions.SubscriptionsFor(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("load subscriptions: %w", err)
	}

	rendered := make(map[string][]byte)
	var errs []error
	for _, sub := range subs {
		lang := languages[sub.UserID]
		body, ok := rendered[lang]
		if !ok {
			body, err = marshalPayload(payload(lang))
			if err != nil {
				return err
			}
			rendered[lang] = body
		}

		err := s.sender.Send(ctx, sub, body)
		if err == nil {
			continue
		}
		if errors.Is(err, ports.ErrSubscriptionGone) {
			if delErr := s.subscriptions.DeleteSubscription(ctx, sub.ID); delErr != nil {
				zap.L().Warn("failed to remove stale push subscription", zap.String("subscription_id", sub.ID), zap.Error(delErr))
			}
		}
		errs = append(errs, fmt.Errorf("push to user %s: %w", sub.UserID, err))
	}

	if len(errs) > 0 {
		zap.L().Warn("some push notifications failed", zap.Int("failed", len(errs)), zap.Int("total", len(subs)))
	}
	return errors.Join(errs...)
}

func marshalPayload(p domain.NotificationPayload) ([]byte, error) {
	data := p.Data
	if data == nil {
		data = map[string]string{}
	}
	body, err := json.Marshal(pushMessage{
		Title: p.Title,
		Body:  p.Body,
		Icon:  pushIcon,
		Badge: pushIcon,
		Data:  data,
		Tag:   p.Tag,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal push payload: %w", err)
	}
	return body, nil
}
