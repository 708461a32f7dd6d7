package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

var (
	_ ports.RecipientRepository    = (*Store)(nil)
	_ ports.SubscriptionRepository = (*Store)(nil)
)

func (s *Store) UserRecipient(_ context.Context, userID string) (domain.Recipient, error) {
	var recipient domain.Recipient
	err := s.read(func(d *dataset) error {
		_, isVolunteer := d.volunteers[userID]
		_, isNeedy := d.needies[userID]
		if !isVolunteer && !isNeedy {
			return domain.ErrUserNotFound
		}
		recipient = domain.Recipient{UserID: userID, Language: d.languages[userID]}
		return nil
	})
	return recipient, err
}

func (s *Store) VolunteerRecipients(_ context.Context, query domain.RecipientQuery) ([]domain.Recipient, error) {
	var recipients []domain.Recipient
	err := s.read(func(d *dataset) error {
		for _, v := range d.volunteers {
			if !matchesRecipientQuery(v, query) {
				continue
			}
			recipients = append(recipients, domain.Recipient{UserID: v.UserID, Language: d.languages[v.UserID]})
		}
		return nil
	})
	sort.Slice(recipients, func(i, j int) bool { return recipients[i].UserID < recipients[j].UserID })
	return recipients, err
}

func matchesRecipientQuery(v domain.Volunteer, query domain.RecipientQuery) bool {
	if v.UserID == query.ExcludeUserID || !v.InProgram(query.ProgramID) {
		return false
	}
	if len(query.SkillIDs) > 0 && !anyIn(v.SkillIDs, query.SkillIDs) {
		return false
	}
	if query.CityIDs != nil && (v.CityID == nil || !anyIn([]string{*v.CityID}, query.CityIDs)) {
		return false
	}
	return true
}

func anyIn(values, set []string) bool {
	for _, v := range values {
		for _, s := range set {
			if v == s {
				return true
			}
		}
	}
	return false
}

func (s *Store) SaveSubscription(_ context.Context, sub domain.PushSubscription) (domain.PushSubscription, error) {
	err := s.write(func(d *dataset) error {
		for id, existing := range d.subscriptions {
			if existing.UserID == sub.UserID && existing.Endpoint == sub.Endpoint {
				sub.ID = id
				break
			}
		}
		if sub.ID == "" {
			sub.ID = uuid.NewString()
		}
		d.subscriptions[sub.ID] = sub
		return nil
	})
	return sub, err
}

func (s *Store) DeleteSubscriptions(_ context.Context, userID string, endpoint *string) error {
	return s.write(func(d *dataset) error {
		for id, sub := range d.subscriptions {
			if sub.UserID != userID {
				continue
			}
			if endpoint != nil && sub.Endpoint != *endpoint {
				continue
			}
			delete(d.subscriptions, id)
		}
		return nil
	})
}

func (s *Store) DeleteSubscription(_ context.Context, id string) error {
	return s.write(func(d *dataset) error {
		delete(d.subscriptions, id)
		return nil
	})
}

func (s *Store) SubscriptionsFor(_ context.Context, userIDs []string) ([]domain.PushSubscription, error) {
	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	var subs []domain.PushSubscription
	err := s.read(func(d *dataset) error {
		for _, sub := range d.subscriptions {
			if _, ok := wanted[sub.UserID]; ok {
				subs = append(subs, sub)
			}
		}
		return nil
	})
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, err
}
