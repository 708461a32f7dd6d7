package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

type RatingService struct {
	store ports.Store
	now   func() time.Time
	newID func() string
}

func NewRatingService(store ports.Store) *RatingService {
	return &RatingService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

var _ ports.RatingService = (*RatingService)(nil)

func (s *RatingService) RateVolunteer(ctx context.Context, actor domain.Actor, input domain.RateVolunteerInput) (domain.VolunteerRating, domain.RatingSummary, error) {
	if input.Score < 1 || input.Score > 5 {
		return domain.VolunteerRating{}, domain.RatingSummary{}, domain.ErrInvalidScore
	}
	if actor.UserID == input.VolunteerID {
		return domain.VolunteerRating{}, domain.RatingSummary{}, domain.ErrSelfRating
	}

	var (
		rating  domain.VolunteerRating
		summary domain.RatingSummary
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		task, err := tx.Tasks().Get(ctx, input.TaskID)
		if err != nil {
			return err
		}
		if err := domain.Authorize(domain.OpRateVolunteer, actor, &task); err != nil {
			return err
		}
		if task.Status != domain.TaskStatusCompleted {
			return domain.ErrTaskNotCompleted
		}
		if !task.AssignedTo(input.VolunteerID) {
			return domain.ErrNotAssignedVolunteer
		}

		exists, err := tx.Ratings().Exists(ctx, task.ID, actor.UserID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyRated
		}

		current, err := tx.Ratings().LockSummary(ctx, input.VolunteerID)
		if err != nil {
			return err
		}

		rating = domain.VolunteerRating{
			ID:            s.newID(),
			VolunteerID:   input.VolunteerID,
			TaskID:        task.ID,
			RatedByUserID: actor.UserID,
			Score:         input.Score,
			Comment:       input.Comment,
			CreatedAt:     s.now(),
		}
		if err := tx.Ratings().Create(ctx, rating); err != nil {
			return err
		}

		summary = domain.NextRating(current, input.Score)
		return tx.Ratings().UpdateSummary(ctx, input.VolunteerID, summary)
	})
	if err != nil {
		return domain.VolunteerRating{}, domain.RatingSummary{}, err
	}
	return rating, summary, nil
}

func (s *RatingService) ListRatings(ctx context.Context, volunteerID string) ([]domain.VolunteerRating, error) {
	if _, err := s.store.Profiles().GetVolunteer(ctx, volunteerID); err != nil {
		return nil, err
	}
	return s.store.Ratings().ListByVolunteer(ctx, volunteerID)
}
