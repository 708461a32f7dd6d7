package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

func (f *fixture) completedTask(t *testing.T, owner, volunteerID string) domain.Task {
	t.Helper()
	ctx := context.Background()

	task := f.createTask(t, owner)
	_, err := f.tasks.AssignVolunteer(ctx, needy(owner), task.ID, volunteerID)
	require.NoError(t, err)
	_, err = f.tasks.ApproveCompletion(ctx, volunteer(volunteerID), task.ID, domain.ApproveRoleVolunteer)
	require.NoError(t, err)
	completed, err := f.tasks.ApproveCompletion(ctx, needy(owner), task.ID, domain.ApproveRoleNeedy)
	require.NoError(t, err)
	return completed
}

func TestRateVolunteer_UpdatesRunningAverage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.completedTask(t, needyID, volunteer1)
	second := f.completedTask(t, otherNeedyID, volunteer1)

	rating, summary, err := f.ratings.RateVolunteer(ctx, needy(needyID), domain.RateVolunteerInput{
		VolunteerID: volunteer1,
		TaskID:      first.ID,
		Score:       5,
		Comment:     strPtr("Quick and kind"),
	})
	require.NoError(t, err)
	assert.Equal(t, needyID, rating.RatedByUserID)
	assert.Equal(t, domain.RatingSummary{Rating: 5, RatingCount: 1}, summary)

	_, summary, err = f.ratings.RateVolunteer(ctx, needy(otherNeedyID), domain.RateVolunteerInput{
		VolunteerID: volunteer1,
		TaskID:      second.ID,
		Score:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RatingSummary{Rating: 3.5, RatingCount: 2}, summary)

	profile := f.volunteerProfile(t, volunteer1)
	require.NotNil(t, profile.Rating)
	assert.Equal(t, 3.5, *profile.Rating)
	assert.Equal(t, 2, profile.RatingCount)

	ratings, err := f.ratings.ListRatings(ctx, volunteer1)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, second.ID, ratings[0].TaskID)
}

func TestRateVolunteer_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	completed := f.completedTask(t, needyID, volunteer1)
	open := f.createTask(t, needyID)

	rate := func(actor domain.Actor, taskID, volunteerID string, score int) error {
		_, _, err := f.ratings.RateVolunteer(ctx, actor, domain.RateVolunteerInput{VolunteerID: volunteerID, TaskID: taskID, Score: score})
		return err
	}

	require.ErrorIs(t, rate(needy(needyID), completed.ID, volunteer1, 0), domain.ErrInvalidScore)
	require.ErrorIs(t, rate(needy(needyID), completed.ID, volunteer1, 6), domain.ErrInvalidArgument)
	require.ErrorIs(t, rate(volunteer(volunteer1), completed.ID, volunteer1, 5), domain.ErrSelfRating)
	require.ErrorIs(t, rate(needy(otherNeedyID), completed.ID, volunteer1, 5), domain.ErrNotTaskOwner)
	require.ErrorIs(t, rate(needy(needyID), open.ID, volunteer1, 5), domain.ErrTaskNotCompleted)
	require.ErrorIs(t, rate(needy(needyID), completed.ID, volunteer2, 5), domain.ErrNotAssignedVolunteer)

	require.NoError(t, rate(admin(), completed.ID, volunteer1, 4))
	require.NoError(t, rate(needy(needyID), completed.ID, volunteer1, 4))
	require.ErrorIs(t, rate(needy(needyID), completed.ID, volunteer1, 4), domain.ErrAlreadyRated)

	assert.Equal(t, 2, f.volunteerProfile(t, volunteer1).RatingCount)
}
