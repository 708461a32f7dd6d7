package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

type candidateTasks struct {
	northOpen     domain.Task
	northCooking  domain.Task
	south         domain.Task
	rural         domain.Task
	ruralDriving  domain.Task
	otherProgram  domain.Task
	ruralAssigned domain.Task
}

func seedCandidates(t *testing.T, f *fixture) candidateTasks {
	t.Helper()

	c := candidateTasks{
		northOpen:    f.createTask(t, needyID),
		northCooking: f.createTask(t, needyID, withSkills(skillCooking)),
		south:        f.createTask(t, otherNeedyID),
		rural:        f.createTask(t, ruralNeedyID),
		ruralDriving: f.createTask(t, ruralNeedyID, withSkills(skillDriving)),
		otherProgram: f.createTask(t, ruralNeedyID, func(in *domain.CreateTaskInput) { in.ProgramID = otherProgramID }),
	}
	c.ruralAssigned = f.createTask(t, ruralNeedyID)
	_, err := f.tasks.AssignVolunteer(context.Background(), needy(ruralNeedyID), c.ruralAssigned.ID, volunteer3)
	require.NoError(t, err)
	return c
}

func candidateIDs(t *testing.T, f *fixture, volunteerID string, status *domain.TaskStatus) []string {
	t.Helper()
	tasks, err := f.tasks.ListCandidateTasks(context.Background(), volunteer(volunteerID), status)
	require.NoError(t, err)
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestListCandidateTasks_CityGroupAndSkills(t *testing.T) {
	f := newFixture(t)
	c := seedCandidates(t, f)

	// volunteer1 lives in the harbour, grouped with the north, and drives.
	ids := candidateIDs(t, f, volunteer1, nil)

	assert.ElementsMatch(t, []string{c.northOpen.ID, c.rural.ID, c.ruralDriving.ID}, ids)
}

func TestListCandidateTasks_VolunteerWithoutCitySeesOnlyCitylessTasks(t *testing.T) {
	f := newFixture(t)
	c := seedCandidates(t, f)

	ids := candidateIDs(t, f, volunteer2, nil)

	assert.ElementsMatch(t, []string{c.rural.ID}, ids)
}

func TestListCandidateTasks_SpansAllVolunteerPrograms(t *testing.T) {
	f := newFixture(t)
	c := seedCandidates(t, f)

	ids := candidateIDs(t, f, volunteer3, nil)

	assert.ElementsMatch(t, []string{c.northOpen.ID, c.northCooking.ID, c.rural.ID, c.ruralDriving.ID, c.otherProgram.ID}, ids)
	assert.NotContains(t, ids, c.south.ID)
}

func TestListCandidateTasks_StatusFilter(t *testing.T) {
	f := newFixture(t)
	c := seedCandidates(t, f)
	inProgress := domain.TaskStatusInProgress

	ids := candidateIDs(t, f, volunteer1, &inProgress)

	assert.Equal(t, []string{c.ruralAssigned.ID}, ids)
}

func TestListCandidateTasks_MarksOwnResponses(t *testing.T) {
	f := newFixture(t)
	c := seedCandidates(t, f)
	f.respond(t, c.rural.ID, volunteer1)

	tasks, err := f.tasks.ListCandidateTasks(context.Background(), volunteer(volunteer1), nil)
	require.NoError(t, err)

	responded := map[string]bool{}
	for _, task := range tasks {
		responded[task.ID] = task.HasMyResponse
	}
	assert.True(t, responded[c.rural.ID])
	assert.False(t, responded[c.northOpen.ID])
	assert.False(t, responded[c.ruralDriving.ID])
}

func TestListCandidateTasks_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tasks.ListCandidateTasks(ctx, needy(needyID), nil)
	require.ErrorIs(t, err, domain.ErrRoleNotAllowed)

	_, err = f.tasks.ListCandidateTasks(ctx, volunteer("volunteer-unknown"), nil)
	require.ErrorIs(t, err, domain.ErrVolunteerNotFound)

	tasks, err := f.tasks.ListCandidateTasks(ctx, volunteer(volunteer1), nil)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}
