package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/memory"
	"github.com/philipp-moriss/volunteers-backend/internal/app/service"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

const (
	programID        = "program-1"
	otherProgramID   = "program-2"
	defaultProgramID = "program-default"

	needyID      = "needy-1"
	otherNeedyID = "needy-2"
	ruralNeedyID = "needy-3"
	adminID      = "admin-1"

	volunteer1 = "volunteer-1"
	volunteer2 = "volunteer-2"
	volunteer3 = "volunteer-3"
	outsider   = "volunteer-outsider"

	skillDriving = "skill-driving"
	skillCooking = "skill-cooking"
	categoryHelp = "category-help"

	cityNorth   = "city-north"
	cityHarbour = "city-harbour"
	citySouth   = "city-south"
	groupCoast  = "group-coast"
)

type recordingOutbox struct {
	mu     sync.Mutex
	events []domain.NotificationEvent
}

func (o *recordingOutbox) Enqueue(_ context.Context, events ...domain.NotificationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, events...)
}

func (o *recordingOutbox) all() []domain.NotificationEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.NotificationEvent(nil), o.events...)
}

func (o *recordingOutbox) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = nil
}

// messagesFor lists the message keys addressed directly to userID.
func (o *recordingOutbox) messagesFor(userID string) []string {
	var messages []string
	for _, event := range o.all() {
		if event.Audience == domain.AudienceUser && event.UserID == userID {
			messages = append(messages, event.Message)
		}
	}
	return messages
}

func (o *recordingOutbox) byKind(kind domain.NotificationKind) []domain.NotificationEvent {
	var events []domain.NotificationEvent
	for _, event := range o.all() {
		if event.Kind == kind {
			events = append(events, event)
		}
	}
	return events
}

type failingLedger struct{}

func (failingLedger) CreateTransaction(context.Context, domain.CreatePointsTransactionInput) (domain.PointsTransaction, error) {
	return domain.PointsTransaction{}, errors.New("ledger unavailable")
}

type fixture struct {
	store     *memory.Store
	outbox    *recordingOutbox
	points    *service.PointsService
	tasks     *service.TaskService
	responses *service.TaskResponseService
	ratings   *service.RatingService
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	seed(store)

	outbox := &recordingOutbox{}
	points := service.NewPointsService(store)
	return &fixture{
		store:     store,
		outbox:    outbox,
		points:    points,
		tasks:     service.NewTaskService(store, points, outbox, defaultProgramID),
		responses: service.NewTaskResponseService(store, outbox),
		ratings:   service.NewRatingService(store),
	}
}

func seed(store *memory.Store) {
	store.AddProgram(domain.Program{ID: programID, Name: "Neighbours"})
	store.AddProgram(domain.Program{ID: otherProgramID, Name: "Seniors"})
	store.AddProgram(domain.Program{ID: defaultProgramID, Name: "Default"})
	store.AddCategory(domain.Category{ID: categoryHelp, Name: "Help"})
	store.AddSkill(domain.Skill{ID: skillDriving, Name: "Driving"})
	store.AddSkill(domain.Skill{ID: skillCooking, Name: "Cooking"})

	store.AddCity(domain.City{ID: cityNorth, Name: "North", GroupID: strPtr(groupCoast), Latitude: floatPtr(32.1), Longitude: floatPtr(34.8)})
	store.AddCity(domain.City{ID: cityHarbour, Name: "Harbour", GroupID: strPtr(groupCoast)})
	store.AddCity(domain.City{ID: citySouth, Name: "South"})

	store.AddNeedy(domain.Needy{UserID: needyID, CityID: strPtr(cityNorth), Address: strPtr("1 Main st")})
	store.AddNeedy(domain.Needy{UserID: otherNeedyID, CityID: strPtr(citySouth)})
	store.AddNeedy(domain.Needy{UserID: ruralNeedyID})

	store.AddVolunteer(domain.Volunteer{UserID: volunteer1, ProgramIDs: []string{programID}, SkillIDs: []string{skillDriving}, CityID: strPtr(cityHarbour)})
	store.AddVolunteer(domain.Volunteer{UserID: volunteer2, ProgramIDs: []string{programID}, SkillIDs: []string{skillCooking}})
	store.AddVolunteer(domain.Volunteer{UserID: volunteer3, ProgramIDs: []string{programID, otherProgramID}, SkillIDs: []string{skillDriving, skillCooking}, CityID: strPtr(cityNorth)})
	store.AddVolunteer(domain.Volunteer{UserID: outsider, ProgramIDs: []string{otherProgramID}})
}

func needy(id string) domain.Actor { return domain.Actor{UserID: id, Role: domain.RoleNeedy} }

func volunteer(id string) domain.Actor { return domain.Actor{UserID: id, Role: domain.RoleVolunteer} }

func admin() domain.Actor { return domain.Actor{UserID: adminID, Role: domain.RoleAdmin} }

func (f *fixture) createTask(t *testing.T, owner string, opts ...func(*domain.CreateTaskInput)) domain.Task {
	t.Helper()

	input := domain.CreateTaskInput{
		ProgramID:   programID,
		Type:        "delivery",
		Title:       "Bring groceries",
		Description: "Two bags from the market",
	}
	for _, opt := range opts {
		opt(&input)
	}

	task, err := f.tasks.CreateTask(context.Background(), needy(owner), input)
	require.NoError(t, err)
	return task
}

func withSkills(ids ...string) func(*domain.CreateTaskInput) {
	return func(in *domain.CreateTaskInput) { in.SkillIDs = ids }
}

func firstResponse() func(*domain.CreateTaskInput) {
	return func(in *domain.CreateTaskInput) { in.FirstResponseMode = true }
}

func withPoints(points int) func(*domain.CreateTaskInput) {
	return func(in *domain.CreateTaskInput) { in.Points = &points }
}

func (f *fixture) respond(t *testing.T, taskID, volunteerID string) domain.TaskResponse {
	t.Helper()
	response, err := f.responses.Respond(context.Background(), volunteer(volunteerID), taskID)
	require.NoError(t, err)
	return response
}

func (f *fixture) task(t *testing.T, id string) domain.Task {
	t.Helper()
	task, err := f.tasks.GetTask(context.Background(), id)
	require.NoError(t, err)
	return task
}

func (f *fixture) responseStatus(t *testing.T, taskID, volunteerID string) domain.TaskResponseStatus {
	t.Helper()
	response, err := f.store.Responses().Find(context.Background(), taskID, volunteerID)
	require.NoError(t, err)
	return response.Status
}

func (f *fixture) approvedCount(t *testing.T, taskID string) int {
	t.Helper()
	responses, err := f.store.Responses().ListByTask(context.Background(), taskID)
	require.NoError(t, err)
	count := 0
	for _, response := range responses {
		if response.Status == domain.TaskResponseStatusApproved {
			count++
		}
	}
	return count
}

// requireConsistent checks that a task is assigned iff exactly one of its
// responses is approved, and that it is the assignee's.
func (f *fixture) requireConsistent(t *testing.T, taskID string) {
	t.Helper()
	task := f.task(t, taskID)
	if task.AssignedVolunteerID == nil {
		require.Zero(t, f.approvedCount(t, taskID))
		return
	}
	require.Equal(t, 1, f.approvedCount(t, taskID))
	require.Equal(t, domain.TaskResponseStatusApproved, f.responseStatus(t, taskID, *task.AssignedVolunteerID))
}

func (f *fixture) volunteerProfile(t *testing.T, id string) domain.Volunteer {
	t.Helper()
	v, err := f.store.Profiles().GetVolunteer(context.Background(), id)
	require.NoError(t, err)
	return v
}
