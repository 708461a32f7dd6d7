//go:build integration
// +build integration

package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	dbadapter "github.com/philipp-moriss/volunteers-backend/internal/adapter/db"
	"github.com/philipp-moriss/volunteers-backend/internal/app/notify"
	appservice "github.com/philipp-moriss/volunteers-backend/internal/app/service"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

type discardOutbox struct{}

func (discardOutbox) Enqueue(context.Context, ...domain.NotificationEvent) {}

type StoreIntegrationSuite struct {
	IntegrationSuiteBase
	store *dbadapter.Store
}

func TestStoreIntegrationSuite(t *testing.T) {
	suite.Run(t, new(StoreIntegrationSuite))
}

func (s *StoreIntegrationSuite) SetupTest() {
	s.ResetDatabase()
	s.Exec("INSERT INTO programs (id, name) VALUES ('prog-1', 'Program')")
	s.Exec("INSERT INTO users (id, role) VALUES ('needy-1', 'needy'), ('vol-1', 'volunteer'), ('vol-2', 'volunteer')")
	s.Exec("INSERT INTO needies (user_id) VALUES ('needy-1')")
	s.Exec("INSERT INTO volunteers (user_id) VALUES ('vol-1'), ('vol-2')")
	s.Exec("INSERT INTO volunteer_programs (volunteer_id, program_id) VALUES ('vol-1', 'prog-1'), ('vol-2', 'prog-1')")
	s.store = dbadapter.NewStore(s.DB)
}

func (s *StoreIntegrationSuite) createTask(tasks *appservice.TaskService) domain.Task {
	task, err := tasks.CreateTask(context.Background(), domain.Actor{UserID: "needy-1", Role: domain.RoleNeedy}, domain.CreateTaskInput{
		ProgramID:   "prog-1",
		NeedyID:     "needy-1",
		Type:        "delivery",
		Title:       "Groceries",
		Description: "Milk",
	})
	s.Require().NoError(err)
	return task
}

func (s *StoreIntegrationSuite) TestConcurrentApprovalsAssignOnce() {
	ctx := context.Background()
	points := appservice.NewPointsService(s.store)
	tasks := appservice.NewTaskService(s.store, points, discardOutbox{}, "prog-1")
	responses := appservice.NewTaskResponseService(s.store, discardOutbox{})

	task := s.createTask(tasks)
	for _, volunteerID := range []string{"vol-1", "vol-2"} {
		_, err := responses.Respond(ctx, domain.Actor{UserID: volunteerID, Role: domain.RoleVolunteer}, task.ID)
		s.Require().NoError(err)
	}

	needy := domain.Actor{UserID: "needy-1", Role: domain.RoleNeedy}
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, volunteerID := range []string{"vol-1", "vol-2"} {
		wg.Add(1)
		go func(i int, volunteerID string) {
			defer wg.Done()
			_, _, errs[i] = responses.ApproveVolunteer(ctx, needy, task.ID, volunteerID)
		}(i, volunteerID)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.Require().True(errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrConflict), err.Error())
	}
	s.Require().Equal(1, succeeded)

	var approved int
	s.Require().NoError(s.DB.Get(&approved, "SELECT COUNT(*) FROM task_responses WHERE task_id = ? AND status = 'approved'", task.ID))
	s.Require().Equal(1, approved)
}

func (s *StoreIntegrationSuite) TestTaskCreditIsRecordedOnce() {
	ctx := context.Background()
	points := appservice.NewPointsService(s.store)
	tasks := appservice.NewTaskService(s.store, points, discardOutbox{}, "prog-1")
	task := s.createTask(tasks)

	input := domain.CreatePointsTransactionInput{
		VolunteerID: "vol-1",
		TaskID:      &task.ID,
		Amount:      task.Points,
		Type:        domain.PointsTransactionTaskCompletion,
	}
	_, err := points.CreateTransaction(ctx, input)
	s.Require().NoError(err)

	_, err = points.CreateTransaction(ctx, input)
	s.Require().ErrorIs(err, domain.ErrDuplicateTaskCredit)

	var balance struct {
		Points    int `db:"points"`
		Completed int `db:"completed_tasks_count"`
	}
	s.Require().NoError(s.DB.Get(&balance, "SELECT points, completed_tasks_count FROM volunteers WHERE user_id = 'vol-1'"))
	s.Require().Equal(task.Points, balance.Points)
	s.Require().Equal(1, balance.Completed)

	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	for i := 0; i < 2; i++ {
		_, err = points.Adjust(ctx, admin, domain.CreatePointsTransactionInput{
			VolunteerID: "vol-1",
			TaskID:      &task.ID,
			Amount:      2,
			Type:        domain.PointsTransactionRefund,
		})
		s.Require().NoError(err)
	}

	s.Require().NoError(s.DB.Get(&balance, "SELECT points, completed_tasks_count FROM volunteers WHERE user_id = 'vol-1'"))
	s.Require().Equal(task.Points+4, balance.Points)
	s.Require().Equal(1, balance.Completed)
}

func (s *StoreIntegrationSuite) TestNotificationRepository() {
	ctx := context.Background()
	repo := dbadapter.NewNotificationRepository(s.DB)
	s.Exec("UPDATE users SET language = 'ru' WHERE id = 'vol-2'")
	s.Exec("INSERT INTO skills (id, name) VALUES ('driving', 'Driving')")
	s.Exec("INSERT INTO volunteer_skills (volunteer_id, skill_id) VALUES ('vol-2', 'driving')")

	recipient, err := repo.UserRecipient(ctx, "vol-2")
	s.Require().NoError(err)
	s.Require().Equal(domain.Recipient{UserID: "vol-2", Language: "ru"}, recipient)

	_, err = repo.UserRecipient(ctx, "ghost")
	s.Require().ErrorIs(err, domain.ErrUserNotFound)

	all, err := repo.VolunteerRecipients(ctx, domain.RecipientQuery{ProgramID: "prog-1", ExcludeUserID: "vol-1"})
	s.Require().NoError(err)
	s.Require().Equal([]domain.Recipient{{UserID: "vol-2", Language: "ru"}}, all)

	skilled, err := repo.VolunteerRecipients(ctx, domain.RecipientQuery{ProgramID: "prog-1", SkillIDs: []string{"driving"}})
	s.Require().NoError(err)
	s.Require().Len(skilled, 1)

	nowhere, err := repo.VolunteerRecipients(ctx, domain.RecipientQuery{ProgramID: "prog-1", CityIDs: []string{}})
	s.Require().NoError(err)
	s.Require().Empty(nowhere)

	subscriptions := notify.NewSubscriptionService(repo)
	actor := domain.Actor{UserID: "vol-1", Role: domain.RoleVolunteer}
	sub, err := subscriptions.Subscribe(ctx, actor, "https://push.example.org/a", "k", "a")
	s.Require().NoError(err)

	subs, err := repo.SubscriptionsFor(ctx, []string{"vol-1", "vol-2"})
	s.Require().NoError(err)
	s.Require().Len(subs, 1)
	s.Require().Equal(sub.ID, subs[0].ID)

	s.Require().NoError(repo.DeleteSubscription(ctx, sub.ID))
	subs, err = repo.SubscriptionsFor(ctx, []string{"vol-1"})
	s.Require().NoError(err)
	s.Require().Empty(subs)
}
