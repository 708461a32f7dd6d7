package tests

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

var (
	needyActor     = domain.Actor{UserID: "needy-1", Role: domain.RoleNeedy}
	volunteerActor = domain.Actor{UserID: "vol-1", Role: domain.RoleVolunteer}
	adminActor     = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
)

// withActor stands in for AuthMiddleware in handler tests.
func withActor(actor domain.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	}
}

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) CreateTask(ctx context.Context, actor domain.Actor, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, actor, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, actor domain.Actor, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, actor, taskID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, taskID string) (domain.Task, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) GetTaskForVolunteer(ctx context.Context, actor domain.Actor, taskID string) (domain.TaskWithMyResponse, error) {
	args := m.Called(ctx, actor, taskID)
	return args.Get(0).(domain.TaskWithMyResponse), args.Error(1)
}

func (m *taskServiceMock) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, filter)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) ListMyTasks(ctx context.Context, actor domain.Actor) ([]domain.Task, error) {
	args := m.Called(ctx, actor)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) ListAssignedTasks(ctx context.Context, actor domain.Actor) ([]domain.VolunteerTask, error) {
	args := m.Called(ctx, actor)

	var tasks []domain.VolunteerTask
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.VolunteerTask)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) ListCandidateTasks(ctx context.Context, actor domain.Actor, status *domain.TaskStatus) ([]domain.TaskWithMyResponse, error) {
	args := m.Called(ctx, actor, status)

	var tasks []domain.TaskWithMyResponse
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.TaskWithMyResponse)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) RemoveTask(ctx context.Context, actor domain.Actor, taskID string) error {
	return m.Called(ctx, actor, taskID).Error(0)
}

func (m *taskServiceMock) AssignVolunteer(ctx context.Context, actor domain.Actor, taskID, volunteerID string) (domain.Task, error) {
	args := m.Called(ctx, actor, taskID, volunteerID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CancelAssignment(ctx context.Context, actor domain.Actor, taskID string) (domain.Task, error) {
	args := m.Called(ctx, actor, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) ApproveCompletion(ctx context.Context, actor domain.Actor, taskID string, role domain.ApproveRole) (domain.Task, error) {
	args := m.Called(ctx, actor, taskID, role)
	return args.Get(0).(domain.Task), args.Error(1)
}

type responseServiceMock struct {
	mock.Mock
}

func (m *responseServiceMock) Respond(ctx context.Context, actor domain.Actor, taskID string) (domain.TaskResponse, error) {
	args := m.Called(ctx, actor, taskID)
	return args.Get(0).(domain.TaskResponse), args.Error(1)
}

func (m *responseServiceMock) CancelResponse(ctx context.Context, actor domain.Actor, taskID string) error {
	return m.Called(ctx, actor, taskID).Error(0)
}

func (m *responseServiceMock) ApproveVolunteer(ctx context.Context, actor domain.Actor, taskID, volunteerID string) (domain.TaskResponse, domain.Task, error) {
	args := m.Called(ctx, actor, taskID, volunteerID)
	return args.Get(0).(domain.TaskResponse), args.Get(1).(domain.Task), args.Error(2)
}

func (m *responseServiceMock) RejectVolunteer(ctx context.Context, actor domain.Actor, taskID, volunteerID string) error {
	return m.Called(ctx, actor, taskID, volunteerID).Error(0)
}

func (m *responseServiceMock) ListByTask(ctx context.Context, actor domain.Actor, taskID string) ([]domain.TaskResponse, error) {
	args := m.Called(ctx, actor, taskID)

	var responses []domain.TaskResponse
	if value := args.Get(0); value != nil {
		responses = value.([]domain.TaskResponse)
	}
	return responses, args.Error(1)
}

func (m *responseServiceMock) ListByVolunteer(ctx context.Context, actor domain.Actor, volunteerID string) ([]domain.TaskResponse, error) {
	args := m.Called(ctx, actor, volunteerID)

	var responses []domain.TaskResponse
	if value := args.Get(0); value != nil {
		responses = value.([]domain.TaskResponse)
	}
	return responses, args.Error(1)
}

type pointsServiceMock struct {
	mock.Mock
}

func (m *pointsServiceMock) CreateTransaction(ctx context.Context, input domain.CreatePointsTransactionInput) (domain.PointsTransaction, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.PointsTransaction), args.Error(1)
}

func (m *pointsServiceMock) Adjust(ctx context.Context, actor domain.Actor, input domain.CreatePointsTransactionInput) (domain.PointsTransaction, error) {
	args := m.Called(ctx, actor, input)
	return args.Get(0).(domain.PointsTransaction), args.Error(1)
}

func (m *pointsServiceMock) Balance(ctx context.Context, actor domain.Actor, volunteerID string) (int, error) {
	args := m.Called(ctx, actor, volunteerID)
	return args.Int(0), args.Error(1)
}

func (m *pointsServiceMock) History(ctx context.Context, actor domain.Actor, volunteerID string, limit, offset int) ([]domain.PointsTransaction, int, error) {
	args := m.Called(ctx, actor, volunteerID, limit, offset)

	var txns []domain.PointsTransaction
	if value := args.Get(0); value != nil {
		txns = value.([]domain.PointsTransaction)
	}
	return txns, args.Int(1), args.Error(2)
}

type ratingServiceMock struct {
	mock.Mock
}

func (m *ratingServiceMock) RateVolunteer(ctx context.Context, actor domain.Actor, input domain.RateVolunteerInput) (domain.VolunteerRating, domain.RatingSummary, error) {
	args := m.Called(ctx, actor, input)
	return args.Get(0).(domain.VolunteerRating), args.Get(1).(domain.RatingSummary), args.Error(2)
}

func (m *ratingServiceMock) ListRatings(ctx context.Context, volunteerID string) ([]domain.VolunteerRating, error) {
	args := m.Called(ctx, volunteerID)

	var ratings []domain.VolunteerRating
	if value := args.Get(0); value != nil {
		ratings = value.([]domain.VolunteerRating)
	}
	return ratings, args.Error(1)
}

type subscriptionServiceMock struct {
	mock.Mock
}

func (m *subscriptionServiceMock) Subscribe(ctx context.Context, actor domain.Actor, endpoint, p256dh, auth string) (domain.PushSubscription, error) {
	args := m.Called(ctx, actor, endpoint, p256dh, auth)
	return args.Get(0).(domain.PushSubscription), args.Error(1)
}

func (m *subscriptionServiceMock) Unsubscribe(ctx context.Context, actor domain.Actor, endpoint *string) error {
	return m.Called(ctx, actor, endpoint).Error(0)
}
