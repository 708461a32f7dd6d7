package ports

import (
	"context"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

// Store groups the repositories. A store obtained inside WithinTx is bound
// to that transaction; calling WithinTx on it again reuses the transaction.
type Store interface {
	Tasks() TaskRepository
	Responses() TaskResponseRepository
	Profiles() ProfileRepository
	Ledger() PointsRepository
	Ratings() RatingRepository
	Catalog() CatalogRepository
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) error
	Get(ctx context.Context, id string) (domain.Task, error)
	// GetForUpdate locks the task row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (domain.Task, error)
	Update(ctx context.Context, task domain.Task) error
	ReplaceSkills(ctx context.Context, taskID string, skillIDs []string) error
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
}

type TaskResponseRepository interface {
	Create(ctx context.Context, response domain.TaskResponse) error
	Find(ctx context.Context, taskID, volunteerID string) (domain.TaskResponse, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskResponseStatus) error
	// RejectPendingExcept rejects every pending response of taskID not
	// authored by volunteerID and returns how many rows changed.
	RejectPendingExcept(ctx context.Context, taskID, volunteerID string) (int64, error)
	Delete(ctx context.Context, id string) error
	ListByTask(ctx context.Context, taskID string) ([]domain.TaskResponse, error)
	ListByVolunteer(ctx context.Context, volunteerID string, status *domain.TaskResponseStatus) ([]domain.TaskResponse, error)
	// RespondedTaskIDs returns the subset of taskIDs volunteerID responded to.
	RespondedTaskIDs(ctx context.Context, volunteerID string, taskIDs []string) (map[string]bool, error)
}

type ProfileRepository interface {
	GetVolunteer(ctx context.Context, userID string) (domain.Volunteer, error)
	GetNeedy(ctx context.Context, userID string) (domain.Needy, error)
}

type PointsRepository interface {
	// LockVolunteerBalance reads the balance under an exclusive row lock.
	LockVolunteerBalance(ctx context.Context, volunteerID string) (domain.Balance, error)
	UpdateVolunteerBalance(ctx context.Context, volunteerID string, balance domain.Balance) error
	Insert(ctx context.Context, txn domain.PointsTransaction) error
	ListByVolunteer(ctx context.Context, volunteerID string, limit, offset int) ([]domain.PointsTransaction, int, error)
}

type RatingRepository interface {
	Create(ctx context.Context, rating domain.VolunteerRating) error
	Exists(ctx context.Context, taskID, ratedByUserID string) (bool, error)
	// LockSummary reads the volunteer's rating aggregate under a row lock.
	LockSummary(ctx context.Context, volunteerID string) (domain.RatingSummary, error)
	UpdateSummary(ctx context.Context, volunteerID string, summary domain.RatingSummary) error
	ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.VolunteerRating, error)
}

// CatalogRepository is the read side of programs, categories, skills and cities.
type CatalogRepository interface {
	FindProgram(ctx context.Context, id string) (domain.Program, error)
	FindCategory(ctx context.Context, id string) (domain.Category, error)
	FindSkillsByIDs(ctx context.Context, ids []string) ([]domain.Skill, error)
	FindCity(ctx context.Context, id string) (domain.City, error)
	// CityIDsForCity returns every city in cityID's group, or just cityID
	// when it is ungrouped. An unknown city yields an empty set.
	CityIDsForCity(ctx context.Context, cityID string) ([]string, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, actor domain.Actor, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, taskID string, input domain.UpdateTaskInput) (domain.Task, error)
	GetTask(ctx context.Context, taskID string) (domain.Task, error)
	GetTaskForVolunteer(ctx context.Context, actor domain.Actor, taskID string) (domain.TaskWithMyResponse, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	ListMyTasks(ctx context.Context, actor domain.Actor) ([]domain.Task, error)
	ListAssignedTasks(ctx context.Context, actor domain.Actor) ([]domain.VolunteerTask, error)
	ListCandidateTasks(ctx context.Context, actor domain.Actor, status *domain.TaskStatus) ([]domain.TaskWithMyResponse, error)
	RemoveTask(ctx context.Context, actor domain.Actor, taskID string) error
	AssignVolunteer(ctx context.Context, actor domain.Actor, taskID, volunteerID string) (domain.Task, error)
	CancelAssignment(ctx context.Context, actor domain.Actor, taskID string) (domain.Task, error)
	ApproveCompletion(ctx context.Context, actor domain.Actor, taskID string, role domain.ApproveRole) (domain.Task, error)
}

type TaskResponseService interface {
	Respond(ctx context.Context, actor domain.Actor, taskID string) (domain.TaskResponse, error)
	CancelResponse(ctx context.Context, actor domain.Actor, taskID string) error
	ApproveVolunteer(ctx context.Context, actor domain.Actor, taskID, volunteerID string) (domain.TaskResponse, domain.Task, error)
	RejectVolunteer(ctx context.Context, actor domain.Actor, taskID, volunteerID string) error
	ListByTask(ctx context.Context, actor domain.Actor, taskID string) ([]domain.TaskResponse, error)
	ListByVolunteer(ctx context.Context, actor domain.Actor, volunteerID string) ([]domain.TaskResponse, error)
}

// PointsLedger is the only writer of a volunteer's points balance.
type PointsLedger interface {
	CreateTransaction(ctx context.Context, input domain.CreatePointsTransactionInput) (domain.PointsTransaction, error)
}

type PointsService interface {
	PointsLedger
	Adjust(ctx context.Context, actor domain.Actor, input domain.CreatePointsTransactionInput) (domain.PointsTransaction, error)
	Balance(ctx context.Context, actor domain.Actor, volunteerID string) (int, error)
	History(ctx context.Context, actor domain.Actor, volunteerID string, limit, offset int) ([]domain.PointsTransaction, int, error)
}

type RatingService interface {
	RateVolunteer(ctx context.Context, actor domain.Actor, input domain.RateVolunteerInput) (domain.VolunteerRating, domain.RatingSummary, error)
	ListRatings(ctx context.Context, volunteerID string) ([]domain.VolunteerRating, error)
}
