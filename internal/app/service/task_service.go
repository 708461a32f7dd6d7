package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

type TaskService struct {
	store            ports.Store
	ledger           ports.PointsLedger
	outbox           ports.Outbox
	defaultProgramID string
	now              func() time.Time
	newID            func() string
}

// NewTaskService builds the lifecycle engine. defaultProgramID must name an
// existing program; it is used when a draft references an unknown one.
func NewTaskService(store ports.Store, ledger ports.PointsLedger, outbox ports.Outbox, defaultProgramID string) *TaskService {
	return &TaskService{
		store:            store,
		ledger:           ledger,
		outbox:           outbox,
		defaultProgramID: defaultProgramID,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) CreateTask(ctx context.Context, actor domain.Actor, input domain.CreateTaskInput) (domain.Task, error) {
	if actor.Role == domain.RoleNeedy && input.NeedyID == "" {
		input.NeedyID = actor.UserID
	}
	if err := domain.Authorize(domain.OpCreateTask, actor, &domain.Task{NeedyID: input.NeedyID}); err != nil {
		return domain.Task{}, err
	}
	if input.Points != nil && *input.Points < 0 {
		return domain.Task{}, domain.ErrInvalidPoints
	}

	var task domain.Task
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		program, err := s.resolveProgram(ctx, tx.Catalog(), input.ProgramID)
		if err != nil {
			return err
		}

		skillIDs := domain.UniqueIDs(input.SkillIDs)
		if err := validateCatalogRefs(ctx, tx.Catalog(), input.CategoryID, skillIDs); err != nil {
			return err
		}

		needy, err := tx.Profiles().GetNeedy(ctx, input.NeedyID)
		if err != nil {
			return err
		}

		now := s.now()
		task = domain.Task{
			ID:                s.newID(),
			ProgramID:         program.ID,
			NeedyID:           input.NeedyID,
			Type:              input.Type,
			Title:             strings.TrimSpace(input.Title),
			Description:       input.Description,
			Details:           input.Details,
			Points:            domain.DefaultTaskPoints,
			Status:            domain.TaskStatusActive,
			CategoryID:        input.CategoryID,
			SkillIDs:          skillIDs,
			FirstResponseMode: input.FirstResponseMode,
			CityID:            needy.CityID,
			Address:           needy.Address,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if input.Points != nil {
			task.Points = *input.Points
		}

		if needy.CityID != nil {
			city, err := tx.Catalog().FindCity(ctx, *needy.CityID)
			switch {
			case err == nil:
				if point, ok := city.Coordinates(); ok {
					task.Location = &point
				}
			case !errors.Is(err, domain.ErrCityNotFound):
				return err
			}
		}

		return tx.Tasks().Create(ctx, task)
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.outbox.Enqueue(ctx, newTaskEvent(task))
	return task, nil
}

func (s *TaskService) resolveProgram(ctx context.Context, catalog ports.CatalogRepository, programID string) (domain.Program, error) {
	if programID != "" {
		program, err := catalog.FindProgram(ctx, programID)
		if err == nil {
			return program, nil
		}
		if !errors.Is(err, domain.ErrProgramNotFound) {
			return domain.Program{}, err
		}
		zap.L().Warn("program not found, using default program",
			zap.String("program_id", programID),
			zap.String("default_program_id", s.defaultProgramID),
		)
	}

	program, err := catalog.FindProgram(ctx, s.defaultProgramID)
	if errors.Is(err, domain.ErrProgramNotFound) {
		return domain.Program{}, domain.ErrDefaultProgramMissing
	}
	return program, err
}

func validateCatalogRefs(ctx context.Context, catalog ports.CatalogRepository, categoryID *string, skillIDs []string) error {
	if categoryID != nil {
		if _, err := catalog.FindCategory(ctx, *categoryID); err != nil {
			return err
		}
	}
	if len(skillIDs) == 0 {
		return nil
	}
	skills, err := catalog.FindSkillsByIDs(ctx, skillIDs)
	if err != nil {
		return err
	}
	if len(skills) != len(skillIDs) {
		return domain.ErrSkillNotFound
	}
	return nil
}

func (s *TaskService) UpdateTask(ctx context.Context, actor domain.Actor, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	if input.Points != nil && *input.Points < 0 {
		return domain.Task{}, domain.ErrInvalidPoints
	}

	var task domain.Task
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		task, err = tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := domain.Authorize(domain.OpUpdateTask, actor, &task); err != nil {
			return err
		}
		if task.Status != domain.TaskStatusActive && task.Status != domain.TaskStatusInProgress {
			return domain.ErrTaskNotEditable
		}

		if input.Type != nil {
			task.Type = *input.Type
		}
		if input.Title != nil {
			task.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.DetailsSet {
			task.Details = input.Details
		}
		if input.Points != nil {
			task.Points = *input.Points
		}
		if input.FirstResponseMode != nil {
			task.FirstResponseMode = *input.FirstResponseMode
		}

		var categoryID *string
		if input.CategoryIDSet {
			task.CategoryID = input.CategoryID
			categoryID = input.CategoryID
		}
		var skillIDs []string
		if input.SkillIDsSet {
			skillIDs = domain.UniqueIDs(input.SkillIDs)
		}
		if err := validateCatalogRefs(ctx, tx.Catalog(), categoryID, skillIDs); err != nil {
			return err
		}

		task.UpdatedAt = s.now()
		if err := tx.Tasks().Update(ctx, task); err != nil {
			return err
		}
		if input.SkillIDsSet {
			task.SkillIDs = skillIDs
			return tx.Tasks().ReplaceSkills(ctx, task.ID, skillIDs)
		}
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID string) (domain.Task, error) {
	return s.store.Tasks().Get(ctx, taskID)
}

func (s *TaskService) GetTaskForVolunteer(ctx context.Context, actor domain.Actor, taskID string) (domain.TaskWithMyResponse, error) {
	if err := domain.Authorize(domain.OpListCandidateTasks, actor, nil); err != nil {
		return domain.TaskWithMyResponse{}, err
	}

	task, err := s.store.Tasks().Get(ctx, taskID)
	if err != nil {
		return domain.TaskWithMyResponse{}, err
	}

	responded, err := s.store.Responses().RespondedTaskIDs(ctx, actor.UserID, []string{task.ID})
	if err != nil {
		return domain.TaskWithMyResponse{}, err
	}
	return domain.TaskWithMyResponse{Task: task, HasMyResponse: responded[task.ID]}, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	return s.store.Tasks().List(ctx, filter)
}

func (s *TaskService) ListMyTasks(ctx context.Context, actor domain.Actor) ([]domain.Task, error) {
	if err := domain.Authorize(domain.OpListOwnTasks, actor, nil); err != nil {
		return nil, err
	}
	needyID := actor.UserID
	return s.store.Tasks().List(ctx, domain.TaskFilter{NeedyID: &needyID})
}

// ListAssignedTasks returns the tasks assigned to the volunteer and those
// still waiting on one of their pending responses, newest first.
func (s *TaskService) ListAssignedTasks(ctx context.Context, actor domain.Actor) ([]domain.VolunteerTask, error) {
	if err := domain.Authorize(domain.OpListAssignedTasks, actor, nil); err != nil {
		return nil, err
	}

	volunteerID := actor.UserID
	assigned, err := s.store.Tasks().List(ctx, domain.TaskFilter{AssignedVolunteerID: &volunteerID})
	if err != nil {
		return nil, err
	}

	pending := domain.TaskResponseStatusPending
	responses, err := s.store.Responses().ListByVolunteer(ctx, volunteerID, &pending)
	if err != nil {
		return nil, err
	}

	result := make([]domain.VolunteerTask, 0, len(assigned)+len(responses))
	seen := make(map[string]struct{}, len(assigned))
	for _, task := range assigned {
		seen[task.ID] = struct{}{}
		result = append(result, domain.VolunteerTask{Task: task, VolunteerTaskStatus: domain.VolunteerTaskAssigned})
	}

	pendingIDs := make([]string, 0, len(responses))
	for _, response := range responses {
		if _, ok := seen[response.TaskID]; !ok {
			pendingIDs = append(pendingIDs, response.TaskID)
		}
	}
	if len(pendingIDs) > 0 {
		tasks, err := s.store.Tasks().List(ctx, domain.TaskFilter{IDs: pendingIDs})
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			result = append(result, domain.VolunteerTask{Task: task, VolunteerTaskStatus: domain.VolunteerTaskPendingResponse})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *TaskService) RemoveTask(ctx context.Context, actor domain.Actor, taskID string) error {
	var (
		task      domain.Task
		displaced string
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		task, err = tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := domain.Authorize(domain.OpRemoveTask, actor, &task); err != nil {
			return err
		}

		switch task.Status {
		case domain.TaskStatusCompleted:
			return domain.ErrTaskAlreadyCompleted
		case domain.TaskStatusCancelled:
			return nil
		}

		if task.AssignedVolunteerID != nil {
			displaced = task.Unassign()
			if err := rejectApproved(ctx, tx.Responses(), task.ID, displaced); err != nil {
				return err
			}
		}
		if _, err := tx.Responses().RejectPendingExcept(ctx, task.ID, ""); err != nil {
			return err
		}

		task.Status = domain.TaskStatusCancelled
		task.UpdatedAt = s.now()
		return tx.Tasks().Update(ctx, task)
	})
	if err != nil {
		return err
	}

	if displaced != "" {
		s.outbox.Enqueue(ctx, assignmentCancelledEvent(task, displaced))
	}
	return nil
}

// rejectApproved demotes the approved response of a displaced volunteer so
// that an unassigned task never keeps an approved response.
func rejectApproved(ctx context.Context, responses ports.TaskResponseRepository, taskID, volunteerID string) error {
	response, err := responses.Find(ctx, taskID, volunteerID)
	if errors.Is(err, domain.ErrResponseNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if response.Status != domain.TaskResponseStatusApproved {
		return nil
	}
	return responses.UpdateStatus(ctx, response.ID, domain.TaskResponseStatusRejected)
}

// AssignVolunteer assigns volunteerID directly. The volunteer's response is
// created or promoted to approved, so an assigned task always has exactly
// one approved response.
func (s *TaskService) AssignVolunteer(ctx context.Context, actor domain.Actor, taskID, volunteerID string) (domain.Task, error) {
	var task domain.Task
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		task, err = tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := domain.Authorize(domain.OpAssignVolunteer, actor, &task); err != nil {
			return err
		}
		if task.Status != domain.TaskStatusActive && task.Status != domain.TaskStatusInProgress {
			return domain.ErrTaskNotAssignable
		}
		if task.AssignedVolunteerID != nil && !task.AssignedTo(volunteerID) {
			return domain.ErrTaskAssignedToOther
		}

		volunteer, err := tx.Profiles().GetVolunteer(ctx, volunteerID)
		if err != nil {
			return err
		}
		if !volunteer.InProgram(task.ProgramID) {
			return domain.ErrVolunteerNotInProgram
		}

		if _, err := tx.Responses().RejectPendingExcept(ctx, task.ID, volunteerID); err != nil {
			return err
		}
		if err := s.approveResponse(ctx, tx.Responses(), task, volunteerID); err != nil {
			return err
		}

		task.Assign(volunteerID)
		task.UpdatedAt = s.now()
		return tx.Tasks().Update(ctx, task)
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.outbox.Enqueue(ctx, assignedEvents(task, volunteerID)...)
	return task, nil
}

func (s *TaskService) approveResponse(ctx context.Context, responses ports.TaskResponseRepository, task domain.Task, volunteerID string) error {
	response, err := responses.Find(ctx, task.ID, volunteerID)
	if errors.Is(err, domain.ErrResponseNotFound) {
		return responses.Create(ctx, domain.TaskResponse{
			ID:          s.newID(),
			TaskID:      task.ID,
			VolunteerID: volunteerID,
			ProgramID:   task.ProgramID,
			Status:      domain.TaskResponseStatusApproved,
			CreatedAt:   s.now(),
		})
	}
	if err != nil {
		return err
	}
	if response.Status == domain.TaskResponseStatusApproved {
		return nil
	}
	return responses.UpdateStatus(ctx, response.ID, domain.TaskResponseStatusApproved)
}

func (s *TaskService) CancelAssignment(ctx context.Context, actor domain.Actor, taskID string) (domain.Task, error) {
	var (
		task      domain.Task
		displaced string
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		task, err = tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := domain.Authorize(domain.OpCancelAssignment, actor, &task); err != nil {
			return err
		}
		if task.Status == domain.TaskStatusCompleted {
			return domain.ErrTaskAlreadyCompleted
		}
		if task.AssignedVolunteerID == nil {
			return domain.ErrTaskNotAssigned
		}

		displaced = task.Unassign()
		if err := rejectApproved(ctx, tx.Responses(), task.ID, displaced); err != nil {
			return err
		}
		task.UpdatedAt = s.now()
		return tx.Tasks().Update(ctx, task)
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.outbox.Enqueue(ctx, assignmentCancelledEvent(task, displaced))
	return task, nil
}

// ApproveCompletion records one party's confirmation. Confirming twice is a
// no-op. Once both parties confirmed, the task completes and the volunteer
// is credited in a separate ledger transaction whose failure is only logged.
func (s *TaskService) ApproveCompletion(ctx context.Context, actor domain.Actor, taskID string, role domain.ApproveRole) (domain.Task, error) {
	var (
		task      domain.Task
		changed   bool
		completed bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		task, err = tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := domain.Authorize(domain.OpApproveCompletion, actor, &task); err != nil {
			return err
		}
		if expected, ok := domain.ApproveRoleFor(actor); !ok || expected != role {
			return domain.ErrApproveRoleMismatch
		}
		if task.Status == domain.TaskStatusCompleted {
			return domain.ErrTaskAlreadyCompleted
		}
		if task.Status != domain.TaskStatusInProgress {
			return domain.ErrTaskNotInProgress
		}

		changed, completed = task.Confirm(role)
		if !changed {
			return nil
		}
		task.UpdatedAt = s.now()
		return tx.Tasks().Update(ctx, task)
	})
	if err != nil {
		return domain.Task{}, err
	}
	if !changed {
		return task, nil
	}

	if completed {
		s.creditCompletion(ctx, task)
	}
	s.outbox.Enqueue(ctx, completionEvents(task, role)...)
	return task, nil
}

func (s *TaskService) creditCompletion(ctx context.Context, task domain.Task) {
	if task.AssignedVolunteerID == nil {
		return
	}
	taskID := task.ID
	description := fmt.Sprintf("Points awarded for completing task: %q", task.Title)
	_, err := s.ledger.CreateTransaction(ctx, domain.CreatePointsTransactionInput{
		VolunteerID: *task.AssignedVolunteerID,
		TaskID:      &taskID,
		Amount:      task.Points,
		Type:        domain.PointsTransactionTaskCompletion,
		Description: &description,
	})
	if err != nil {
		zap.L().Error("failed to credit points for completed task",
			zap.String("task_id", task.ID),
			zap.String("volunteer_id", *task.AssignedVolunteerID),
			zap.Int("points", task.Points),
			zap.Error(err),
		)
	}
}
