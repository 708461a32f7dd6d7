package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

type TaskResponseService struct {
	store  ports.Store
	outbox ports.Outbox
	now    func() time.Time
	newID  func() string
}

func NewTaskResponseService(store ports.Store, outbox ports.Outbox) *TaskResponseService {
	return &TaskResponseService{
		store:  store,
		outbox: outbox,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

var _ ports.TaskResponseService = (*TaskResponseService)(nil)

// Respond registers the actor's interest in a task. In first-response mode
// the response is approved on the spot and the task assigned to the actor.
func (s *TaskResponseService) Respond(ctx context.Context, actor domain.Actor, taskID string) (domain.TaskResponse, error) {
	if err := domain.Authorize(domain.OpRespond, actor, nil); err != nil {
		return domain.TaskResponse{}, err
	}

	var (
		task     domain.Task
		response domain.TaskResponse
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		task, err = tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.Status != domain.TaskStatusActive {
			return domain.ErrTaskNotActive
		}

		_, err = tx.Responses().Find(ctx, task.ID, actor.UserID)
		switch {
		case err == nil:
			return domain.ErrAlreadyResponded
		case !errors.Is(err, domain.ErrResponseNotFound):
			return err
		}

		if task.AssignedVolunteerID != nil {
			return domain.ErrTaskAlreadyAssigned
		}

		volunteer, err := tx.Profiles().GetVolunteer(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if !volunteer.InProgram(task.ProgramID) {
			return domain.ErrVolunteerNotInProgram
		}

		response = domain.TaskResponse{
			ID:          s.newID(),
			TaskID:      task.ID,
			VolunteerID: actor.UserID,
			ProgramID:   task.ProgramID,
			Status:      domain.TaskResponseStatusPending,
			CreatedAt:   s.now(),
		}
		if !task.FirstResponseMode {
			return tx.Responses().Create(ctx, response)
		}

		if _, err := tx.Responses().RejectPendingExcept(ctx, task.ID, actor.UserID); err != nil {
			return err
		}
		response.Status = domain.TaskResponseStatusApproved
		if err := tx.Responses().Create(ctx, response); err != nil {
			return err
		}
		task.Assign(actor.UserID)
		task.UpdatedAt = s.now()
		return tx.Tasks().Update(ctx, task)
	})
	if err != nil {
		return domain.TaskResponse{}, err
	}

	events := []domain.NotificationEvent{taskResponseEvent(task, actor.UserID)}
	if response.Status == domain.TaskResponseStatusApproved {
		events = append(events, assignedEvents(task, actor.UserID)...)
	}
	s.outbox.Enqueue(ctx, events...)
	return response, nil
}

func (s *TaskResponseService) CancelResponse(ctx context.Context, actor domain.Actor, taskID string) error {
	if err := domain.Authorize(domain.OpCancelResponse, actor, nil); err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		task, err := tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task.Status == domain.TaskStatusInProgress || task.Status == domain.TaskStatusCompleted {
			return domain.ErrResponseLocked
		}

		response, err := tx.Responses().Find(ctx, task.ID, actor.UserID)
		if err != nil {
			return err
		}
		if response.Status == domain.TaskResponseStatusApproved {
			return domain.ErrResponseApproved
		}
		return tx.Responses().Delete(ctx, response.ID)
	})
}

// ApproveVolunteer approves a pending or previously rejected response and
// assigns its volunteer, rejecting every other pending response in the same
// transaction.
func (s *TaskResponseService) ApproveVolunteer(ctx context.Context, actor domain.Actor, taskID, volunteerID string) (domain.TaskResponse, domain.Task, error) {
	var (
		task     domain.Task
		response domain.TaskResponse
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		task, err = tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := domain.Authorize(domain.OpApproveVolunteer, actor, &task); err != nil {
			return err
		}
		if task.Status != domain.TaskStatusActive {
			return domain.ErrTaskNotActive
		}

		response, err = tx.Responses().Find(ctx, task.ID, volunteerID)
		if err != nil {
			return err
		}

		if _, err := tx.Responses().RejectPendingExcept(ctx, task.ID, volunteerID); err != nil {
			return err
		}
		if err := tx.Responses().UpdateStatus(ctx, response.ID, domain.TaskResponseStatusApproved); err != nil {
			return err
		}
		response.Status = domain.TaskResponseStatusApproved

		task.Assign(volunteerID)
		task.UpdatedAt = s.now()
		return tx.Tasks().Update(ctx, task)
	})
	if err != nil {
		return domain.TaskResponse{}, domain.Task{}, err
	}

	s.outbox.Enqueue(ctx, assignedEvents(task, volunteerID)...)
	return response, task, nil
}

func (s *TaskResponseService) RejectVolunteer(ctx context.Context, actor domain.Actor, taskID, volunteerID string) error {
	var (
		task    domain.Task
		changed bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		task, err = tx.Tasks().GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := domain.Authorize(domain.OpRejectVolunteer, actor, &task); err != nil {
			return err
		}

		response, err := tx.Responses().Find(ctx, task.ID, volunteerID)
		if err != nil {
			return err
		}
		switch response.Status {
		case domain.TaskResponseStatusApproved:
			return domain.ErrResponseApproved
		case domain.TaskResponseStatusRejected:
			return nil
		}

		changed = true
		return tx.Responses().UpdateStatus(ctx, response.ID, domain.TaskResponseStatusRejected)
	})
	if err != nil {
		return err
	}

	if changed {
		s.outbox.Enqueue(ctx, responseRejectedEvent(task, volunteerID))
	}
	return nil
}

func (s *TaskResponseService) ListByTask(ctx context.Context, actor domain.Actor, taskID string) ([]domain.TaskResponse, error) {
	task, err := s.store.Tasks().Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(domain.OpViewTaskResponses, actor, &task); err != nil {
		return nil, err
	}
	return s.store.Responses().ListByTask(ctx, task.ID)
}

func (s *TaskResponseService) ListByVolunteer(ctx context.Context, actor domain.Actor, volunteerID string) ([]domain.TaskResponse, error) {
	if err := domain.CanViewVolunteer(actor, volunteerID); err != nil {
		return nil, err
	}
	return s.store.Responses().ListByVolunteer(ctx, volunteerID, nil)
}
