package service

import (
	"context"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

// ListCandidateTasks returns the tasks a volunteer can take: in one of their
// programs, requiring no skill or one they have, and either without a city
// or in the volunteer's city group. Status defaults to active.
func (s *TaskService) ListCandidateTasks(ctx context.Context, actor domain.Actor, status *domain.TaskStatus) ([]domain.TaskWithMyResponse, error) {
	if err := domain.Authorize(domain.OpListCandidateTasks, actor, nil); err != nil {
		return nil, err
	}

	volunteer, err := s.store.Profiles().GetVolunteer(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	filter, err := s.candidateFilter(ctx, volunteer, status)
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.Tasks().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return []domain.TaskWithMyResponse{}, nil
	}

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	responded, err := s.store.Responses().RespondedTaskIDs(ctx, volunteer.UserID, ids)
	if err != nil {
		return nil, err
	}

	result := make([]domain.TaskWithMyResponse, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, domain.TaskWithMyResponse{Task: task, HasMyResponse: responded[task.ID]})
	}
	return result, nil
}

func (s *TaskService) candidateFilter(ctx context.Context, volunteer domain.Volunteer, status *domain.TaskStatus) (domain.TaskFilter, error) {
	wanted := domain.TaskStatusActive
	if status != nil {
		wanted = *status
	}

	var group []string
	if volunteer.CityID != nil {
		ids, err := s.store.Catalog().CityIDsForCity(ctx, *volunteer.CityID)
		if err != nil {
			return domain.TaskFilter{}, err
		}
		group = ids
	}

	programIDs := volunteer.ProgramIDs
	if programIDs == nil {
		programIDs = []string{}
	}

	return domain.TaskFilter{
		ProgramIDs: programIDs,
		Status:     &wanted,
		Skills:     &domain.SkillMatch{SkillIDs: volunteer.SkillIDs},
		Cities:     &domain.CityMatch{CityIDs: domain.EffectiveCityIDs(volunteer.CityID, group)},
	}, nil
}
