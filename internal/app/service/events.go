package service

import (
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

func baseEvent(kind domain.NotificationKind, audience domain.Audience, message string, task domain.Task) domain.NotificationEvent {
	return domain.NotificationEvent{
		Kind:      kind,
		Audience:  audience,
		Message:   message,
		TaskID:    task.ID,
		TaskTitle: task.Title,
		ProgramID: task.ProgramID,
	}
}

func userEvent(kind domain.NotificationKind, message string, task domain.Task, userID string) domain.NotificationEvent {
	event := baseEvent(kind, domain.AudienceUser, message, task)
	event.UserID = userID
	return event
}

// newTaskEvent targets volunteers sharing a skill with the task, or every
// program volunteer when the task requires none.
func newTaskEvent(task domain.Task) domain.NotificationEvent {
	audience := domain.AudienceProgram
	if task.HasSkills() {
		audience = domain.AudienceSkillsAndCity
	}
	event := baseEvent(domain.NotificationNewTask, audience, domain.MessageNewTask, task)
	event.SkillIDs = task.SkillIDs
	event.CityID = task.CityID
	return event
}

func taskResponseEvent(task domain.Task, volunteerID string) domain.NotificationEvent {
	event := userEvent(domain.NotificationTaskResponse, domain.MessageTaskResponse, task, task.NeedyID)
	event.Data = map[string]string{"volunteerId": volunteerID}
	return event
}

// assignedEvents tells the chosen volunteer and every other eligible
// volunteer that the task is no longer open.
func assignedEvents(task domain.Task, volunteerID string) []domain.NotificationEvent {
	approved := userEvent(domain.NotificationResponseApproved, domain.MessageResponseApproved, task, volunteerID)

	taken := baseEvent(domain.NotificationTaskTakenByOther, domain.AudienceOthersExcept, domain.MessageTaskTakenByOther, task)
	taken.ExcludeUserID = volunteerID
	taken.SkillIDs = task.SkillIDs
	taken.CityID = task.CityID

	return []domain.NotificationEvent{approved, taken}
}

func responseRejectedEvent(task domain.Task, volunteerID string) domain.NotificationEvent {
	return userEvent(domain.NotificationResponseRejected, domain.MessageResponseRejected, task, volunteerID)
}

func assignmentCancelledEvent(task domain.Task, volunteerID string) domain.NotificationEvent {
	return userEvent(domain.NotificationAssignmentCancelled, domain.MessageAssignmentCancelled, task, volunteerID)
}

// completionEvents picks the copy for each party after role confirmed.
func completionEvents(task domain.Task, role domain.ApproveRole) []domain.NotificationEvent {
	volunteerID := ""
	if task.AssignedVolunteerID != nil {
		volunteerID = *task.AssignedVolunteerID
	}

	statusEvent := func(message, userID string) domain.NotificationEvent {
		event := userEvent(domain.NotificationTaskStatusUpdated, message, task, userID)
		event.Data = map[string]string{"status": string(task.Status)}
		return event
	}

	if task.Status == domain.TaskStatusCompleted {
		return []domain.NotificationEvent{
			statusEvent(domain.MessageTaskCompleted, volunteerID),
			statusEvent(domain.MessageTaskCompleted, task.NeedyID),
		}
	}

	if role == domain.ApproveRoleVolunteer {
		return []domain.NotificationEvent{
			statusEvent(domain.MessageAwaitingOtherParty, volunteerID),
			statusEvent(domain.MessageVolunteerConfirmed, task.NeedyID),
		}
	}
	return []domain.NotificationEvent{
		statusEvent(domain.MessageNeedyConfirmed, volunteerID),
		statusEvent(domain.MessageAwaitingOtherParty, task.NeedyID),
	}
}
