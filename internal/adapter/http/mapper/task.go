package mapper

import (
	"time"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/dto"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:                  task.ID,
		ProgramID:           task.ProgramID,
		NeedyID:             task.NeedyID,
		Type:                task.Type,
		Title:               task.Title,
		Description:         task.Description,
		Details:             copyString(task.Details),
		Points:              task.Points,
		Status:              string(task.Status),
		CategoryID:          copyString(task.CategoryID),
		SkillIDs:            append([]string{}, task.SkillIDs...),
		FirstResponseMode:   task.FirstResponseMode,
		AssignedVolunteerID: copyString(task.AssignedVolunteerID),
		ApproveBy:           make([]string, 0, 2),
		CityID:              copyString(task.CityID),
		Address:             copyString(task.Address),
		CreatedAt:           formatTime(task.CreatedAt),
		UpdatedAt:           formatTime(task.UpdatedAt),
	}

	for _, role := range task.ApproveBy.Roles() {
		item.ApproveBy = append(item.ApproveBy, string(role))
	}

	if task.Location != nil {
		lat, lon := task.Location.Latitude, task.Location.Longitude
		item.Latitude = &lat
		item.Longitude = &lon
	}

	return item
}

func ToVolunteerTaskItems(tasks []domain.TaskWithMyResponse) []dto.VolunteerTaskItem {
	items := make([]dto.VolunteerTaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToVolunteerTaskItem(task))
	}
	return items
}

func ToVolunteerTaskItem(task domain.TaskWithMyResponse) dto.VolunteerTaskItem {
	return dto.VolunteerTaskItem{TaskItem: ToTaskItem(task.Task), HasMyResponse: task.HasMyResponse}
}

func ToAssignedTaskItems(tasks []domain.VolunteerTask) []dto.AssignedTaskItem {
	items := make([]dto.AssignedTaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, dto.AssignedTaskItem{
			TaskItem:            ToTaskItem(task.Task),
			VolunteerTaskStatus: string(task.VolunteerTaskStatus),
		})
	}
	return items
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	value := *v
	return &value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
