package dto

type TaskResponseItem struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	VolunteerID string `json:"volunteer_id"`
	ProgramID   string `json:"program_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type VolunteerDecisionRequest struct {
	VolunteerID string `json:"volunteer_id" binding:"required,max=36"`
}

type ApproveVolunteerResponse struct {
	Response TaskResponseItem `json:"response"`
	Task     TaskItem         `json:"task"`
}
