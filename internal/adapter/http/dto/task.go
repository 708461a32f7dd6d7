package dto

type TaskItem struct {
	ID                  string   `json:"id"`
	ProgramID           string   `json:"program_id"`
	NeedyID             string   `json:"needy_id"`
	Type                string   `json:"type"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Details             *string  `json:"details,omitempty"`
	Points              int      `json:"points"`
	Status              string   `json:"status"`
	CategoryID          *string  `json:"category_id,omitempty"`
	SkillIDs            []string `json:"skill_ids"`
	FirstResponseMode   bool     `json:"first_response_mode"`
	AssignedVolunteerID *string  `json:"assigned_volunteer_id,omitempty"`
	ApproveBy           []string `json:"approve_by"`
	CityID              *string  `json:"city_id,omitempty"`
	Address             *string  `json:"address,omitempty"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

type VolunteerTaskItem struct {
	TaskItem
	HasMyResponse bool `json:"has_my_response"`
}

type AssignedTaskItem struct {
	TaskItem
	VolunteerTaskStatus string `json:"volunteer_task_status"`
}

type CreateTaskRequest struct {
	ProgramID         *string  `json:"program_id" binding:"omitempty,max=36"`
	NeedyID           *string  `json:"needy_id" binding:"omitempty,max=36"`
	Type              string   `json:"type" binding:"required,max=64"`
	Title             string   `json:"title" binding:"required,max=255"`
	Description       string   `json:"description" binding:"required,max=65535"`
	Details           *string  `json:"details" binding:"omitempty,max=65535"`
	Points            *int     `json:"points" binding:"omitempty,gte=0"`
	CategoryID        *string  `json:"category_id" binding:"omitempty,max=36"`
	SkillIDs          []string `json:"skill_ids" binding:"omitempty,dive,max=36"`
	FirstResponseMode *bool    `json:"first_response_mode"`
}

type UpdateTaskRequest struct {
	Type              *string  `json:"type" binding:"omitempty,max=64"`
	Title             *string  `json:"title" binding:"omitempty,max=255"`
	Description       *string  `json:"description" binding:"omitempty,max=65535"`
	Details           *string  `json:"details" binding:"omitempty,max=65535"`
	Points            *int     `json:"points" binding:"omitempty,gte=0"`
	CategoryID        *string  `json:"category_id" binding:"omitempty,max=36"`
	SkillIDs          []string `json:"skill_ids" binding:"omitempty,dive,max=36"`
	FirstResponseMode *bool    `json:"first_response_mode"`
}

type AssignVolunteerRequest struct {
	VolunteerID string `json:"volunteer_id" binding:"required,max=36"`
}

// ApproveCompletionRequest names the confirming party. When omitted the
// caller's role decides.
type ApproveCompletionRequest struct {
	Role *string `json:"role" binding:"omitempty,oneof=volunteer needy"`
}
