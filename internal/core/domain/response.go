package domain

import "time"

type TaskResponseStatus string

const (
	TaskResponseStatusPending  TaskResponseStatus = "pending"
	TaskResponseStatusApproved TaskResponseStatus = "approved"
	TaskResponseStatusRejected TaskResponseStatus = "rejected"
)

type TaskResponse struct {
	ID          string
	TaskID      string
	VolunteerID string
	ProgramID   string
	Status      TaskResponseStatus
	CreatedAt   time.Time
}
