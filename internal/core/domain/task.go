package domain

import "time"

type TaskStatus string

const (
	TaskStatusActive     TaskStatus = "active"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// DefaultTaskPoints is the reward used when a draft does not set one.
const DefaultTaskPoints = 10

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusActive, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

type Task struct {
	ID                  string
	ProgramID           string
	NeedyID             string
	Type                string
	Title               string
	Description         string
	Details             *string
	Points              int
	Status              TaskStatus
	CategoryID          *string
	SkillIDs            []string
	FirstResponseMode   bool
	AssignedVolunteerID *string
	ApproveBy           Confirmations
	CityID              *string
	Address             *string
	Location            *GeoPoint
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (t Task) OwnedBy(userID string) bool {
	return userID != "" && t.NeedyID == userID
}

func (t Task) AssignedTo(userID string) bool {
	return userID != "" && t.AssignedVolunteerID != nil && *t.AssignedVolunteerID == userID
}

// Assign puts the task in progress for volunteerID. Any completion
// confirmations from a previous assignment are discarded.
func (t *Task) Assign(volunteerID string) {
	id := volunteerID
	t.AssignedVolunteerID = &id
	t.Status = TaskStatusInProgress
	t.ApproveBy = 0
}

// Unassign reopens the task and returns the displaced volunteer id.
func (t *Task) Unassign() string {
	var previous string
	if t.AssignedVolunteerID != nil {
		previous = *t.AssignedVolunteerID
	}
	t.AssignedVolunteerID = nil
	t.Status = TaskStatusActive
	t.ApproveBy = 0
	return previous
}

// Confirm records role's completion confirmation. It reports whether the
// set changed and whether both parties have now confirmed, in which case
// the task moves to completed.
func (t *Task) Confirm(role ApproveRole) (changed, completed bool) {
	before := t.ApproveBy
	t.ApproveBy = before.With(role)
	if t.ApproveBy == before {
		return false, false
	}
	if t.ApproveBy.Complete() {
		t.Status = TaskStatusCompleted
		return true, true
	}
	return true, false
}

func (t Task) HasSkills() bool {
	return len(t.SkillIDs) > 0
}

type TaskWithMyResponse struct {
	Task
	HasMyResponse bool
}

type VolunteerTaskStatus string

const (
	VolunteerTaskAssigned        VolunteerTaskStatus = "assigned"
	VolunteerTaskPendingResponse VolunteerTaskStatus = "pending_response"
)

type VolunteerTask struct {
	Task
	VolunteerTaskStatus VolunteerTaskStatus
}

type CreateTaskInput struct {
	ProgramID         string
	NeedyID           string
	Type              string
	Title             string
	Description       string
	Details           *string
	Points            *int
	CategoryID        *string
	SkillIDs          []string
	FirstResponseMode bool
}

// UpdateTaskInput carries a partial update. The *Set flags distinguish an
// explicit null from an absent field for nullable columns.
type UpdateTaskInput struct {
	Type              *string
	Title             *string
	Description       *string
	Details           *string
	DetailsSet        bool
	Points            *int
	CategoryID        *string
	CategoryIDSet     bool
	SkillIDs          []string
	SkillIDsSet       bool
	FirstResponseMode *bool
}
