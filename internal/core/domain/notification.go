package domain

type NotificationKind string

const (
	NotificationNewTask             NotificationKind = "new_task"
	NotificationTaskResponse        NotificationKind = "task_response"
	NotificationResponseApproved    NotificationKind = "response_approved"
	NotificationResponseRejected    NotificationKind = "response_rejected"
	NotificationTaskTakenByOther    NotificationKind = "task_taken_by_other"
	NotificationAssignmentCancelled NotificationKind = "assignment_cancelled"
	NotificationTaskStatusUpdated   NotificationKind = "task_status_updated"
)

// Audience selects how the recipients of an event are resolved.
type Audience string

const (
	AudienceUser          Audience = "user"
	AudienceSkillsAndCity Audience = "skills_and_city"
	AudienceProgram       Audience = "program"
	AudienceOthersExcept  Audience = "others_except"
)

// Translation message prefixes; the catalogue holds <prefix>Title and <prefix>Body.
const (
	MessageNewTask             = "newTask"
	MessageTaskResponse        = "taskResponse"
	MessageResponseApproved    = "responseApproved"
	MessageResponseRejected    = "responseRejected"
	MessageTaskTakenByOther    = "taskTakenByOther"
	MessageAssignmentCancelled = "taskAssignmentCancelled"
	MessageTaskCompleted       = "taskCompleted"
	MessageVolunteerConfirmed  = "volunteerConfirmed"
	MessageNeedyConfirmed      = "needyConfirmed"
	MessageAwaitingOtherParty  = "awaitingOtherParty"
)

// NotificationEvent is a post-commit side effect. It carries only data so it
// can be queued outside the process.
type NotificationEvent struct {
	Kind          NotificationKind  `json:"kind"`
	Audience      Audience          `json:"audience"`
	Message       string            `json:"message"`
	TaskID        string            `json:"task_id"`
	TaskTitle     string            `json:"task_title"`
	ProgramID     string            `json:"program_id,omitempty"`
	SkillIDs      []string          `json:"skill_ids,omitempty"`
	CityID        *string           `json:"city_id,omitempty"`
	UserID        string            `json:"user_id,omitempty"`
	ExcludeUserID string            `json:"exclude_user_id,omitempty"`
	Data          map[string]string `json:"data,omitempty"`
}

type NotificationPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
	Tag   string            `json:"tag"`
}

type Recipient struct {
	UserID   string
	Language string
}

// RecipientQuery selects volunteers of a program. A nil CityIDs disables
// the city dimension.
type RecipientQuery struct {
	ProgramID     string
	SkillIDs      []string
	CityIDs       []string
	ExcludeUserID string
}

type PushSubscription struct {
	ID       string
	UserID   string
	Endpoint string
	P256dh   string
	Auth     string
}
