package domain

import "errors"

// Error kinds. Every specific error below unwraps to exactly one of them.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidState        = errors.New("invalid state")
	ErrConflict            = errors.New("conflict")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidArgument     = errors.New("invalid argument")
)

// Error is a specific domain failure tagged with its kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

var (
	ErrTaskNotFound           = newError(ErrNotFound, "task not found")
	ErrResponseNotFound       = newError(ErrNotFound, "response not found")
	ErrProgramNotFound        = newError(ErrNotFound, "program not found")
	ErrDefaultProgramMissing  = newError(ErrNotFound, "default program not found")
	ErrCategoryNotFound       = newError(ErrNotFound, "category not found")
	ErrSkillNotFound          = newError(ErrNotFound, "some skills not found")
	ErrCityNotFound           = newError(ErrNotFound, "city not found")
	ErrVolunteerNotFound      = newError(ErrNotFound, "volunteer profile not found")
	ErrNeedyNotFound          = newError(ErrNotFound, "needy profile not found")
	ErrUserNotFound           = newError(ErrNotFound, "user not found")
	ErrRoleNotAllowed         = newError(ErrForbidden, "role is not allowed to perform this operation")
	ErrNotTaskOwner           = newError(ErrForbidden, "task belongs to another user")
	ErrNotAssignedVolunteer   = newError(ErrForbidden, "volunteer is not assigned to this task")
	ErrVolunteerNotInProgram  = newError(ErrForbidden, "volunteer is not in the task program")
	ErrApproveRoleMismatch    = newError(ErrForbidden, "approve role does not match the actor")
	ErrSelfRating             = newError(ErrForbidden, "volunteers cannot rate themselves")
	ErrTaskNotActive          = newError(ErrInvalidState, "task is not active")
	ErrTaskNotInProgress      = newError(ErrInvalidState, "task is not in progress")
	ErrTaskAlreadyCompleted   = newError(ErrInvalidState, "task is already completed")
	ErrTaskNotAssignable      = newError(ErrInvalidState, "task must be active or in progress to assign a volunteer")
	ErrTaskNotEditable        = newError(ErrInvalidState, "task can no longer be edited")
	ErrTaskNotAssigned        = newError(ErrInvalidState, "task has no assigned volunteer")
	ErrTaskNotCompleted       = newError(ErrInvalidState, "task must be completed before rating")
	ErrResponseLocked         = newError(ErrInvalidState, "cannot cancel response for task in progress or completed")
	ErrResponseApproved       = newError(ErrInvalidState, "response is already approved")
	ErrAlreadyResponded       = newError(ErrConflict, "volunteer has already responded to this task")
	ErrTaskAlreadyAssigned    = newError(ErrConflict, "task already has an assigned volunteer")
	ErrTaskAssignedToOther    = newError(ErrConflict, "task is already assigned to another volunteer")
	ErrDuplicateApproval      = newError(ErrConflict, "task already has an approved response")
	ErrDuplicateTaskCredit    = newError(ErrConflict, "task completion has already been credited")
	ErrAlreadyRated           = newError(ErrConflict, "volunteer has already been rated for this task")
	ErrInvalidApproveRole     = newError(ErrInvalidArgument, "approve role must be volunteer or needy")
	ErrInvalidTransactionType = newError(ErrInvalidArgument, "unknown points transaction type")
	ErrZeroAmount             = newError(ErrInvalidArgument, "points amount must not be zero")
	ErrInvalidPoints          = newError(ErrInvalidArgument, "task points must not be negative")
	ErrInvalidScore           = newError(ErrInvalidArgument, "rating score must be between 1 and 5")
	ErrInvalidSubscription    = newError(ErrInvalidArgument, "push subscription requires endpoint and keys")
)
