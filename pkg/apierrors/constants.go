package apierrors

const (
	MsgInvalidPayload       = "invalidPayload"
	MsgInvalidID            = "invalidID"
	MsgUnauthorized         = "unauthorized"
	MsgInternal             = "internalError"
	MsgNotFound             = "notFound"
	MsgForbidden            = "forbidden"
	MsgInvalidState         = "invalidState"
	MsgConflict             = "conflict"
	MsgInsufficientBalance  = "insufficientBalance"
	MsgInvalidArgument      = "invalidArgument"
	MsgTaskNotFound         = "taskNotFound"
	MsgResponseNotFound     = "responseNotFound"
	MsgVolunteerNotFound    = "volunteerNotFound"
	MsgTaskNotActive        = "taskNotActive"
	MsgAlreadyResponded     = "alreadyResponded"
	MsgTaskAlreadyAssigned  = "taskAlreadyAssigned"
	MsgNotInProgram         = "volunteerNotInProgram"
	MsgTaskAlreadyCompleted = "taskAlreadyCompleted"
	MsgAlreadyRated         = "alreadyRated"
)
