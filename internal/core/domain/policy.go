package domain

type Operation string

const (
	OpCreateTask          Operation = "task.create"
	OpUpdateTask          Operation = "task.update"
	OpRemoveTask          Operation = "task.remove"
	OpAssignVolunteer     Operation = "task.assign"
	OpCancelAssignment    Operation = "task.cancel_assignment"
	OpApproveCompletion   Operation = "task.approve_completion"
	OpListOwnTasks        Operation = "task.list_own"
	OpListAssignedTasks   Operation = "task.list_assigned"
	OpListCandidateTasks  Operation = "task.list_candidates"
	OpRespond             Operation = "response.create"
	OpCancelResponse      Operation = "response.cancel"
	OpApproveVolunteer    Operation = "response.approve"
	OpRejectVolunteer     Operation = "response.reject"
	OpViewTaskResponses   Operation = "response.list_by_task"
	OpAdjustPoints        Operation = "points.adjust"
	OpRateVolunteer       Operation = "rating.create"
	OpManageSubscriptions Operation = "notification.subscribe"
)

type rule func(actor Actor, task *Task) error

var policies = map[Operation]rule{
	OpCreateTask:          ownerOrAdmin,
	OpUpdateTask:          ownerOrAdmin,
	OpRemoveTask:          ownerOrAdmin,
	OpAssignVolunteer:     ownerOrAdmin,
	OpApproveVolunteer:    ownerOrAdmin,
	OpRejectVolunteer:     ownerOrAdmin,
	OpViewTaskResponses:   ownerOrAdmin,
	OpRateVolunteer:       ownerOrAdmin,
	OpCancelAssignment:    ownerOrAssignedVolunteer,
	OpApproveCompletion:   ownerOrAssignedVolunteer,
	OpRespond:             roles(RoleVolunteer),
	OpCancelResponse:      roles(RoleVolunteer),
	OpListAssignedTasks:   roles(RoleVolunteer),
	OpListCandidateTasks:  roles(RoleVolunteer),
	OpListOwnTasks:        roles(RoleNeedy),
	OpAdjustPoints:        roles(RoleAdmin),
	OpManageSubscriptions: roles(RoleVolunteer, RoleNeedy, RoleAdmin),
}

// Authorize evaluates the policy for op before any state is touched. task
// may be nil for operations that carry no ownership predicate.
func Authorize(op Operation, actor Actor, task *Task) error {
	check, ok := policies[op]
	if !ok || actor.UserID == "" {
		return ErrRoleNotAllowed
	}
	return check(actor, task)
}

func roles(allowed ...Role) rule {
	return func(actor Actor, _ *Task) error {
		for _, r := range allowed {
			if actor.Role == r {
				return nil
			}
		}
		return ErrRoleNotAllowed
	}
}

func ownerOrAdmin(actor Actor, task *Task) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleNeedy:
		if task == nil || !task.OwnedBy(actor.UserID) {
			return ErrNotTaskOwner
		}
		return nil
	}
	return ErrRoleNotAllowed
}

func ownerOrAssignedVolunteer(actor Actor, task *Task) error {
	switch actor.Role {
	case RoleNeedy:
		if task == nil || !task.OwnedBy(actor.UserID) {
			return ErrNotTaskOwner
		}
		return nil
	case RoleVolunteer:
		if task == nil || !task.AssignedTo(actor.UserID) {
			return ErrNotAssignedVolunteer
		}
		return nil
	}
	return ErrRoleNotAllowed
}

// ApproveRoleFor maps an actor to the completion role they may confirm as.
func ApproveRoleFor(actor Actor) (ApproveRole, bool) {
	switch actor.Role {
	case RoleVolunteer:
		return ApproveRoleVolunteer, true
	case RoleNeedy:
		return ApproveRoleNeedy, true
	}
	return "", false
}

// CanViewVolunteer reports whether actor may read volunteerID's private data
// (responses, points).
func CanViewVolunteer(actor Actor, volunteerID string) error {
	if actor.Role == RoleAdmin {
		return nil
	}
	if actor.Role == RoleVolunteer && actor.UserID == volunteerID {
		return nil
	}
	return ErrRoleNotAllowed
}
