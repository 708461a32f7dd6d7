package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

func strPtr(v string) *string { return &v }

func TestConfirmations(t *testing.T) {
	var c domain.Confirmations
	assert.False(t, c.Complete())
	assert.Empty(t, c.Roles())

	c = c.With(domain.ApproveRoleNeedy)
	assert.True(t, c.Has(domain.ApproveRoleNeedy))
	assert.False(t, c.Has(domain.ApproveRoleVolunteer))
	assert.Equal(t, c, c.With(domain.ApproveRoleNeedy))

	c = c.With(domain.ApproveRoleVolunteer)
	assert.True(t, c.Complete())
	assert.Equal(t, []domain.ApproveRole{domain.ApproveRoleVolunteer, domain.ApproveRoleNeedy}, c.Roles())

	assert.Equal(t, c, c.With("admin"))
	assert.False(t, c.Has("admin"))
}

func TestParseApproveRole(t *testing.T) {
	role, err := domain.ParseApproveRole("needy")
	require.NoError(t, err)
	assert.Equal(t, domain.ApproveRoleNeedy, role)

	_, err = domain.ParseApproveRole("admin")
	require.ErrorIs(t, err, domain.ErrInvalidApproveRole)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestTask_ConfirmCompletesOnSecondParty(t *testing.T) {
	task := domain.Task{Status: domain.TaskStatusActive}
	task.Assign("v1")
	require.Equal(t, domain.TaskStatusInProgress, task.Status)

	changed, completed := task.Confirm(domain.ApproveRoleVolunteer)
	assert.True(t, changed)
	assert.False(t, completed)

	changed, completed = task.Confirm(domain.ApproveRoleVolunteer)
	assert.False(t, changed)
	assert.False(t, completed)

	changed, completed = task.Confirm(domain.ApproveRoleNeedy)
	assert.True(t, changed)
	assert.True(t, completed)
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
}

func TestTask_AssignAndUnassignResetConfirmations(t *testing.T) {
	task := domain.Task{Status: domain.TaskStatusActive}
	task.Assign("v1")
	task.Confirm(domain.ApproveRoleNeedy)

	assert.Equal(t, "v1", task.Unassign())
	assert.Equal(t, domain.TaskStatusActive, task.Status)
	assert.Nil(t, task.AssignedVolunteerID)
	assert.Zero(t, task.ApproveBy)

	task.Assign("v2")
	task.Confirm(domain.ApproveRoleVolunteer)
	task.Assign("v2")
	assert.Zero(t, task.ApproveBy)
}

func TestErrorsUnwrapToKind(t *testing.T) {
	cases := map[error]error{
		domain.ErrTaskNotFound:        domain.ErrNotFound,
		domain.ErrNotTaskOwner:        domain.ErrForbidden,
		domain.ErrTaskNotActive:       domain.ErrInvalidState,
		domain.ErrAlreadyResponded:    domain.ErrConflict,
		domain.ErrInvalidScore:        domain.ErrInvalidArgument,
		domain.ErrDuplicateTaskCredit: domain.ErrConflict,
	}
	for err, kind := range cases {
		assert.True(t, errors.Is(err, kind), err.Error())
		assert.False(t, errors.Is(err, domain.ErrInsufficientBalance), err.Error())
	}
}

func TestCreatePointsTransactionInput_Apply(t *testing.T) {
	in := domain.CreatePointsTransactionInput{Amount: -10, Type: domain.PointsTransactionManualAdjustment}

	after, err := in.Apply(5)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, 5, after)

	after, err = in.Apply(10)
	require.NoError(t, err)
	assert.Zero(t, after)
}

func TestNextRating(t *testing.T) {
	assert.Equal(t, domain.RatingSummary{Rating: 4, RatingCount: 1}, domain.NextRating(domain.RatingSummary{}, 4))
	assert.Equal(t, domain.RatingSummary{Rating: 4.33, RatingCount: 3}, domain.NextRating(domain.RatingSummary{Rating: 4.5, RatingCount: 2}, 4))
	assert.Equal(t, domain.RatingSummary{Rating: 5, RatingCount: 2}, domain.NextRating(domain.RatingSummary{Rating: 7, RatingCount: 1}, 5))
}

func TestAuthorize(t *testing.T) {
	task := &domain.Task{NeedyID: "n1", AssignedVolunteerID: strPtr("v1")}
	owner := domain.Actor{UserID: "n1", Role: domain.RoleNeedy}
	stranger := domain.Actor{UserID: "n2", Role: domain.RoleNeedy}
	assigned := domain.Actor{UserID: "v1", Role: domain.RoleVolunteer}
	other := domain.Actor{UserID: "v2", Role: domain.RoleVolunteer}
	admin := domain.Actor{UserID: "a1", Role: domain.RoleAdmin}

	assert.NoError(t, domain.Authorize(domain.OpAssignVolunteer, owner, task))
	assert.NoError(t, domain.Authorize(domain.OpAssignVolunteer, admin, task))
	assert.ErrorIs(t, domain.Authorize(domain.OpAssignVolunteer, stranger, task), domain.ErrNotTaskOwner)
	assert.ErrorIs(t, domain.Authorize(domain.OpAssignVolunteer, assigned, task), domain.ErrRoleNotAllowed)

	assert.NoError(t, domain.Authorize(domain.OpCancelAssignment, assigned, task))
	assert.ErrorIs(t, domain.Authorize(domain.OpCancelAssignment, other, task), domain.ErrNotAssignedVolunteer)
	assert.ErrorIs(t, domain.Authorize(domain.OpCancelAssignment, admin, task), domain.ErrForbidden)

	assert.NoError(t, domain.Authorize(domain.OpRespond, other, nil))
	assert.ErrorIs(t, domain.Authorize(domain.OpRespond, owner, nil), domain.ErrForbidden)
	assert.ErrorIs(t, domain.Authorize(domain.OpRespond, domain.Actor{Role: domain.RoleVolunteer}, nil), domain.ErrForbidden)
	assert.ErrorIs(t, domain.Authorize("unknown", admin, nil), domain.ErrForbidden)
}

func TestTaskFilter_Match(t *testing.T) {
	north, south := "north", "south"
	active := domain.TaskStatusActive
	tasks := map[string]domain.Task{
		"open":       {ID: "open", ProgramID: "p1", Status: active},
		"north":      {ID: "north", ProgramID: "p1", Status: active, CityID: &north},
		"south":      {ID: "south", ProgramID: "p1", Status: active, CityID: &south},
		"driving":    {ID: "driving", ProgramID: "p1", Status: active, SkillIDs: []string{"driving", "lifting"}},
		"cooking":    {ID: "cooking", ProgramID: "p1", Status: active, SkillIDs: []string{"cooking"}},
		"otherGroup": {ID: "otherGroup", ProgramID: "p2", Status: active},
	}
	match := func(filter domain.TaskFilter) []string {
		var ids []string
		for id, task := range tasks {
			if filter.Match(task) {
				ids = append(ids, id)
			}
		}
		return ids
	}

	assert.ElementsMatch(t,
		[]string{"open", "north", "south", "driving"},
		match(domain.TaskFilter{ProgramIDs: []string{"p1"}, Skills: &domain.SkillMatch{SkillIDs: []string{"driving"}}}),
	)
	assert.ElementsMatch(t,
		[]string{"open", "driving", "cooking", "otherGroup"},
		match(domain.TaskFilter{Cities: &domain.CityMatch{CityIDs: domain.EffectiveCityIDs(nil, nil)}}),
	)
	assert.ElementsMatch(t,
		[]string{"open", "north", "driving", "cooking", "otherGroup"},
		match(domain.TaskFilter{Cities: &domain.CityMatch{CityIDs: domain.EffectiveCityIDs(&north, nil)}}),
	)
	assert.ElementsMatch(t,
		[]string{"open", "otherGroup"},
		match(domain.TaskFilter{Skills: &domain.SkillMatch{}, Cities: &domain.CityMatch{}}),
	)
}

func TestEffectiveCityIDs(t *testing.T) {
	city := "north"
	assert.Equal(t, []string{}, domain.EffectiveCityIDs(nil, []string{"x"}))
	assert.Equal(t, []string{"north"}, domain.EffectiveCityIDs(&city, nil))
	assert.Equal(t, []string{"north", "harbour"}, domain.EffectiveCityIDs(&city, []string{"north", "harbour"}))
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, domain.UniqueIDs([]string{"a", "", "b", "a"}))
	assert.Equal(t, []string{}, domain.UniqueIDs(nil))
}
