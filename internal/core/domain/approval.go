package domain

type ApproveRole string

const (
	ApproveRoleVolunteer ApproveRole = "volunteer"
	ApproveRoleNeedy     ApproveRole = "needy"
)

func ParseApproveRole(value string) (ApproveRole, error) {
	switch ApproveRole(value) {
	case ApproveRoleVolunteer, ApproveRoleNeedy:
		return ApproveRole(value), nil
	}
	return "", ErrInvalidApproveRole
}

// Confirmations is the set of parties that confirmed completion.
type Confirmations uint8

const (
	ConfirmedByVolunteer Confirmations = 1 << iota
	ConfirmedByNeedy
)

func (c Confirmations) bit(role ApproveRole) Confirmations {
	switch role {
	case ApproveRoleVolunteer:
		return ConfirmedByVolunteer
	case ApproveRoleNeedy:
		return ConfirmedByNeedy
	}
	return 0
}

func (c Confirmations) With(role ApproveRole) Confirmations {
	return c | c.bit(role)
}

func (c Confirmations) Has(role ApproveRole) bool {
	b := c.bit(role)
	return b != 0 && c&b == b
}

func (c Confirmations) Complete() bool {
	return c.Has(ApproveRoleVolunteer) && c.Has(ApproveRoleNeedy)
}

// Roles lists the confirmed roles, volunteer first.
func (c Confirmations) Roles() []ApproveRole {
	roles := make([]ApproveRole, 0, 2)
	if c.Has(ApproveRoleVolunteer) {
		roles = append(roles, ApproveRoleVolunteer)
	}
	if c.Has(ApproveRoleNeedy) {
		roles = append(roles, ApproveRoleNeedy)
	}
	return roles
}
