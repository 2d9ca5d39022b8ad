package auth

import "context"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	PermResultsRead       = "results.read"
	PermResultsAdmin      = "results.admin"
	PermCompensationRead  = "compensation.read"
	PermCoefficientsWrite = "coefficients.write"
	PermAuditRead         = "audit.read"
)

var RolePermissions = map[string][]string{
	RoleMember: {
		PermResultsRead,
	},
	RoleAdmin: {
		PermResultsRead,
		PermResultsAdmin,
		PermCompensationRead,
		PermCoefficientsWrite,
		PermAuditRead,
	},
}

// Policy answers permission checks from a fixed role table.
type Policy struct {
	roles map[string]map[string]struct{}
}

func NewPolicy(table map[string][]string) *Policy {
	roles := make(map[string]map[string]struct{}, len(table))
	for role, perms := range table {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		roles[role] = set
	}
	return &Policy{roles: roles}
}

func DefaultPolicy() *Policy {
	return NewPolicy(RolePermissions)
}

func (p *Policy) HasPermission(_ context.Context, role, permission string) (bool, error) {
	perms, ok := p.roles[role]
	if !ok {
		return false, nil
	}
	_, allowed := perms[permission]
	return allowed, nil
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
