package Models

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. It drives both route
// authorization and notification routing.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleHOD      Role = "HOD"
	RoleEmployee Role = "Employee"
	RoleQuality  Role = "Quality"
	RolePDC      Role = "PDC"

	// RoleAll is a recipient sentinel, never an account role. A
	// notification addressed to it shows up in every role's ledger.
	RoleAll Role = "all"
)

// AccountRoles are the roles a user can be registered with.
var AccountRoles = []Role{RoleAdmin, RoleHOD, RoleEmployee, RoleQuality, RolePDC}

// DefaultRecipientRoles is the fan-out target set for new inspection
// tasks. Quality is the acting role and is not a recipient.
var DefaultRecipientRoles = []Role{RoleHOD, RolePDC, RoleEmployee}

// ParseRole validates a role string against the account role set.
func ParseRole(s string) (Role, error) {
	for _, r := range AccountRoles {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ParseRoleList parses a comma separated role list, e.g. the
// NOTIFY_ROLES environment variable. An empty input yields the default
// recipient set.
func ParseRoleList(s string) ([]Role, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultRecipientRoles, nil
	}
	var roles []Role
	for _, part := range strings.Split(s, ",") {
		role, err := ParseRole(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		for _, seen := range roles {
			if seen == role {
				return nil, fmt.Errorf("duplicate role %q", part)
			}
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// CanReadLedger reports whether a role may list, mark or clear
// notifications addressed to it.
func (r Role) CanReadLedger() bool {
	for _, allowed := range AccountRoles {
		if r == allowed {
			return true
		}
	}
	return false
}

// CanSee reports whether a ledger row addressed to recipient is
// visible to r. The rule is the same for list, mark-read and clear.
func (r Role) CanSee(recipient Role) bool {
	return recipient == r || recipient == RoleAll
}
