package changecontrol

import (
	"github.com/babasida246/NetOpsAI-sub007/pkg/apperr"
)

// Role is an operator role. Roles are ordered; a higher role holds every
// permission of the roles below it.
//
//go:generate go run github.com/dmarkham/enumer -type Role -trimprefix Role -transform snake -text -output role.gen.go
type Role int

const (
	RoleViewer Role = iota
	RoleNetops
	RoleAdmin
	RoleSuperAdmin
)

// ParseRole parses a role name. An empty name is RoleViewer.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleViewer, nil
	}
	r, err := RoleString(s)
	if err != nil || r.String() != s {
		return RoleViewer, apperr.Validation("Unsupported role: " + s)
	}
	return r, nil
}

// Permission names an operation class.
type Permission string

const (
	PermRead           Permission = "netops.read"
	PermBackup         Permission = "netops.backup"
	PermChangeRequest  Permission = "netops.change.request"
	PermChangeApprove  Permission = "netops.change.approve"
	PermChangeExecute  Permission = "netops.change.execute"
	PermChangeRollback Permission = "netops.change.rollback"
)

// minimumRole is the lowest role that holds each permission.
var minimumRole = map[Permission]Role{
	PermRead:           RoleViewer,
	PermBackup:         RoleNetops,
	PermChangeRequest:  RoleNetops,
	PermChangeApprove:  RoleAdmin,
	PermChangeExecute:  RoleAdmin,
	PermChangeRollback: RoleAdmin,
}

// Subject is the caller an authorization decision is made for.
type Subject struct {
	Role        Role
	Permissions []Permission
}

// HasPermission consults the subject's explicit permissions first, then the
// role table. RoleSuperAdmin holds every permission.
func HasPermission(s Subject, p Permission) bool {
	for _, granted := range s.Permissions {
		if granted == p {
			return true
		}
	}
	if s.Role == RoleSuperAdmin {
		return true
	}
	floor, ok := minimumRole[p]
	return ok && s.Role >= floor
}

// RequirePermission returns a forbidden error when the subject lacks p.
func RequirePermission(s Subject, p Permission) error {
	if !HasPermission(s, p) {
		return ErrInsufficientPermissions
	}
	return nil
}

// ErrInsufficientPermissions is returned by RequirePermission.
var ErrInsufficientPermissions = apperr.Forbidden("Insufficient permissions")
