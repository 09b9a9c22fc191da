package user

import "errors"

// Role is the access role carried in JWT claims.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var RoleValues = []string{
	string(RoleEmployee),
	string(RoleManager),
	string(RoleAdmin),
}

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager || r == RoleAdmin
}

// CanManage reports whether the role may perform manager-level writes
// (shift registry mutations, absence marking, corrections).
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleAdmin
}

var (
	ErrManagerAccessRequired = errors.New("manager or admin access required")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrScopeDenied           = errors.New("not allowed to access this employee's records")
)
