package user

// ScopeKind is the visibility a request resolved to. It is computed once per
// request from the caller's role and the employee it targets, then passed down;
// handlers and services never re-derive role logic.
type ScopeKind string

const (
	ScopeSelf ScopeKind = "self"
	ScopeTeam ScopeKind = "team"
	ScopeAll  ScopeKind = "all"
)

// Scope is the resolved visibility of one request.
type Scope struct {
	Kind ScopeKind

	// EmployeeID is the employee the scope is anchored on: the caller for
	// Self, the managing caller for Team, empty for All.
	EmployeeID string
}

// ResolveScope maps (role, targeted employee) to a scope.
//
// Employees only ever see themselves; targeting anyone else is denied.
// Managers targeting a specific employee get Team scope (ownership of the
// target is checked at the data layer via the manager link); managers
// targeting nobody in particular get Team scope over their own reports.
// Admins get All unless they explicitly target themselves.
func ResolveScope(role Role, callerEmployeeID, targetEmployeeID string) (Scope, error) {
	switch role {
	case RoleAdmin:
		if targetEmployeeID != "" && targetEmployeeID == callerEmployeeID {
			return Scope{Kind: ScopeSelf, EmployeeID: callerEmployeeID}, nil
		}
		return Scope{Kind: ScopeAll}, nil
	case RoleManager:
		if targetEmployeeID == "" || targetEmployeeID == callerEmployeeID {
			if targetEmployeeID == callerEmployeeID && targetEmployeeID != "" {
				return Scope{Kind: ScopeSelf, EmployeeID: callerEmployeeID}, nil
			}
			return Scope{Kind: ScopeTeam, EmployeeID: callerEmployeeID}, nil
		}
		return Scope{Kind: ScopeTeam, EmployeeID: callerEmployeeID}, nil
	case RoleEmployee:
		if targetEmployeeID != "" && targetEmployeeID != callerEmployeeID {
			return Scope{}, ErrScopeDenied
		}
		return Scope{Kind: ScopeSelf, EmployeeID: callerEmployeeID}, nil
	default:
		return Scope{}, ErrScopeDenied
	}
}
