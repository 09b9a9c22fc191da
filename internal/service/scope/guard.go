package scope

import (
	"context"
	"errors"

	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
)

// Guard is the single enforcement point for resolved scopes. Services check
// targets and expand visible employee sets here instead of re-deriving role
// logic.
type Guard struct {
	employeeRepo employee.EmployeeRepository
}

func NewGuard(employeeRepo employee.EmployeeRepository) *Guard {
	return &Guard{employeeRepo: employeeRepo}
}

// Allows reports whether the resolved scope covers the targeted employee.
// Team scope covers the manager themselves and their direct reports.
func (g *Guard) Allows(ctx context.Context, scope user.Scope, employeeID string) error {
	switch scope.Kind {
	case user.ScopeAll:
		return nil
	case user.ScopeSelf:
		if scope.EmployeeID == employeeID {
			return nil
		}
		return user.ErrScopeDenied
	case user.ScopeTeam:
		if scope.EmployeeID == employeeID {
			return nil
		}
		mgr, err := g.employeeRepo.GetManager(ctx, employeeID)
		if err != nil {
			if errors.Is(err, employee.ErrManagerNotFound) {
				return user.ErrScopeDenied
			}
			return err
		}
		if mgr.ID != scope.EmployeeID {
			return user.ErrScopeDenied
		}
		return nil
	default:
		return user.ErrScopeDenied
	}
}

// VisibleIDs expands the scope to the set of employee IDs it covers. Nil with
// no error means unconstrained.
func (g *Guard) VisibleIDs(ctx context.Context, scope user.Scope) ([]string, error) {
	switch scope.Kind {
	case user.ScopeAll:
		return nil, nil
	case user.ScopeTeam:
		ids, err := g.employeeRepo.ListIDsByManager(ctx, scope.EmployeeID)
		if err != nil {
			return nil, err
		}
		return append(ids, scope.EmployeeID), nil
	case user.ScopeSelf:
		return []string{scope.EmployeeID}, nil
	default:
		return nil, user.ErrScopeDenied
	}
}
