package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
)

type stubEmployees struct {
	byID map[string]employee.Employee
}

func (s *stubEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := s.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *stubEmployees) GetByEmail(context.Context, string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployees) GetManager(_ context.Context, employeeID string) (employee.Employee, error) {
	emp, ok := s.byID[employeeID]
	if !ok || emp.ManagerID == nil {
		return employee.Employee{}, employee.ErrManagerNotFound
	}
	return s.byID[*emp.ManagerID], nil
}

func (s *stubEmployees) ListIDsByManager(_ context.Context, managerID string) ([]string, error) {
	var ids []string
	for id, emp := range s.byID {
		if emp.ManagerID != nil && *emp.ManagerID == managerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *stubEmployees) ListActiveIDs(context.Context) ([]string, error) { return nil, nil }

func newTestGuard() *Guard {
	mgr := "mgr-1"
	return NewGuard(&stubEmployees{byID: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", ManagerID: &mgr},
		"emp-2": {ID: "emp-2", ManagerID: &mgr},
		"emp-3": {ID: "emp-3"},
		"mgr-1": {ID: "mgr-1"},
	}})
}

func TestGuardAllows(t *testing.T) {
	g := newTestGuard()
	ctx := context.Background()

	assert.NoError(t, g.Allows(ctx, user.Scope{Kind: user.ScopeAll}, "emp-1"))

	assert.NoError(t, g.Allows(ctx, user.Scope{Kind: user.ScopeSelf, EmployeeID: "emp-1"}, "emp-1"))
	assert.ErrorIs(t, g.Allows(ctx, user.Scope{Kind: user.ScopeSelf, EmployeeID: "emp-1"}, "emp-2"), user.ErrScopeDenied)

	teamScope := user.Scope{Kind: user.ScopeTeam, EmployeeID: "mgr-1"}
	assert.NoError(t, g.Allows(ctx, teamScope, "emp-1"))
	assert.NoError(t, g.Allows(ctx, teamScope, "mgr-1"))
	assert.ErrorIs(t, g.Allows(ctx, teamScope, "emp-3"), user.ErrScopeDenied,
		"employee without a manager link is outside every team")

	assert.ErrorIs(t, g.Allows(ctx, user.Scope{}, "emp-1"), user.ErrScopeDenied)
}

func TestGuardVisibleIDs(t *testing.T) {
	g := newTestGuard()
	ctx := context.Background()

	ids, err := g.VisibleIDs(ctx, user.Scope{Kind: user.ScopeAll})
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = g.VisibleIDs(ctx, user.Scope{Kind: user.ScopeSelf, EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"emp-1"}, ids)

	ids, err = g.VisibleIDs(ctx, user.Scope{Kind: user.ScopeTeam, EmployeeID: "mgr-1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"emp-1", "emp-2", "mgr-1"}, ids)

	_, err = g.VisibleIDs(ctx, user.Scope{})
	assert.ErrorIs(t, err, user.ErrScopeDenied)
}
