package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		caller  string
		target  string
		want    Scope
		wantErr error
	}{
		{"employee self explicit", RoleEmployee, "e1", "e1", Scope{Kind: ScopeSelf, EmployeeID: "e1"}, nil},
		{"employee self implicit", RoleEmployee, "e1", "", Scope{Kind: ScopeSelf, EmployeeID: "e1"}, nil},
		{"employee other denied", RoleEmployee, "e1", "e2", Scope{}, ErrScopeDenied},

		{"manager no target", RoleManager, "m1", "", Scope{Kind: ScopeTeam, EmployeeID: "m1"}, nil},
		{"manager self", RoleManager, "m1", "m1", Scope{Kind: ScopeSelf, EmployeeID: "m1"}, nil},
		{"manager report", RoleManager, "m1", "e2", Scope{Kind: ScopeTeam, EmployeeID: "m1"}, nil},

		{"admin no target", RoleAdmin, "a1", "", Scope{Kind: ScopeAll}, nil},
		{"admin other", RoleAdmin, "a1", "e2", Scope{Kind: ScopeAll}, nil},
		{"admin self", RoleAdmin, "a1", "a1", Scope{Kind: ScopeSelf, EmployeeID: "a1"}, nil},

		{"unknown role denied", Role("superuser"), "x", "", Scope{}, ErrScopeDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveScope(tt.role, tt.caller, tt.target)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleCanManage(t *testing.T) {
	assert.False(t, RoleEmployee.CanManage())
	assert.True(t, RoleManager.CanManage())
	assert.True(t, RoleAdmin.CanManage())
	assert.False(t, Role("").CanManage())
}
