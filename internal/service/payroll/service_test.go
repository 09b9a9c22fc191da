package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/payroll"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/service/scope"
)

type fakeLedger struct {
	entries []payroll.PayAdjustment
	lastIDs []string
}

func (f *fakeLedger) Append(context.Context, *payroll.PayAdjustment) error { return nil }

func (f *fakeLedger) AppendBatch(context.Context, []*payroll.PayAdjustment) error { return nil }

func (f *fakeLedger) ListByEmployee(_ context.Context, employeeID string, _, _ time.Time) ([]payroll.PayAdjustment, error) {
	f.lastIDs = []string{employeeID}
	var out []payroll.PayAdjustment
	for _, adj := range f.entries {
		if adj.EmployeeID == employeeID {
			out = append(out, adj)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByDateRange(_ context.Context, employeeIDs []string, _, _ time.Time) ([]payroll.PayAdjustment, error) {
	f.lastIDs = employeeIDs
	return f.entries, nil
}

type staticEmployees struct {
	byID map[string]employee.Employee
}

func (s *staticEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := s.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *staticEmployees) GetByEmail(context.Context, string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *staticEmployees) GetManager(_ context.Context, employeeID string) (employee.Employee, error) {
	emp, ok := s.byID[employeeID]
	if !ok || emp.ManagerID == nil {
		return employee.Employee{}, employee.ErrManagerNotFound
	}
	return s.byID[*emp.ManagerID], nil
}

func (s *staticEmployees) ListIDsByManager(context.Context, string) ([]string, error) {
	return nil, nil
}
func (s *staticEmployees) ListActiveIDs(context.Context) ([]string, error) { return nil, nil }

func newPayrollFixture(entries []payroll.PayAdjustment) (*PayrollServiceImpl, *fakeLedger) {
	employees := &staticEmployees{byID: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", FullName: "Ana Putri", Role: user.RoleEmployee},
	}}
	ledger := &fakeLedger{entries: entries}
	return NewPayrollService(ledger, scope.NewGuard(employees), time.UTC), ledger
}

func TestListNetTotalSumsSignedAmounts(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	svc, _ := newPayrollFixture([]payroll.PayAdjustment{
		{ID: "adj-1", EmployeeID: "emp-1", Date: day, Amount: 120.0, Kind: payroll.KindAddition},
		{ID: "adj-2", EmployeeID: "emp-1", Date: day, Amount: -10.0, Kind: payroll.KindDeduction},
	})

	resp, err := svc.List(context.Background(), user.Scope{Kind: user.ScopeAll}, payroll.ListAdjustmentsRequest{})
	require.NoError(t, err)

	require.Len(t, resp.Adjustments, 2)
	assert.InDelta(t, 110.0, resp.NetTotal, 0.001)
	assert.InDelta(t, -10.0, resp.Adjustments[1].Amount, 0.001, "deduction amounts stay negative in responses")
}

func TestListExplicitEmployeeRequiresScope(t *testing.T) {
	svc, _ := newPayrollFixture(nil)

	_, err := svc.List(context.Background(),
		user.Scope{Kind: user.ScopeSelf, EmployeeID: "emp-1"},
		payroll.ListAdjustmentsRequest{EmployeeID: "emp-2"})

	assert.ErrorIs(t, err, user.ErrScopeDenied)
}
