package dispatcher

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/notification"
	"github.com/tempohq/attendance-backend-go/internal/domain/payroll"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
)

type fakeTransitionLog struct {
	mu      sync.Mutex
	claimed map[string]bool
}

func (f *fakeTransitionLog) Claim(_ context.Context, transitionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed[transitionID] {
		return false, nil
	}
	f.claimed[transitionID] = true
	return true, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []*notification.Notification
	batches int
}

func (f *fakeNotifier) Notify(_ context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) NotifyBatch(_ context.Context, ns []*notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	f.sent = append(f.sent, ns...)
	return nil
}

func (f *fakeNotifier) List(context.Context, string, int, int, bool) (*notification.ListResponse, error) {
	return &notification.ListResponse{}, nil
}
func (f *fakeNotifier) UnreadCount(context.Context, string) (int, error) { return 0, nil }
func (f *fakeNotifier) MarkAsRead(context.Context, string, notification.MarkAsReadRequest) error {
	return nil
}
func (f *fakeNotifier) MarkAllAsRead(context.Context, string) error { return nil }

func (f *fakeNotifier) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, n := range f.sent {
		out = append(out, n.RecipientID)
	}
	return out
}

type fakeLedger struct {
	mu      sync.Mutex
	entries []*payroll.PayAdjustment
}

func (f *fakeLedger) Append(_ context.Context, adj *payroll.PayAdjustment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, adj)
	return nil
}

func (f *fakeLedger) AppendBatch(_ context.Context, adjs []*payroll.PayAdjustment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, adjs...)
	return nil
}

func (f *fakeLedger) ListByEmployee(context.Context, string, time.Time, time.Time) ([]payroll.PayAdjustment, error) {
	return nil, nil
}

func (f *fakeLedger) ListByDateRange(context.Context, []string, time.Time, time.Time) ([]payroll.PayAdjustment, error) {
	return nil, nil
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

type dispatcherFixture struct {
	d        *Dispatcher
	log      *fakeTransitionLog
	notifier *fakeNotifier
	ledger   *fakeLedger
}

func newDispatcherFixture() *dispatcherFixture {
	mgr := "mgr-1"
	employees := &staticEmployees{byID: map[string]employee.Employee{
		// 7040 / (22*8) = 40.00 per hour
		"emp-1": {ID: "emp-1", FullName: "Ana Putri", Role: user.RoleEmployee, ManagerID: &mgr, BaseSalary: 7040},
		"mgr-1": {ID: "mgr-1", FullName: "Citra Dewi", Role: user.RoleManager, BaseSalary: 10560},
	}}
	log := &fakeTransitionLog{claimed: make(map[string]bool)}
	notifier := &fakeNotifier{}
	ledger := &fakeLedger{}

	return &dispatcherFixture{
		d:        NewDispatcher(log, notifier, ledger, employees, slog.Default()),
		log:      log,
		notifier: notifier,
		ledger:   ledger,
	}
}

func day() time.Time {
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func TestLateCheckInNotifiesEmployeeAndManager(t *testing.T) {
	fx := newDispatcherFixture()

	fx.d.OnTransition(context.Background(), attendance.Transition{
		ID:         "t-1",
		Kind:       attendance.TransitionCheckedIn,
		EmployeeID: "emp-1",
		Date:       day(),
		Verdict:    attendance.Verdict{IsLate: true, MinutesLate: 20},
	})

	assert.ElementsMatch(t, []string{"emp-1", "mgr-1"}, fx.notifier.recipients())
	assert.Empty(t, fx.ledger.entries, "lateness settles at check-out, not check-in")
}

func TestOnTimeCheckInIsQuiet(t *testing.T) {
	fx := newDispatcherFixture()

	fx.d.OnTransition(context.Background(), attendance.Transition{
		ID:         "t-1",
		Kind:       attendance.TransitionCheckedIn,
		EmployeeID: "emp-1",
		Date:       day(),
	})

	assert.Empty(t, fx.notifier.sent)
	assert.Empty(t, fx.ledger.entries)
}

func TestOvertimeCheckOutAppendsAddition(t *testing.T) {
	fx := newDispatcherFixture()

	fx.d.OnTransition(context.Background(), attendance.Transition{
		ID:         "t-1",
		Kind:       attendance.TransitionCheckedOut,
		EmployeeID: "emp-1",
		Date:       day(),
		Verdict:    attendance.Verdict{IsOvertime: true, OvertimeHours: 2},
	})

	require.Len(t, fx.ledger.entries, 1)
	adj := fx.ledger.entries[0]
	assert.Equal(t, payroll.KindAddition, adj.Kind)
	// 2h x 40.00/h x 1.5
	assert.InDelta(t, 120.0, adj.Amount, 0.001)
	assert.Equal(t, "t-1", adj.TransitionID)

	assert.ElementsMatch(t, []string{"emp-1", "mgr-1"}, fx.notifier.recipients())
}

func TestLateDaySettlesDeductionAtCheckOut(t *testing.T) {
	fx := newDispatcherFixture()

	late := 20
	fx.d.OnTransition(context.Background(), attendance.Transition{
		ID:         "t-1",
		Kind:       attendance.TransitionCheckedOut,
		EmployeeID: "emp-1",
		Date:       day(),
		Record:     attendance.Record{LateMinutes: &late},
	})

	require.Len(t, fx.ledger.entries, 1)
	adj := fx.ledger.entries[0]
	assert.Equal(t, payroll.KindDeduction, adj.Kind)
	// Deductions are stored negative: -(40.00/h x 0.25)
	assert.InDelta(t, -10.0, adj.Amount, 0.001)
	assert.Negative(t, adj.Amount, "deductions carry a negative signed amount")
}

func TestLedgerAmountSigns(t *testing.T) {
	fx := newDispatcherFixture()

	late := 20
	fx.d.OnTransition(context.Background(), attendance.Transition{
		ID:         "t-1",
		Kind:       attendance.TransitionCheckedOut,
		EmployeeID: "emp-1",
		Date:       day(),
		Verdict:    attendance.Verdict{IsOvertime: true, OvertimeHours: 2},
		Record:     attendance.Record{LateMinutes: &late},
	})

	require.Len(t, fx.ledger.entries, 2)
	for _, adj := range fx.ledger.entries {
		switch adj.Kind {
		case payroll.KindAddition:
			assert.Positive(t, adj.Amount)
		case payroll.KindDeduction:
			assert.Negative(t, adj.Amount)
		}
	}
}

func TestReplayedTransitionProducesNothing(t *testing.T) {
	fx := newDispatcherFixture()

	transition := attendance.Transition{
		ID:         "t-1",
		Kind:       attendance.TransitionCheckedOut,
		EmployeeID: "emp-1",
		Date:       day(),
		Verdict:    attendance.Verdict{IsOvertime: true, OvertimeHours: 1},
	}

	fx.d.OnTransition(context.Background(), transition)
	require.Len(t, fx.ledger.entries, 1)
	sentBefore := len(fx.notifier.sent)

	fx.d.OnTransition(context.Background(), transition)
	fx.d.OnTransition(context.Background(), transition)

	assert.Len(t, fx.ledger.entries, 1, "replay must not duplicate the adjustment")
	assert.Len(t, fx.notifier.sent, sentBefore, "replay must not duplicate notifications")
}

func TestMarkedAbsentNotifies(t *testing.T) {
	fx := newDispatcherFixture()

	fx.d.OnTransition(context.Background(), attendance.Transition{
		ID:         "t-1",
		Kind:       attendance.TransitionMarkedAbsent,
		EmployeeID: "emp-1",
		Date:       day(),
	})

	assert.ElementsMatch(t, []string{"emp-1", "mgr-1"}, fx.notifier.recipients())
	assert.Equal(t, 1, fx.notifier.batches, "paired notifications go out as one batch")
}

func TestNotificationWithoutManagerSkipsBatch(t *testing.T) {
	fx := newDispatcherFixture()

	// mgr-1 has no manager link, so only the single notification goes out.
	fx.d.OnTransition(context.Background(), attendance.Transition{
		ID:         "t-1",
		Kind:       attendance.TransitionMarkedAbsent,
		EmployeeID: "mgr-1",
		Date:       day(),
	})

	assert.Equal(t, []string{"mgr-1"}, fx.notifier.recipients())
	assert.Zero(t, fx.notifier.batches)
}

func TestHourlyRateAssumption(t *testing.T) {
	emp := employee.Employee{BaseSalary: 7040}
	assert.InDelta(t, 40.0, emp.HourlyRate(), 0.001)
}
