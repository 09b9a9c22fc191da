package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/shift"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/service/scope"
)

// fakeRecordRepo enforces the same invariants the storage layer does: unique
// (employee_id, date) on create and a conditional update on close.
type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]*attendance.Record
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]*attendance.Record)}
}

func key(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeRecordRepo) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(rec.EmployeeID, rec.Date)
	if _, exists := f.records[k]; exists {
		return attendance.Record{}, attendance.ErrDuplicateCheckIn
	}
	stored := rec
	f.records[k] = &stored
	return stored, nil
}

func (f *fakeRecordRepo) Close(_ context.Context, employeeID string, date time.Time, checkOutAt time.Time, workedHours, overtimeHours float64) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key(employeeID, date)]
	if !ok || rec.CheckInAt == nil || rec.CheckOutAt != nil {
		return attendance.Record{}, attendance.ErrNoCheckInFound
	}
	rec.CheckOutAt = &checkOutAt
	rec.Status = attendance.StatusCheckedOut
	rec.WorkedHours = &workedHours
	rec.OvertimeHours = &overtimeHours
	return *rec, nil
}

func (f *fakeRecordRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key(employeeID, date)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.ID == id {
			return *rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeRecordRepo) Update(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, existing := range f.records {
		if existing.ID == rec.ID {
			stored := rec
			f.records[k] = &stored
			return stored, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeRecordRepo) List(_ context.Context, filter attendance.ListFilter) ([]attendance.Record, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, rec := range f.records {
		if len(filter.EmployeeIDs) > 0 {
			found := false
			for _, id := range filter.EmployeeIDs {
				if rec.EmployeeID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecordRepo) ListRecordedEmployeeIDs(_ context.Context, date time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, rec := range f.records {
		if rec.Date.Equal(date) {
			ids = append(ids, rec.EmployeeID)
		}
	}
	return ids, nil
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) GetByEmployeeID(_ context.Context, employeeID string) (shift.Shift, error) {
	sh, ok := f.shifts[employeeID]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

func (f *fakeShiftRepo) Upsert(_ context.Context, s shift.Shift) (shift.Shift, error) {
	f.shifts[s.EmployeeID] = s
	return s, nil
}

func (f *fakeShiftRepo) Delete(_ context.Context, employeeID string) error {
	delete(f.shifts, employeeID)
	return nil
}

func (f *fakeShiftRepo) List(_ context.Context) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range f.shifts {
		out = append(out, s)
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.Email == email {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetManager(_ context.Context, employeeID string) (employee.Employee, error) {
	emp, ok := f.employees[employeeID]
	if !ok || emp.ManagerID == nil {
		return employee.Employee{}, employee.ErrManagerNotFound
	}
	mgr, ok := f.employees[*emp.ManagerID]
	if !ok {
		return employee.Employee{}, employee.ErrManagerNotFound
	}
	return mgr, nil
}

func (f *fakeEmployeeRepo) ListIDsByManager(_ context.Context, managerID string) ([]string, error) {
	var ids []string
	for id, emp := range f.employees {
		if emp.ManagerID != nil && *emp.ManagerID == managerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeEmployeeRepo) ListActiveIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id := range f.employees {
		ids = append(ids, id)
	}
	return ids, nil
}

// captureSink records emitted transitions.
type captureSink struct {
	mu          sync.Mutex
	transitions []attendance.Transition
}

func (c *captureSink) OnTransition(_ context.Context, t attendance.Transition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitions = append(c.transitions, t)
}

func (c *captureSink) byKind(kind attendance.TransitionKind) []attendance.Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []attendance.Transition
	for _, t := range c.transitions {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

type fixture struct {
	svc       *AttendanceServiceImpl
	records   *fakeRecordRepo
	shifts    *fakeShiftRepo
	employees *fakeEmployeeRepo
	sink      *captureSink
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	mgr := "mgr-1"
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", FullName: "Ana Putri", Email: "ana@example.com", Role: user.RoleEmployee, ManagerID: &mgr, BaseSalary: 7040},
		"emp-2": {ID: "emp-2", FullName: "Budi Santoso", Email: "budi@example.com", Role: user.RoleEmployee, ManagerID: &mgr, BaseSalary: 5280},
		"mgr-1": {ID: "mgr-1", FullName: "Citra Dewi", Email: "citra@example.com", Role: user.RoleManager, BaseSalary: 10560},
	}}
	records := newFakeRecordRepo()
	shifts := &fakeShiftRepo{shifts: map[string]shift.Shift{}}
	sink := &captureSink{}

	svc := NewAttendanceService(records, shifts, employees, scope.NewGuard(employees), time.UTC, sink).
		WithClock(func() time.Time { return now })

	return &fixture{svc: svc, records: records, shifts: shifts, employees: employees, sink: sink}
}

func TestCheckInOnTime(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	resp, err := fx.svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
	assert.Nil(t, resp.LateMinutes)
	require.Len(t, fx.sink.byKind(attendance.TransitionCheckedIn), 1)
	assert.False(t, fx.sink.byKind(attendance.TransitionCheckedIn)[0].Verdict.IsLate)
}

func TestCheckInLatePastGrace(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 16, 0, 0, time.UTC))

	resp, err := fx.svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusLate), resp.Status)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 16, *resp.LateMinutes)
}

func TestCheckInUsesRegisteredShift(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 20, 0, 0, time.UTC))
	fx.shifts.shifts["emp-1"] = shift.Shift{
		EmployeeID: "emp-1",
		StartTime:  shift.TimeOfDay{Hour: 10},
		EndTime:    shift.TimeOfDay{Hour: 18},
		Weekdays:   []int{1, 2, 3, 4, 5},
	}

	resp, err := fx.svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	// 09:20 is early for a 10:00 shift even though the default would flag it.
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
}

func TestCheckInTwiceConflicts(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := fx.svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = fx.svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrDuplicateCheckIn)

	require.Len(t, fx.sink.byKind(attendance.TransitionCheckedIn), 1)
}

func TestCheckInUnknownEmployee(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := fx.svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "ghost"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestConcurrentCheckInSingleWinner(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, attendance.ErrDuplicateCheckIn):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, fx.sink.byKind(attendance.TransitionCheckedIn), 1)
}

func TestCheckOutHappyPath(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := fx.svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	fx.svc.WithClock(func() time.Time { return time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC) })
	resp, err := fx.svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusCheckedOut), resp.Status)
	require.NotNil(t, resp.WorkedHours)
	assert.InDelta(t, 8.5, *resp.WorkedHours, 0.001)
	require.NotNil(t, resp.OvertimeHours)
	assert.Zero(t, *resp.OvertimeHours, "17:30 is inside the grace window")
}

func TestCheckOutWithOvertime(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := fx.svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	fx.svc.WithClock(func() time.Time { return time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC) })
	resp, err := fx.svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	require.NotNil(t, resp.OvertimeHours)
	assert.InDelta(t, 2.0, *resp.OvertimeHours, 0.001)

	outs := fx.sink.byKind(attendance.TransitionCheckedOut)
	require.Len(t, outs, 1)
	assert.True(t, outs[0].Verdict.IsOvertime)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC))

	_, err := fx.svc.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)
}

func TestCheckOutTwiceConflicts(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := fx.svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	fx.svc.WithClock(func() time.Time { return time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC) })
	_, err = fx.svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = fx.svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestConcurrentCheckOutSingleWinner(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := fx.svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	fx.svc.WithClock(func() time.Time { return time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC) })

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes int
	for err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Len(t, fx.sink.byKind(attendance.TransitionCheckedOut), 1)
}

func TestMarkAbsent(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC))

	resp, err := fx.svc.MarkAbsent(context.Background(), attendance.MarkAbsentRequest{
		EmployeeID: "emp-1",
		Date:       "2026-03-10",
	})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusAbsent), resp.Status)
	assert.Nil(t, resp.CheckInAt)
	require.Len(t, fx.sink.byKind(attendance.TransitionMarkedAbsent), 1)
}

func TestMarkAbsentConflictsWithExistingRecord(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := fx.svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = fx.svc.MarkAbsent(ctx, attendance.MarkAbsentRequest{
		EmployeeID: "emp-1",
		Date:       "2026-03-10",
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicateCheckIn)
}

func TestCorrectRecomputesWorkedHours(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	created, err := fx.svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	newOut := "2026-03-10T18:00:00Z"
	resp, err := fx.svc.Correct(ctx, attendance.CorrectRequest{
		ID:         created.ID,
		CheckOutAt: &newOut,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.WorkedHours)
	assert.InDelta(t, 9.0, *resp.WorkedHours, 0.001)
	require.Len(t, fx.sink.byKind(attendance.TransitionCorrected), 1)
}

func TestCorrectUnknownRecord(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	status := string(attendance.StatusAbsent)
	_, err := fx.svc.Correct(context.Background(), attendance.CorrectRequest{
		ID:     "missing",
		Status: &status,
	})
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestTodayStatusScopeDenied(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := fx.svc.TodayStatus(context.Background(),
		user.Scope{Kind: user.ScopeSelf, EmployeeID: "emp-2"}, "emp-1")
	assert.ErrorIs(t, err, user.ErrScopeDenied)
}

func TestTodayStatusBeforeCheckIn(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	resp, err := fx.svc.TodayStatus(context.Background(),
		user.Scope{Kind: user.ScopeSelf, EmployeeID: "emp-1"}, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusNone), resp.Status)
	assert.False(t, resp.HasCheckedIn)
	assert.False(t, resp.CanCheckOut)
	assert.Nil(t, resp.Record)
}

func TestTodayStatusTeamScope(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := fx.svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	resp, err := fx.svc.TodayStatus(ctx,
		user.Scope{Kind: user.ScopeTeam, EmployeeID: "mgr-1"}, "emp-1")
	require.NoError(t, err)
	assert.True(t, resp.CanCheckOut)

	// emp-2 reports to mgr-1 too, but mgr-1 is nobody's report.
	_, err = fx.svc.TodayStatus(ctx,
		user.Scope{Kind: user.ScopeTeam, EmployeeID: "emp-2"}, "emp-1")
	assert.ErrorIs(t, err, user.ErrScopeDenied)
}

func TestListScopeConstrainsEmployees(t *testing.T) {
	fx := newFixture(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, id := range []string{"emp-1", "emp-2", "mgr-1"} {
		_, err := fx.svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: id})
		require.NoError(t, err)
	}

	selfList, err := fx.svc.List(ctx, user.Scope{Kind: user.ScopeSelf, EmployeeID: "emp-1"}, attendance.ListFilter{})
	require.NoError(t, err)
	require.Len(t, selfList.Records, 1)
	assert.Equal(t, "emp-1", selfList.Records[0].EmployeeID)

	teamList, err := fx.svc.List(ctx, user.Scope{Kind: user.ScopeTeam, EmployeeID: "mgr-1"}, attendance.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, teamList.Records, 3)

	allList, err := fx.svc.List(ctx, user.Scope{Kind: user.ScopeAll}, attendance.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, allList.Records, 3)
}
