package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/domain/employee"
	"github.com/tempohq/attendance-backend-go/internal/domain/shift"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/service/scope"
)

// AttendanceServiceImpl is the attendance state machine. It owns every write
// to attendance records; reads happen through it or the read views. There is
// deliberately no in-process locking: the storage constraints decide every
// race, so multiple server processes stay correct.
type AttendanceServiceImpl struct {
	recordRepo   attendance.RecordRepository
	shiftRepo    shift.ShiftRepository
	employeeRepo employee.EmployeeRepository
	guard        *scope.Guard
	loc          *time.Location
	now          func() time.Time
	sinks        []attendance.TransitionSink
}

func NewAttendanceService(
	recordRepo attendance.RecordRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	guard *scope.Guard,
	loc *time.Location,
	sinks ...attendance.TransitionSink,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		recordRepo:   recordRepo,
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		guard:        guard,
		loc:          loc,
		now:          time.Now,
		sinks:        sinks,
	}
}

// WithClock overrides the service clock, for tests.
func (s *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	s.now = now
	return s
}

// shiftFor resolves the employee's shift, falling back to the system default.
func (s *AttendanceServiceImpl) shiftFor(ctx context.Context, employeeID string) (shift.Shift, error) {
	sh, err := s.shiftRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.DefaultShift(employeeID), nil
		}
		return shift.Shift{}, fmt.Errorf("failed to resolve shift: %w", err)
	}
	return sh, nil
}

func (s *AttendanceServiceImpl) localDay(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
}

// emit hands a committed transition to every sink. Sink failures are their
// own problem; the transition is already committed and never rolls back.
func (s *AttendanceServiceImpl) emit(ctx context.Context, kind attendance.TransitionKind, rec attendance.Record, verdict attendance.Verdict) {
	t := attendance.Transition{
		ID:         uuid.New().String(),
		Kind:       kind,
		EmployeeID: rec.EmployeeID,
		Date:       rec.Date,
		Record:     rec,
		Verdict:    verdict,
		OccurredAt: s.now(),
	}
	for _, sink := range s.sinks {
		sink.OnTransition(ctx, t)
	}
}

// CheckIn implements attendance.Service. Valid only from NONE; the unique
// (employee_id, date) constraint turns every concurrent duplicate into
// ErrDuplicateCheckIn. A shift with no active entry for today does not block
// check-in: out-of-schedule work is recorded, not prevented.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.RecordResponse{}, err
	}

	nowLocal := s.now().In(s.loc)
	date := s.localDay(nowLocal)

	sh, err := s.shiftFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	verdict := attendance.LatenessVerdict(sh, nowLocal)
	status := attendance.StatusPresent
	var lateMinutes *int
	if verdict.IsLate {
		status = attendance.StatusLate
		m := verdict.MinutesLate
		lateMinutes = &m
	}

	rec := attendance.Record{
		ID:          uuid.New().String(),
		EmployeeID:  req.EmployeeID,
		Date:        date,
		CheckInAt:   &nowLocal,
		Status:      status,
		LateMinutes: lateMinutes,
	}

	created, err := s.recordRepo.Create(ctx, rec)
	if err != nil {
		// ErrDuplicateCheckIn propagates verbatim: it is a state-machine
		// precondition failure, not a fault.
		return attendance.RecordResponse{}, err
	}

	s.emit(ctx, attendance.TransitionCheckedIn, created, verdict)
	return attendance.ToResponse(created), nil
}

// CheckOut implements attendance.Service. Valid only from CHECKED_IN. The
// conditional update in Close picks the single winner of a check-out race;
// losers re-read the row to report the precise precondition that failed.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	nowLocal := s.now().In(s.loc)
	date := s.localDay(nowLocal)

	existing, err := s.recordRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if existing == nil || existing.CheckInAt == nil {
		return attendance.RecordResponse{}, attendance.ErrNoCheckInFound
	}
	if existing.CheckOutAt != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
	}

	sh, err := s.shiftFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	verdict := attendance.OvertimeVerdict(sh, nowLocal)
	workedHours := attendance.WorkedHours(*existing.CheckInAt, nowLocal)

	closed, err := s.recordRepo.Close(ctx, req.EmployeeID, date, nowLocal, workedHours, verdict.OvertimeHours)
	if err != nil {
		if errors.Is(err, attendance.ErrNoCheckInFound) {
			// Lost the race: decide which precondition actually failed.
			current, getErr := s.recordRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
			if getErr == nil && current != nil && current.CheckOutAt != nil {
				return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
			}
			return attendance.RecordResponse{}, attendance.ErrNoCheckInFound
		}
		return attendance.RecordResponse{}, err
	}

	s.emit(ctx, attendance.TransitionCheckedOut, closed, verdict)
	return attendance.ToResponse(closed), nil
}

// TodayStatus implements attendance.Service.
func (s *AttendanceServiceImpl) TodayStatus(ctx context.Context, sc user.Scope, employeeID string) (attendance.TodayStatusResponse, error) {
	if err := s.guard.Allows(ctx, sc, employeeID); err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	date := s.localDay(s.now())
	rec, err := s.recordRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	resp := attendance.TodayStatusResponse{
		EmployeeID: employeeID,
		Date:       date.Format("2006-01-02"),
		Status:     string(attendance.StatusNone),
	}
	if rec != nil {
		r := attendance.ToResponse(*rec)
		resp.Record = &r
		resp.Status = string(rec.Status)
		resp.HasCheckedIn = rec.CheckInAt != nil
		resp.CanCheckOut = rec.Open()
	}
	resp.StatusLabel = attendance.Status(resp.Status).Label()
	return resp, nil
}

// List implements attendance.Service. The resolved scope constrains the
// visible employee set; the filter never widens it.
func (s *AttendanceServiceImpl) List(ctx context.Context, sc user.Scope, filter attendance.ListFilter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	ids, err := s.guard.VisibleIDs(ctx, sc)
	if err != nil {
		return attendance.ListResponse{}, err
	}
	filter.EmployeeIDs = ids

	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.ToResponse(rec))
	}

	return attendance.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

// MarkAbsent implements attendance.Service. Administrative only; holds the
// same uniqueness invariant as check-in and emits through the same contract.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, req attendance.MarkAbsentRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	day, _ := time.ParseInLocation("2006-01-02", req.Date, s.loc)

	rec := attendance.Record{
		ID:         uuid.New().String(),
		EmployeeID: req.EmployeeID,
		Date:       day,
		Status:     attendance.StatusAbsent,
	}

	created, err := s.recordRepo.Create(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	s.emit(ctx, attendance.TransitionMarkedAbsent, created, attendance.Verdict{})
	return attendance.ToResponse(created), nil
}

// Correct implements attendance.Service. Administrative correction is the
// only mutation allowed after check-out.
func (s *AttendanceServiceImpl) Correct(ctx context.Context, req attendance.CorrectRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.recordRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if req.CheckInAt != nil {
		t, _ := time.Parse(time.RFC3339, *req.CheckInAt)
		t = t.In(s.loc)
		rec.CheckInAt = &t
	}
	if req.CheckOutAt != nil {
		t, _ := time.Parse(time.RFC3339, *req.CheckOutAt)
		t = t.In(s.loc)
		rec.CheckOutAt = &t
	}
	if req.Status != nil {
		rec.Status = attendance.Status(*req.Status)
	}
	if req.OvertimeHours != nil {
		rec.OvertimeHours = req.OvertimeHours
	}

	if rec.CheckInAt != nil && rec.CheckOutAt != nil {
		worked := attendance.WorkedHours(*rec.CheckInAt, *rec.CheckOutAt)
		rec.WorkedHours = &worked
	}

	updated, err := s.recordRepo.Update(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	s.emit(ctx, attendance.TransitionCorrected, updated, attendance.Verdict{})
	return attendance.ToResponse(updated), nil
}

var _ attendance.Service = (*AttendanceServiceImpl)(nil)
