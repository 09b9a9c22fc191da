package attendance

import (
	"context"
	"strings"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

// Service is the attendance state machine: NONE -> CHECKED_IN -> CHECKED_OUT,
// with ABSENT reachable from NONE via administrative marking. Each successful
// transition is committed to storage before any side effect observes it.
type Service interface {
	// CheckIn transitions NONE -> CHECKED_IN for today.
	CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)

	// CheckOut transitions CHECKED_IN -> CHECKED_OUT for today.
	CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)

	// TodayStatus returns today's record or a not-yet-checked-in placeholder.
	TodayStatus(ctx context.Context, scope user.Scope, employeeID string) (TodayStatusResponse, error)

	// List returns scope-constrained record projections.
	List(ctx context.Context, scope user.Scope, filter ListFilter) (ListResponse, error)

	// MarkAbsent transitions NONE -> ABSENT, administrative only. It holds
	// the same uniqueness invariant and emission contract as check-in.
	MarkAbsent(ctx context.Context, req MarkAbsentRequest) (RecordResponse, error)

	// Correct rewrites a finalized record, administrative only, emitting a
	// corrected transition so downstream consumers observe it uniformly.
	Correct(ctx context.Context, req CorrectRequest) (RecordResponse, error)
}

type CheckInRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkAbsentRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
}

func (r *MarkAbsentRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CorrectRequest fixes a stored record after the fact. Only provided fields
// change; worked hours are recomputed when both clock times end up set.
type CorrectRequest struct {
	ID            string   `json:"-"`
	CheckInAt     *string  `json:"check_in_at,omitempty"`  // RFC3339
	CheckOutAt    *string  `json:"check_out_at,omitempty"` // RFC3339
	Status        *string  `json:"status,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
}

func (r *CorrectRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CheckInAt != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckInAt); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_at",
				Message: "check_in_at must be an RFC3339 timestamp",
			})
		}
	}
	if r.CheckOutAt != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckOutAt); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_at",
				Message: "check_out_at must be an RFC3339 timestamp",
			})
		}
	}
	if r.Status != nil && !Status(*r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}
	if r.OvertimeHours != nil && *r.OvertimeHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_hours",
			Message: "overtime_hours must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	// EmployeeIDs constrains results to a set of employees; filled from the
	// resolved scope, never from raw request input.
	EmployeeIDs []string `json:"-"`

	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !Status(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecordResponse is the canonical record projection returned to callers and
// broadcast over the real-time channel.
type RecordResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  string   `json:"employee_name,omitempty"`
	Date          string   `json:"date"`
	CheckInAt     *string  `json:"check_in_at,omitempty"`
	CheckOutAt    *string  `json:"check_out_at,omitempty"`
	Status        string   `json:"status"`
	StatusLabel   string   `json:"status_label"`
	WorkedHours   *float64 `json:"worked_hours,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
	LateMinutes   *int     `json:"late_minutes,omitempty"`
}

type TodayStatusResponse struct {
	EmployeeID   string          `json:"employee_id"`
	Date         string          `json:"date"`
	HasCheckedIn bool            `json:"has_checked_in"`
	CanCheckOut  bool            `json:"can_check_out"`
	Status       string          `json:"status"`
	StatusLabel  string          `json:"status_label"`
	Record       *RecordResponse `json:"record,omitempty"`
}

type ListResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}

// ToResponse maps a Record entity to its API projection.
func ToResponse(rec Record) RecordResponse {
	resp := RecordResponse{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		Date:          rec.Date.Format("2006-01-02"),
		CheckInAt:     timePtrToString(rec.CheckInAt),
		CheckOutAt:    timePtrToString(rec.CheckOutAt),
		Status:        string(rec.Status),
		StatusLabel:   rec.Status.Label(),
		WorkedHours:   rec.WorkedHours,
		OvertimeHours: rec.OvertimeHours,
		LateMinutes:   rec.LateMinutes,
	}
	if rec.EmployeeName != nil {
		resp.EmployeeName = *rec.EmployeeName
	}
	return resp
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
