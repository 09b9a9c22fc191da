package shift

import (
	"context"

	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

// ShiftService defines business logic for the shift registry.
type ShiftService interface {
	// GetForEmployee returns the employee's shift, or the default when a
	// scope-permitted employee has none registered.
	GetForEmployee(ctx context.Context, scope user.Scope, employeeID string) (ShiftResponse, error)

	// Upsert replaces the employee's shift definition.
	Upsert(ctx context.Context, req UpsertShiftRequest) (ShiftResponse, error)

	// Delete removes the employee's shift, reverting them to the default.
	Delete(ctx context.Context, employeeID string) error

	// List returns every registered shift.
	List(ctx context.Context) ([]ShiftResponse, error)
}

type UpsertShiftRequest struct {
	EmployeeID string `json:"employee_id"`
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	Weekdays   []int  `json:"weekdays"`   // 1=Monday ... 7=Sunday
}

func (r *UpsertShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidClock(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}

	if !validator.IsValidClock(r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}

	if validator.IsValidClock(r.StartTime) && validator.IsValidClock(r.EndTime) {
		start, _ := ParseTimeOfDay(r.StartTime)
		end, _ := ParseTimeOfDay(r.EndTime)
		if end.MinutesOfDay() <= start.MinutesOfDay() {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "end_time must be after start_time; shifts crossing midnight are not supported",
			})
		}
	}

	if len(r.Weekdays) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "weekdays",
			Message: "at least one active weekday is required",
		})
	}
	seen := map[int]bool{}
	for _, wd := range r.Weekdays {
		if wd < 1 || wd > 7 {
			errs = append(errs, validator.ValidationError{
				Field:   "weekdays",
				Message: "weekdays must be between 1 (Monday) and 7 (Sunday)",
			})
			break
		}
		if seen[wd] {
			errs = append(errs, validator.ValidationError{
				Field:   "weekdays",
				Message: "weekdays must not repeat",
			})
			break
		}
		seen[wd] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID         string `json:"id,omitempty"`
	EmployeeID string `json:"employee_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Weekdays   []int  `json:"weekdays"`
	IsDefault  bool   `json:"is_default"`
}

// ToResponse maps a Shift entity to its API projection.
func ToResponse(s Shift, isDefault bool) ShiftResponse {
	return ShiftResponse{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		StartTime:  s.StartTime.String(),
		EndTime:    s.EndTime.String(),
		Weekdays:   s.Weekdays,
		IsDefault:  isDefault,
	}
}
