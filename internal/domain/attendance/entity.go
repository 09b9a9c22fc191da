package attendance

import "time"

// Status is the canonical daily attendance state. The core operates only on
// these values; UI-facing labels come from Label at the presentation boundary.
type Status string

const (
	StatusNone       Status = "none"
	StatusPresent    Status = "present"
	StatusLate       Status = "late"
	StatusCheckedOut Status = "checked-out"
	StatusAbsent     Status = "absent"
)

var StatusValues = []string{
	string(StatusNone),
	string(StatusPresent),
	string(StatusLate),
	string(StatusCheckedOut),
	string(StatusAbsent),
}

func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusPresent, StatusLate, StatusCheckedOut, StatusAbsent:
		return true
	}
	return false
}

// Label is the single display adapter for status values.
func (s Status) Label() string {
	switch s {
	case StatusPresent:
		return "Present"
	case StatusLate:
		return "Late"
	case StatusCheckedOut:
		return "Checked Out"
	case StatusAbsent:
		return "Absent"
	default:
		return "Not Checked In"
	}
}

// Record is the canonical stored representation of one employee's daily
// attendance. At most one record exists per (employee_id, date); the
// uniqueness is enforced at the storage layer, not in memory.
type Record struct {
	ID            string
	EmployeeID    string
	Date          time.Time // calendar day, deployment-local midnight
	CheckInAt     *time.Time
	CheckOutAt    *time.Time
	Status        Status
	WorkedHours   *float64
	OvertimeHours *float64
	LateMinutes   *int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined for projections
	EmployeeName *string
}

// Open reports whether the record is in the CHECKED_IN state: checked in,
// not yet checked out.
func (r Record) Open() bool {
	return r.CheckInAt != nil && r.CheckOutAt == nil
}
