package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access for attendance records. The unique
// (employee_id, date) constraint is the only mutual exclusion primitive: two
// concurrent check-ins race at the storage layer and exactly one wins.
type RecordRepository interface {
	// Create inserts a new daily record. A unique-constraint violation on
	// (employee_id, date) is returned as ErrDuplicateCheckIn.
	Create(ctx context.Context, rec Record) (Record, error)

	// Close finalizes the open record for (employeeID, date) by setting
	// check_out_at and the computed fields, conditional on check_out_at
	// still being null. When no row matches, callers distinguish
	// ErrNoCheckInFound from ErrAlreadyCheckedOut via GetByEmployeeAndDate.
	Close(ctx context.Context, employeeID string, date time.Time, checkOutAt time.Time, workedHours, overtimeHours float64) (Record, error)

	// GetByEmployeeAndDate retrieves one day's record. Returns nil without
	// error when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// GetByID retrieves a record by ID. Returns ErrRecordNotFound when
	// none exists.
	GetByID(ctx context.Context, id string) (Record, error)

	// Update rewrites a record, for administrative corrections only.
	Update(ctx context.Context, rec Record) (Record, error)

	// List retrieves records matching the filter, scope-constrained by the
	// caller, with total count for pagination.
	List(ctx context.Context, filter ListFilter) ([]Record, int64, error)

	// ListRecordedEmployeeIDs returns the IDs of employees having any
	// record on the given date, for the absence sweep.
	ListRecordedEmployeeIDs(ctx context.Context, date time.Time) ([]string, error)
}
