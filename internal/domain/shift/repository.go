package shift

import "context"

// ShiftRepository defines data access methods for the shift registry.
type ShiftRepository interface {
	// GetByEmployeeID retrieves the registered shift for an employee.
	// Returns ErrShiftNotFound when none exists; callers fall back to
	// DefaultShift.
	GetByEmployeeID(ctx context.Context, employeeID string) (Shift, error)

	// Upsert creates or replaces the employee's shift. One shift per
	// employee at a time, enforced by the unique employee_id constraint.
	Upsert(ctx context.Context, s Shift) (Shift, error)

	// Delete removes the employee's shift, reverting them to the default.
	Delete(ctx context.Context, employeeID string) error

	// List retrieves all registered shifts.
	List(ctx context.Context) ([]Shift, error)
}
