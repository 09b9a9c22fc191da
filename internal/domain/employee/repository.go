package employee

import "context"

// EmployeeRepository defines data access methods for employees.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByEmail retrieves an employee by email, for the login boundary.
	GetByEmail(ctx context.Context, email string) (Employee, error)

	// GetManager resolves the direct manager of an employee. Returns
	// ErrManagerNotFound when the manager link is null or dangling.
	GetManager(ctx context.Context, employeeID string) (Employee, error)

	// ListIDsByManager returns employee IDs directly reporting to a manager.
	ListIDsByManager(ctx context.Context, managerID string) ([]string, error)

	// ListActiveIDs returns all employee IDs, for the absence sweep.
	ListActiveIDs(ctx context.Context) ([]string, error)
}
