package payroll

import (
	"context"
	"time"
)

// Repository is the append-only pay adjustment ledger. No update or delete
// methods exist.
type Repository interface {
	Append(ctx context.Context, adj *PayAdjustment) error
	AppendBatch(ctx context.Context, adjs []*PayAdjustment) error

	// ListByEmployee returns entries for one employee in a date range.
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]PayAdjustment, error)

	// ListByDateRange returns all entries in a date range, optionally
	// constrained to a set of employees.
	ListByDateRange(ctx context.Context, employeeIDs []string, from, to time.Time) ([]PayAdjustment, error)
}
