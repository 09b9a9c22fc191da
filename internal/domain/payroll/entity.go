package payroll

import "time"

// AdjustmentKind distinguishes ledger directions. Amount carries the sign as
// well: negative for deductions, positive for additions.
type AdjustmentKind string

const (
	KindDeduction AdjustmentKind = "deduction"
	KindAddition  AdjustmentKind = "addition"
)

// PayAdjustment is an append-only ledger entry. Entries are never edited or
// deleted so historical payroll computations stay reproducible.
type PayAdjustment struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	Amount       float64
	Reason       string
	Kind         AdjustmentKind
	TransitionID string
	CreatedAt    time.Time
}

// Overtime pay multiplier and the flat late-arrival deduction fraction of one
// hourly rate.
const (
	OvertimeMultiplier    = 1.5
	LateDeductionFraction = 0.25
)
