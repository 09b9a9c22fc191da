package attendance

import "errors"

// Attendance domain errors. The conflict errors signal genuine state-machine
// precondition failures, never transient faults, and are surfaced verbatim.
var (
	ErrDuplicateCheckIn  = errors.New("attendance record already exists for today")
	ErrNoCheckInFound    = errors.New("no open check-in found for today")
	ErrAlreadyCheckedOut = errors.New("attendance already checked out for today")

	ErrRecordNotFound = errors.New("attendance record not found")
)
