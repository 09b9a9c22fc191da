package payroll

import "errors"

var (
	ErrAdjustmentNotFound = errors.New("pay adjustment not found")
)
