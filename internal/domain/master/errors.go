package master

import "errors"

// Master data errors
var (
	ErrAllowanceNotFound = errors.New("allowance master not found")
	ErrDeductionNotFound = errors.New("deduction master not found")
	ErrMasterInUse       = errors.New("master is referenced by an employee and cannot be removed")
)
