package payroll

import "errors"

// Payroll domain errors
var (
	ErrStatementNotFound = errors.New("payroll statement not found")
	// ErrDuplicatePeriod signals an active statement of the same type
	// already exists for the employee and period.
	ErrDuplicatePeriod      = errors.New("an active payroll statement already exists for this period")
	ErrStatementInactive    = errors.New("payroll statement has been superseded or deleted")
	ErrNotSalaryStatement   = errors.New("operation applies to salary statements only")
	ErrEmployeeNotOnPayroll = errors.New("employee is not active in the requested period")
)
