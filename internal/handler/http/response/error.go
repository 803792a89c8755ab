package response

import (
	"errors"
	"net/http"

	"github.com/kintai-works/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-works/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-works/kintai-backend-go/internal/domain/master"
	"github.com/kintai-works/kintai-backend-go/internal/domain/payroll"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Administrator privilege required")
	case errors.Is(err, auth.ErrNotResourceOwner):
		Forbidden(w, "Not allowed to access this resource")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "Already clocked out today")
	case errors.Is(err, attendance.ErrAlreadyCompleted):
		Conflict(w, "Attendance for the day is already completed")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this day")
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "Not clocked in yet", nil)
	case errors.Is(err, attendance.ErrBreakAlreadyOpen):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, attendance.ErrNoOpenBreak):
		BadRequest(w, "No break is in progress", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrConcurrentUpdate):
		Conflict(w, "Attendance record was changed by another request")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrGrantNotFound):
		NotFound(w, "Leave grant not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient paid leave balance", nil)
	case errors.Is(err, leave.ErrAlreadyProcessed):
		BadRequest(w, "Leave request has already been processed", nil)
	case errors.Is(err, leave.ErrRequestImmutable):
		BadRequest(w, "Leave request can no longer be modified", nil)
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "An existing leave request overlaps this period")

	// Master data errors
	case errors.Is(err, master.ErrAllowanceNotFound):
		NotFound(w, "Allowance master not found")
	case errors.Is(err, master.ErrDeductionNotFound):
		NotFound(w, "Deduction master not found")
	case errors.Is(err, master.ErrMasterInUse):
		Conflict(w, "Master is still referenced by an employee")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrStatementNotFound):
		NotFound(w, "Payroll statement not found")
	case errors.Is(err, payroll.ErrDuplicatePeriod):
		Conflict(w, "An active payroll statement already exists for this period")
	case errors.Is(err, payroll.ErrStatementInactive):
		Conflict(w, "Payroll statement has been superseded or deleted")
	case errors.Is(err, payroll.ErrNotSalaryStatement):
		BadRequest(w, "Operation applies to salary statements only", nil)
	case errors.Is(err, payroll.ErrEmployeeNotOnPayroll):
		BadRequest(w, "Employee is not active in the requested period", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
