package leave

import (
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var daysTolerance = decimal.NewFromFloat(0.01)

type CreateRequest struct {
	Type      string  `json:"leave_type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	HalfDay   bool    `json:"half_day"`
	Days      float64 `json:"days"`
	Reason    string  `json:"reason"`
}

func (r *CreateRequest) Validate() error {
	return validateSpan(r.Type, r.StartDate, r.EndDate, r.HalfDay, r.Days, r.Reason)
}

type UpdateRequest struct {
	ID        string  `json:"leave_request_id"`
	Type      string  `json:"leave_type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	HalfDay   bool    `json:"half_day"`
	Days      float64 `json:"days"`
	Reason    string  `json:"reason"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_request_id",
			Message: "leave_request_id is required",
		})
	}

	if err := validateSpan(r.Type, r.StartDate, r.EndDate, r.HalfDay, r.Days, r.Reason); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateSpan checks the span fields shared by create and update: the type
// enum, date ordering, the half-day single-date rule, and that the supplied
// day count matches the span.
func validateSpan(leaveType, startDate, endDate string, halfDay bool, days float64, reason string) error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(leaveType, ValidTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: paid, special, sick, absence, other",
		})
	}

	start, startOK := validator.IsValidDate(startDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}
	end, endOK := validator.IsValidDate(endDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else {
			if halfDay && !start.Equal(end) {
				errs = append(errs, validator.ValidationError{
					Field:   "half_day",
					Message: "half-day leave must start and end on the same date",
				})
			}
			expected := ExpectedDays(start, end, halfDay)
			if decimal.NewFromFloat(days).Sub(expected).Abs().GreaterThan(daysTolerance) {
				errs = append(errs, validator.ValidationError{
					Field:   "days",
					Message: "days does not match the requested period",
				})
			}
		}
	}

	if validator.IsEmpty(reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecisionRequest struct {
	ID      string  `json:"leave_request_id"`
	Comment *string `json:"comment,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_request_id",
			Message: "leave_request_id is required",
		})
	}
	if r.Comment != nil && len(*r.Comment) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "comment",
			Message: "comment must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateGrantRequest struct {
	EmployeeID string  `json:"employee_id"`
	GrantDate  string  `json:"grant_date"`
	ExpiresAt  string  `json:"expires_at"`
	Days       float64 `json:"days"`
	Note       *string `json:"note,omitempty"`
}

func (r *CreateGrantRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	grant, grantOK := validator.IsValidDate(r.GrantDate)
	if !grantOK {
		errs = append(errs, validator.ValidationError{
			Field:   "grant_date",
			Message: "grant_date must be a valid date (YYYY-MM-DD)",
		})
	}
	expires, expiresOK := validator.IsValidDate(r.ExpiresAt)
	if !expiresOK {
		errs = append(errs, validator.ValidationError{
			Field:   "expires_at",
			Message: "expires_at must be a valid date (YYYY-MM-DD)",
		})
	}
	if grantOK && expiresOK && !expires.After(grant) {
		errs = append(errs, validator.ValidationError{
			Field:   "expires_at",
			Message: "expires_at must be after grant_date",
		})
	}

	if r.Days <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "days",
			Message: "days must be greater than 0",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Filter struct {
	EmployeeID *string
	Type       *string
	Status     *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

type RequestResponse struct {
	ID              string  `json:"leave_request_id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	Type            string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	HalfDay         bool    `json:"half_day"`
	Days            string  `json:"days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApproverID      *string `json:"approver_id,omitempty"`
	ApproverComment *string `json:"approver_comment,omitempty"`
	ProcessedAt     *string `json:"processed_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ListRequestResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Requests   []RequestResponse `json:"requests"`
}

type GrantResponse struct {
	ID        string  `json:"leave_grant_id"`
	GrantDate string  `json:"grant_date"`
	ExpiresAt string  `json:"expires_at"`
	Granted   string  `json:"granted_days"`
	Used      string  `json:"used_days"`
	Remaining string  `json:"remaining_days"`
	Note      *string `json:"note,omitempty"`
}

type BalanceResponse struct {
	EmployeeID string          `json:"employee_id"`
	AsOf       string          `json:"as_of"`
	Balance    string          `json:"balance"`
	Grants     []GrantResponse `json:"grants"`
}
