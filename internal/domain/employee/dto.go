package employee

import (
	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var employmentClasses = []string{
	string(EmploymentClassFullTime),
	string(EmploymentClassPartTime),
}

type CreateEmployeeRequest struct {
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Password            string          `json:"password"`
	EmploymentClass     string          `json:"employment_class"`
	JoinDate            string          `json:"join_date"`
	LeaveDate           *string         `json:"leave_date,omitempty"`
	IsAdmin             bool            `json:"is_admin"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	DefaultBreakMinutes int             `json:"default_break_minutes"`
	PrescribedWorkHours decimal.Decimal `json:"prescribed_work_hours"`
	AllowanceMasterIDs  []string        `json:"allowance_master_ids,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if !validator.IsInSlice(r.EmploymentClass, employmentClasses) {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_class",
			Message: "employment_class must be full_time or part_time",
		})
	}

	joinDate, ok := validator.IsValidDate(r.JoinDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "join_date",
			Message: "join_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if r.LeaveDate != nil {
		leaveDate, ok2 := validator.IsValidDate(*r.LeaveDate)
		if !ok2 {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_date",
				Message: "leave_date must be a valid date (YYYY-MM-DD)",
			})
		} else if ok && !leaveDate.After(joinDate) {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_date",
				Message: "leave_date must be after join_date",
			})
		}
	}

	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary must not be negative",
		})
	}

	if !isAllowedBreak(r.DefaultBreakMinutes) {
		errs = append(errs, validator.ValidationError{
			Field:   "default_break_minutes",
			Message: "default_break_minutes must be one of 0, 30, 60, 90",
		})
	}

	if r.PrescribedWorkHours.IsNegative() || r.PrescribedWorkHours.GreaterThan(decimal.NewFromInt(24)) {
		errs = append(errs, validator.ValidationError{
			Field:   "prescribed_work_hours",
			Message: "prescribed_work_hours must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID                  string           `json:"employee_id"`
	Name                *string          `json:"name,omitempty"`
	Email               *string          `json:"email,omitempty"`
	EmploymentClass     *string          `json:"employment_class,omitempty"`
	JoinDate            *string          `json:"join_date,omitempty"`
	LeaveDate           *string          `json:"leave_date,omitempty"`
	IsAdmin             *bool            `json:"is_admin,omitempty"`
	BaseSalary          *decimal.Decimal `json:"base_salary,omitempty"`
	DefaultBreakMinutes *int             `json:"default_break_minutes,omitempty"`
	PrescribedWorkHours *decimal.Decimal `json:"prescribed_work_hours,omitempty"`
	AllowanceMasterIDs  []string         `json:"allowance_master_ids,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if r.EmploymentClass != nil && !validator.IsInSlice(*r.EmploymentClass, employmentClasses) {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_class",
			Message: "employment_class must be full_time or part_time",
		})
	}

	if r.JoinDate != nil {
		if _, ok := validator.IsValidDate(*r.JoinDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "join_date",
				Message: "join_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if r.LeaveDate != nil && *r.LeaveDate != "" {
		if _, ok := validator.IsValidDate(*r.LeaveDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_date",
				Message: "leave_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary must not be negative",
		})
	}

	if r.DefaultBreakMinutes != nil && !isAllowedBreak(*r.DefaultBreakMinutes) {
		errs = append(errs, validator.ValidationError{
			Field:   "default_break_minutes",
			Message: "default_break_minutes must be one of 0, 30, 60, 90",
		})
	}

	if r.PrescribedWorkHours != nil &&
		(r.PrescribedWorkHours.IsNegative() || r.PrescribedWorkHours.GreaterThan(decimal.NewFromInt(24))) {
		errs = append(errs, validator.ValidationError{
			Field:   "prescribed_work_hours",
			Message: "prescribed_work_hours must be between 0 and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func isAllowedBreak(minutes int) bool {
	for _, v := range AllowedDefaultBreakMinutes {
		if v == minutes {
			return true
		}
	}
	return false
}

type EmployeeFilter struct {
	ActiveOnly bool
	Page       int
	Limit      int
}

type EmployeeResponse struct {
	ID                  string          `json:"employee_id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	EmploymentClass     string          `json:"employment_class"`
	JoinDate            string          `json:"join_date"`
	LeaveDate           *string         `json:"leave_date,omitempty"`
	IsAdmin             bool            `json:"is_admin"`
	IsActive            bool            `json:"is_active"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	DefaultBreakMinutes int             `json:"default_break_minutes"`
	PrescribedWorkHours decimal.Decimal `json:"prescribed_work_hours"`
	AllowanceMasterIDs  []string        `json:"allowance_master_ids"`
	CreatedAt           string          `json:"created_at"`
	UpdatedAt           string          `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Employees  []EmployeeResponse `json:"employees"`
}
