package payroll

import (
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
)

type CreateSalaryRequest struct {
	EmployeeID string  `json:"employee_id"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Memo       *string `json:"memo,omitempty"`
}

func (r *CreateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	errs = append(errs, validatePeriod(r.Year, r.Month)...)
	errs = append(errs, validateMemo(r.Memo)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateBonusRequest struct {
	EmployeeID          string  `json:"employee_id"`
	Year                int     `json:"year"`
	Month               int     `json:"month"`
	BonusAmount         float64 `json:"bonus_amount"`
	HealthInsurance     float64 `json:"health_insurance"`
	Pension             float64 `json:"pension"`
	EmploymentInsurance float64 `json:"employment_insurance"`
	IncomeTax           float64 `json:"income_tax"`
	Memo                *string `json:"memo,omitempty"`
}

func (r *CreateBonusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	errs = append(errs, validatePeriod(r.Year, r.Month)...)

	if r.BonusAmount < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "bonus_amount",
			Message: "bonus_amount must not be negative",
		})
	}
	deductionFields := []struct {
		field string
		value float64
	}{
		{"health_insurance", r.HealthInsurance},
		{"pension", r.Pension},
		{"employment_insurance", r.EmploymentInsurance},
		{"income_tax", r.IncomeTax},
	}
	for _, d := range deductionFields {
		if d.value < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   d.field,
				Message: d.field + " must not be negative",
			})
		}
	}
	errs = append(errs, validateMemo(r.Memo)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRequest edits the statement memo. The stored snapshot is
// authoritative: figures change only through Regenerate.
type UpdateRequest struct {
	ID   string  `json:"payroll_id"`
	Memo *string `json:"memo"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "payroll_id",
			Message: "payroll_id is required",
		})
	}
	errs = append(errs, validateMemo(r.Memo)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(year, month int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if year < 2000 || year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	return errs
}

func validateMemo(memo *string) validator.ValidationErrors {
	if memo != nil && len(*memo) > 1000 {
		return validator.ValidationErrors{{
			Field:   "memo",
			Message: "memo must not exceed 1000 characters",
		}}
	}
	return nil
}

type Filter struct {
	EmployeeID    *string
	Year          *int
	Month         *time.Month
	StatementType *string
	Page          int
	Limit         int
}

type SalaryDetailResponse struct {
	BaseSalary            string `json:"base_salary"`
	OvertimeRate          string `json:"overtime_rate"`
	OvertimeAllowance     string `json:"overtime_allowance"`
	LateNightAllowance    string `json:"late_night_allowance"`
	ActualWorkMinutes     int    `json:"actual_work_minutes"`
	NormalOvertimeMinutes int    `json:"normal_overtime_minutes"`
	LateNightMinutes      int    `json:"late_night_minutes"`
	TotalEarnings         string `json:"total_earnings"`
	TotalDeductions       string `json:"total_deductions"`
	NetPay                string `json:"net_pay"`
}

type BonusDetailResponse struct {
	BonusAmount         string `json:"bonus_amount"`
	HealthInsurance     string `json:"health_insurance"`
	Pension             string `json:"pension"`
	EmploymentInsurance string `json:"employment_insurance"`
	IncomeTax           string `json:"income_tax"`
	TotalEarnings       string `json:"total_earnings"`
	TotalDeductions     string `json:"total_deductions"`
	NetPay              string `json:"net_pay"`
}

type AllowanceLineResponse struct {
	AllowanceMasterID string `json:"allowance_id"`
	Name              string `json:"name"`
	Amount            string `json:"amount"`
	IncludeInOvertime bool   `json:"include_in_overtime"`
}

type DeductionLineResponse struct {
	DeductionMasterID string `json:"deduction_id"`
	Name              string `json:"name"`
	Amount            string `json:"amount"`
}

type StatementResponse struct {
	ID            string                  `json:"payroll_id"`
	EmployeeID    string                  `json:"employee_id"`
	EmployeeName  *string                 `json:"employee_name,omitempty"`
	Year          int                     `json:"year"`
	Month         int                     `json:"month"`
	StatementType string                  `json:"statement_type"`
	Memo          *string                 `json:"memo,omitempty"`
	SalaryDetail  *SalaryDetailResponse   `json:"salary_detail,omitempty"`
	BonusDetail   *BonusDetailResponse    `json:"bonus_detail,omitempty"`
	Allowances    []AllowanceLineResponse `json:"allowances,omitempty"`
	Deductions    []DeductionLineResponse `json:"deductions,omitempty"`
	CreatedAt     string                  `json:"created_at"`
	UpdatedAt     string                  `json:"updated_at"`
}

type ListStatementResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Statements []StatementResponse `json:"statements"`
}
