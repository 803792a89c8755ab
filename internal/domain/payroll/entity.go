package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementType is the stored discriminator between a monthly salary
// statement and a bonus statement. Consumers must never infer the type from
// which detail fields happen to be populated.
type StatementType string

const (
	TypeSalary StatementType = "salary"
	TypeBonus  StatementType = "bonus"
)

// Record is a payroll statement for one employee and period. The numeric
// detail is an authoritative snapshot: editing never recomputes it, only an
// explicit regenerate does. Superseding a record deactivates the prior
// version together with its line items.
type Record struct {
	ID            string
	EmployeeID    string
	Year          int
	Month         time.Month
	StatementType StatementType
	Memo          *string
	IsActive      bool

	SalaryDetail *SalaryDetail
	BonusDetail  *BonusDetail

	AllowanceLines []AllowanceLine
	DeductionLines []DeductionLine

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// SalaryDetail is the monthly statement snapshot.
type SalaryDetail struct {
	BaseSalary            decimal.Decimal
	OvertimeRate          decimal.Decimal
	OvertimeAllowance     decimal.Decimal
	LateNightAllowance    decimal.Decimal
	ActualWorkMinutes     int
	NormalOvertimeMinutes int
	LateNightMinutes      int
	TotalEarnings         decimal.Decimal
	TotalDeductions       decimal.Decimal
	NetPay                decimal.Decimal
}

// BonusDetail is the bonus statement snapshot: a single earning and the four
// statutory deductions, under the same totals law as salary.
type BonusDetail struct {
	BonusAmount         decimal.Decimal
	HealthInsurance     decimal.Decimal
	Pension             decimal.Decimal
	EmploymentInsurance decimal.Decimal
	IncomeTax           decimal.Decimal
	TotalEarnings       decimal.Decimal
	TotalDeductions     decimal.Decimal
	NetPay              decimal.Decimal
}

// AllowanceLine is a snapshotted allowance row. Name and amount are copied
// from the master at statement time so later master edits do not rewrite
// history.
type AllowanceLine struct {
	ID                string
	AllowanceMasterID string
	Name              string
	Amount            decimal.Decimal
	IncludeInOvertime bool
}

// DeductionLine is a snapshotted deduction row.
type DeductionLine struct {
	ID                string
	DeductionMasterID string
	Name              string
	Amount            decimal.Decimal
}
