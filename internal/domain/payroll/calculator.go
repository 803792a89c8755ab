package payroll

import (
	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Statutory constants for the overtime-rate derivation: average working days
// per month and standard daily hours.
var (
	avgWorkingDaysPerMonth = decimal.NewFromFloat(20.5)
	standardDailyHours     = decimal.NewFromFloat(7.5)
	overtimeMultiplier     = decimal.NewFromFloat(1.25)
	lateNightMultiplier    = decimal.NewFromFloat(1.50)
	minutesPerHour         = decimal.NewFromInt(60)
)

// AttendanceTotals are the period aggregates the attendance module produces.
type AttendanceTotals struct {
	ActualWorkMinutes     int
	NormalOvertimeMinutes int
	LateNightMinutes      int
}

// SalaryInput carries everything the salary calculation needs for one
// employee and period.
type SalaryInput struct {
	EmploymentClass employee.EmploymentClass
	// BaseRate is the monthly salary for full-time employees and the
	// hourly rate for part-time employees.
	BaseRate   decimal.Decimal
	Totals     AttendanceTotals
	Allowances []AllowanceLine
	Deductions []DeductionLine
}

// CalculateSalary derives the full monthly statement snapshot. All currency
// values are whole yen: the part-time base rounds half up, the derived rate
// and both time allowances round up.
func CalculateSalary(in SalaryInput) SalaryDetail {
	base := in.BaseRate
	if in.EmploymentClass == employee.EmploymentClassPartTime {
		base = in.BaseRate.
			Mul(decimal.NewFromInt(int64(in.Totals.ActualWorkMinutes))).
			Div(minutesPerHour).
			Round(0)
	}

	rateBase := base
	for _, a := range in.Allowances {
		if a.IncludeInOvertime {
			rateBase = rateBase.Add(a.Amount)
		}
	}
	overtimeRate := rateBase.Div(avgWorkingDaysPerMonth).Div(standardDailyHours).Ceil()

	overtimeAllowance := overtimeRate.
		Mul(overtimeMultiplier).
		Mul(decimal.NewFromInt(int64(in.Totals.NormalOvertimeMinutes))).
		Div(minutesPerHour).
		Ceil()
	lateNightAllowance := overtimeRate.
		Mul(lateNightMultiplier).
		Mul(decimal.NewFromInt(int64(in.Totals.LateNightMinutes))).
		Div(minutesPerHour).
		Ceil()

	earnings := base.Add(overtimeAllowance).Add(lateNightAllowance)
	for _, a := range in.Allowances {
		earnings = earnings.Add(a.Amount)
	}
	deductions := decimal.Zero
	for _, d := range in.Deductions {
		deductions = deductions.Add(d.Amount)
	}

	return SalaryDetail{
		BaseSalary:            base,
		OvertimeRate:          overtimeRate,
		OvertimeAllowance:     overtimeAllowance,
		LateNightAllowance:    lateNightAllowance,
		ActualWorkMinutes:     in.Totals.ActualWorkMinutes,
		NormalOvertimeMinutes: in.Totals.NormalOvertimeMinutes,
		LateNightMinutes:      in.Totals.LateNightMinutes,
		TotalEarnings:         earnings,
		TotalDeductions:       deductions,
		NetPay:                earnings.Sub(deductions),
	}
}

// CalculateBonus aggregates the bonus statement under the same totals law.
// Net pay is never clamped: statutory deductions exceeding the bonus yield a
// negative result.
func CalculateBonus(bonus, health, pension, employmentInsurance, incomeTax decimal.Decimal) BonusDetail {
	deductions := health.Add(pension).Add(employmentInsurance).Add(incomeTax)
	return BonusDetail{
		BonusAmount:         bonus,
		HealthInsurance:     health,
		Pension:             pension,
		EmploymentInsurance: employmentInsurance,
		IncomeTax:           incomeTax,
		TotalEarnings:       bonus,
		TotalDeductions:     deductions,
		NetPay:              bonus.Sub(deductions),
	}
}
