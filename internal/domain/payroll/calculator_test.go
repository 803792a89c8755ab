package payroll

import (
	"testing"

	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func yen(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestCalculateSalary_FullTimeOvertime(t *testing.T) {
	// 300000 monthly, 10h overtime: rate = ceil(300000/20.5/7.5) = 1952,
	// allowance = ceil(1952 * 1.25 * 10) = 24400.
	detail := CalculateSalary(SalaryInput{
		EmploymentClass: employee.EmploymentClassFullTime,
		BaseRate:        yen(300000),
		Totals: AttendanceTotals{
			ActualWorkMinutes:     9600,
			NormalOvertimeMinutes: 600,
		},
	})

	assert.True(t, detail.BaseSalary.Equal(yen(300000)))
	assert.True(t, detail.OvertimeRate.Equal(yen(1952)), "got %s", detail.OvertimeRate)
	assert.True(t, detail.OvertimeAllowance.Equal(yen(24400)), "got %s", detail.OvertimeAllowance)
	assert.True(t, detail.LateNightAllowance.IsZero())
	assert.True(t, detail.TotalEarnings.Equal(yen(324400)))
	assert.True(t, detail.NetPay.Equal(yen(324400)))
}

func TestCalculateSalary_OvertimeRateIncludesFlaggedAllowances(t *testing.T) {
	detail := CalculateSalary(SalaryInput{
		EmploymentClass: employee.EmploymentClassFullTime,
		BaseRate:        yen(300000),
		Totals:          AttendanceTotals{NormalOvertimeMinutes: 60},
		Allowances: []AllowanceLine{
			{Name: "commute", Amount: yen(10000), IncludeInOvertime: false},
			{Name: "duty", Amount: yen(7500), IncludeInOvertime: true},
		},
	})

	// Rate base is 307500, not 317500: only the flagged allowance counts.
	// ceil(307500/20.5/7.5) = 2000.
	assert.True(t, detail.OvertimeRate.Equal(yen(2000)), "got %s", detail.OvertimeRate)
	assert.True(t, detail.OvertimeAllowance.Equal(yen(2500)))

	// Earnings still include every allowance.
	expected := yen(300000 + 2500 + 10000 + 7500)
	assert.True(t, detail.TotalEarnings.Equal(expected), "got %s", detail.TotalEarnings)
}

func TestCalculateSalary_PartTimeBaseRounding(t *testing.T) {
	// 1250 yen/h over 5530 minutes = 115208.33..., rounds to 115208.
	detail := CalculateSalary(SalaryInput{
		EmploymentClass: employee.EmploymentClassPartTime,
		BaseRate:        yen(1250),
		Totals:          AttendanceTotals{ActualWorkMinutes: 5530},
	})
	assert.True(t, detail.BaseSalary.Equal(yen(115208)), "got %s", detail.BaseSalary)

	detail = CalculateSalary(SalaryInput{
		EmploymentClass: employee.EmploymentClassPartTime,
		BaseRate:        yen(1250),
		Totals:          AttendanceTotals{ActualWorkMinutes: 5526},
	})
	// 1250 * 5526 / 60 = 115125 exact.
	assert.True(t, detail.BaseSalary.Equal(yen(115125)), "got %s", detail.BaseSalary)
}

func TestCalculateSalary_LateNightAllowance(t *testing.T) {
	// rate 1952, 90 late-night minutes: ceil(1952 * 1.5 * 1.5) = 4392.
	detail := CalculateSalary(SalaryInput{
		EmploymentClass: employee.EmploymentClassFullTime,
		BaseRate:        yen(300000),
		Totals:          AttendanceTotals{LateNightMinutes: 90},
	})
	assert.True(t, detail.LateNightAllowance.Equal(yen(4392)), "got %s", detail.LateNightAllowance)
}

func TestCalculateSalary_NegativeNetPayPreserved(t *testing.T) {
	detail := CalculateSalary(SalaryInput{
		EmploymentClass: employee.EmploymentClassPartTime,
		BaseRate:        yen(1000),
		Totals:          AttendanceTotals{ActualWorkMinutes: 600},
		Deductions: []DeductionLine{
			{Name: "health insurance", Amount: yen(15000)},
			{Name: "pension", Amount: yen(9000)},
		},
	})

	assert.True(t, detail.TotalEarnings.Equal(yen(10000)))
	assert.True(t, detail.TotalDeductions.Equal(yen(24000)))
	assert.True(t, detail.NetPay.Equal(yen(-14000)), "negative net pay must not be clamped")
}

func TestCalculateSalary_TotalsLaw(t *testing.T) {
	detail := CalculateSalary(SalaryInput{
		EmploymentClass: employee.EmploymentClassFullTime,
		BaseRate:        yen(280000),
		Totals: AttendanceTotals{
			ActualWorkMinutes:     9000,
			NormalOvertimeMinutes: 123,
			LateNightMinutes:      45,
		},
		Allowances: []AllowanceLine{
			{Name: "commute", Amount: yen(8200)},
			{Name: "housing", Amount: yen(20000), IncludeInOvertime: true},
		},
		Deductions: []DeductionLine{
			{Name: "health insurance", Amount: yen(14500)},
			{Name: "income tax", Amount: yen(6300)},
		},
	})

	assert.True(t, detail.NetPay.Equal(detail.TotalEarnings.Sub(detail.TotalDeductions)))
}

func TestCalculateBonus(t *testing.T) {
	detail := CalculateBonus(yen(500000), yen(25000), yen(45750), yen(3000), yen(51000))

	assert.True(t, detail.TotalEarnings.Equal(yen(500000)))
	assert.True(t, detail.TotalDeductions.Equal(yen(124750)))
	assert.True(t, detail.NetPay.Equal(yen(375250)))
}

func TestCalculateBonus_NegativeNetPay(t *testing.T) {
	detail := CalculateBonus(yen(10000), yen(25000), yen(0), yen(0), yen(0))
	assert.True(t, detail.NetPay.Equal(yen(-15000)))
}
