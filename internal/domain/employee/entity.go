package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentClass string

const (
	EmploymentClassFullTime EmploymentClass = "full_time"
	EmploymentClassPartTime EmploymentClass = "part_time"
)

// DefaultBreakMinutes values an employee may be configured with. The value
// drives synthetic break insertion at clock-out.
var AllowedDefaultBreakMinutes = []int{0, 30, 60, 90}

type Employee struct {
	ID              string
	Name            string
	Email           string
	EmploymentClass EmploymentClass
	JoinDate        time.Time
	LeaveDate       *time.Time
	IsAdmin         bool

	// BaseSalary is the monthly rate for full-time employees and the
	// hourly rate for part-time employees, in yen.
	BaseSalary decimal.Decimal

	DefaultBreakMinutes int
	PrescribedWorkHours decimal.Decimal

	// AllowanceMasterIDs are the allowance masters attached to this
	// employee's monthly statements.
	AllowanceMasterIDs []string

	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveOn reports whether the employee is employed on the given date:
// joinDate <= date and (no leave date or date < leaveDate).
func (e Employee) ActiveOn(date time.Time) bool {
	if date.Before(e.JoinDate) {
		return false
	}
	if e.LeaveDate != nil && !date.Before(*e.LeaveDate) {
		return false
	}
	return true
}

// PrescribedWorkMinutes returns the prescribed daily schedule in minutes.
func (e Employee) PrescribedWorkMinutes() int {
	return int(e.PrescribedWorkHours.Mul(decimal.NewFromInt(60)).IntPart())
}
