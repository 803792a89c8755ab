package attendance

import (
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
)

type BreakInput struct {
	Start string  `json:"break_start"`
	End   *string `json:"break_end,omitempty"`
}

// CorrectionRequest replaces punches and/or the break set wholesale. A nil
// Breaks field preserves existing breaks; an empty list clears them.
type CorrectionRequest struct {
	ID       string        `json:"attendance_id"`
	ClockIn  *string       `json:"clock_in,omitempty"`
	ClockOut *string       `json:"clock_out,omitempty"`
	Breaks   *[]BreakInput `json:"breaks,omitempty"`
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}

	if r.ClockIn != nil && *r.ClockIn != "" {
		if _, ok := validator.IsValidDateTime(*r.ClockIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be an ISO8601 timestamp",
			})
		}
	}

	if r.ClockOut != nil && *r.ClockOut != "" {
		if _, ok := validator.IsValidDateTime(*r.ClockOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be an ISO8601 timestamp",
			})
		}
	}

	if r.Breaks != nil {
		for _, b := range *r.Breaks {
			if _, ok := validator.IsValidDateTime(b.Start); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   "breaks",
					Message: "break_start must be an ISO8601 timestamp",
				})
				break
			}
			if b.End != nil {
				if _, ok := validator.IsValidDateTime(*b.End); !ok {
					errs = append(errs, validator.ValidationError{
						Field:   "breaks",
						Message: "break_end must be an ISO8601 timestamp",
					})
					break
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MemoRequest struct {
	ID   string  `json:"attendance_id"`
	Memo *string `json:"memo"`
}

func (r *MemoRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}
	if r.Memo != nil && len(*r.Memo) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "memo",
			Message: "memo must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type Filter struct {
	EmployeeID *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Status     *string
	Page       int
	Limit      int
}

type MyFilter struct {
	Year  int
	Month time.Month
	Page  int
	Limit int
}

type BreakResponse struct {
	ID    string  `json:"break_id"`
	Start string  `json:"break_start"`
	End   *string `json:"break_end,omitempty"`
}

type RecordResponse struct {
	ID               string          `json:"attendance_id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	WorkDate         string          `json:"work_date"`
	ClockIn          *string         `json:"clock_in,omitempty"`
	ClockOut         *string         `json:"clock_out,omitempty"`
	Breaks           []BreakResponse `json:"breaks"`
	Status           string          `json:"status"`
	TotalWorkMinutes int             `json:"total_work_minutes"`
	OvertimeMinutes  int             `json:"overtime_minutes"`
	LateNightMinutes int             `json:"late_night_minutes"`
	Memo             *string         `json:"memo,omitempty"`
	UpdatedBy        string          `json:"updated_by,omitempty"`
	UpdatedAt        string          `json:"updated_at,omitempty"`
}

type ListRecordResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}

type MonthlySummaryResponse struct {
	EmployeeID            string `json:"employee_id"`
	Year                  int    `json:"year"`
	Month                 int    `json:"month"`
	DaysWorked            int    `json:"days_worked"`
	ActualWorkMinutes     int    `json:"actual_work_minutes"`
	NormalOvertimeMinutes int    `json:"normal_overtime_minutes"`
	LateNightMinutes      int    `json:"late_night_minutes"`
}
