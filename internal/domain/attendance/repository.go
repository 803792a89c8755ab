package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records and their
// breaks. Save must enforce the one-record-per-employee/day uniqueness and
// reject concurrent duplicate punches with ErrDuplicateRecord.
type AttendanceRepository interface {
	// Create inserts a new record with its breaks. Returns
	// ErrDuplicateRecord when a record for (employee, workDate) exists.
	Create(ctx context.Context, rec Record) (Record, error)

	// Update persists the record and reconciles its break rows:
	// superseded breaks are flagged inactive, new ones inserted.
	// The write is guarded against the row version the transition was
	// computed from: when the stored updated_at no longer matches
	// expectedUpdatedAt the write is refused with ErrConcurrentUpdate.
	Update(ctx context.Context, rec Record, expectedUpdatedAt time.Time) error

	GetByID(ctx context.Context, id string) (Record, error)

	// GetByEmployeeAndDate returns nil when no record exists yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*Record, error)

	List(ctx context.Context, filter Filter) ([]Record, int64, error)

	ListByEmployee(ctx context.Context, employeeID string, filter MyFilter) ([]Record, int64, error)

	// MonthlySummary aggregates the period totals the payroll engine
	// consumes.
	MonthlySummary(ctx context.Context, employeeID string, year int, month time.Month) (MonthlySummary, error)
}

// MonthlySummary is the period aggregate handed to payroll regeneration.
type MonthlySummary struct {
	EmployeeID            string
	Year                  int
	Month                 time.Month
	DaysWorked            int
	ActualWorkMinutes     int
	NormalOvertimeMinutes int
	LateNightMinutes      int
}
