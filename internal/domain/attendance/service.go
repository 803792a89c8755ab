package attendance

import (
	"context"
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
)

// AttendanceService defines the punch lifecycle and admin corrections.
// Punch operations act on the caller's own record for the current JST day;
// the punch instant always comes from the server clock seam.
type AttendanceService interface {
	ClockIn(ctx context.Context, actor auth.EmployeeContext) (RecordResponse, error)

	BreakStart(ctx context.Context, actor auth.EmployeeContext) (RecordResponse, error)

	BreakEnd(ctx context.Context, actor auth.EmployeeContext) (RecordResponse, error)

	ClockOut(ctx context.Context, actor auth.EmployeeContext) (RecordResponse, error)

	Get(ctx context.Context, actor auth.EmployeeContext, id string) (RecordResponse, error)

	// ListMine returns the caller's records for a month.
	ListMine(ctx context.Context, actor auth.EmployeeContext, filter MyFilter) (ListRecordResponse, error)

	// List is the administrator view across employees.
	List(ctx context.Context, actor auth.EmployeeContext, filter Filter) (ListRecordResponse, error)

	// Correct replaces punches/breaks wholesale and re-derives status and
	// durations. Admin, or the record owner.
	Correct(ctx context.Context, actor auth.EmployeeContext, req CorrectionRequest) (RecordResponse, error)

	SetMemo(ctx context.Context, actor auth.EmployeeContext, req MemoRequest) (RecordResponse, error)

	// Summary returns the monthly aggregates payroll consumes.
	Summary(ctx context.Context, actor auth.EmployeeContext, employeeID string, year int, month time.Month) (MonthlySummaryResponse, error)
}
