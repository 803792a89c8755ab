package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kintai-works/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	db             *database.DB
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	clock          calendar.Clock
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	clock calendar.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		clock:          clock,
	}
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, actor auth.EmployeeContext) (attendance.RecordResponse, error) {
	now := s.clock.Now().In(calendar.JST)

	emp, err := s.employeeRepo.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.ActiveOn(now) {
		return attendance.RecordResponse{}, employee.ErrEmployeeInactive
	}

	workDate := calendar.DateOf(now)
	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, actor.EmployeeID, workDate)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if existing != nil {
		next, err := existing.ApplyClockIn(now, actor.EmployeeID)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		if err := s.attendanceRepo.Update(ctx, next, existing.UpdatedAt); err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
		return toRecordResponse(next), nil
	}

	rec := attendance.NewRecord(actor.EmployeeID, workDate)
	rec.ID = uuid.NewString()
	next, err := rec.ApplyClockIn(now, actor.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	// Create rejects a concurrent duplicate punch for the same day.
	created, err := s.attendanceRepo.Create(ctx, next)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return toRecordResponse(created), nil
}

// BreakStart implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) BreakStart(ctx context.Context, actor auth.EmployeeContext) (attendance.RecordResponse, error) {
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.todayRecord(ctx, actor.EmployeeID, now)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	next, err := rec.ApplyBreakStart(now, actor.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := s.attendanceRepo.Update(ctx, next, rec.UpdatedAt); err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return toRecordResponse(next), nil
}

// BreakEnd implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) BreakEnd(ctx context.Context, actor auth.EmployeeContext) (attendance.RecordResponse, error) {
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.todayRecord(ctx, actor.EmployeeID, now)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	next, err := rec.ApplyBreakEnd(now, actor.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := s.attendanceRepo.Update(ctx, next, rec.UpdatedAt); err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return toRecordResponse(next), nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, actor auth.EmployeeContext) (attendance.RecordResponse, error) {
	now := s.clock.Now().In(calendar.JST)

	emp, err := s.employeeRepo.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	rec, err := s.todayRecord(ctx, actor.EmployeeID, now)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	next, err := rec.ApplyClockOut(now, emp.DefaultBreakMinutes, emp.PrescribedWorkMinutes(), actor.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := s.attendanceRepo.Update(ctx, next, rec.UpdatedAt); err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return toRecordResponse(next), nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, actor auth.EmployeeContext, id string) (attendance.RecordResponse, error) {
	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !actor.CanActFor(rec.EmployeeID) {
		return attendance.RecordResponse{}, auth.ErrNotResourceOwner
	}
	return toRecordResponse(rec), nil
}

// ListMine implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMine(ctx context.Context, actor auth.EmployeeContext, filter attendance.MyFilter) (attendance.ListRecordResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 31
	}

	records, total, err := s.attendanceRepo.ListByEmployee(ctx, actor.EmployeeID, filter)
	if err != nil {
		return attendance.ListRecordResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return toListResponse(records, total, filter.Page, filter.Limit), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, actor auth.EmployeeContext, filter attendance.Filter) (attendance.ListRecordResponse, error) {
	if !actor.IsAdmin {
		return attendance.ListRecordResponse{}, auth.ErrAdminPrivilegeRequired
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return toListResponse(records, total, filter.Page, filter.Limit), nil
}

// Correct implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Correct(ctx context.Context, actor auth.EmployeeContext, req attendance.CorrectionRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !actor.CanActFor(rec.EmployeeID) {
		return attendance.RecordResponse{}, auth.ErrNotResourceOwner
	}

	emp, err := s.employeeRepo.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	clockIn, err := parseOptionalTime(req.ClockIn)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	clockOut, err := parseOptionalTime(req.ClockOut)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	var punches []attendance.BreakPunch
	replaceBreaks := req.Breaks != nil
	if replaceBreaks {
		for _, b := range *req.Breaks {
			start, ok := validator.IsValidDateTime(b.Start)
			if !ok {
				return attendance.RecordResponse{}, validator.ValidationErrors{{
					Field:   "breaks",
					Message: "break_start must be an ISO8601 timestamp",
				}}
			}
			punch := attendance.BreakPunch{Start: start.In(calendar.JST)}
			if b.End != nil {
				end, ok := validator.IsValidDateTime(*b.End)
				if !ok {
					return attendance.RecordResponse{}, validator.ValidationErrors{{
						Field:   "breaks",
						Message: "break_end must be an ISO8601 timestamp",
					}}
				}
				e := end.In(calendar.JST)
				punch.End = &e
			}
			punches = append(punches, punch)
		}
	}

	next, err := rec.ApplyCorrection(clockIn, clockOut, punches, replaceBreaks, emp.PrescribedWorkMinutes(), now, actor.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := s.attendanceRepo.Update(ctx, next, rec.UpdatedAt); err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return toRecordResponse(next), nil
}

// SetMemo implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetMemo(ctx context.Context, actor auth.EmployeeContext, req attendance.MemoRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !actor.CanActFor(rec.EmployeeID) {
		return attendance.RecordResponse{}, auth.ErrNotResourceOwner
	}

	next := rec.SetMemo(req.Memo, now, actor.EmployeeID)
	if err := s.attendanceRepo.Update(ctx, next, rec.UpdatedAt); err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return toRecordResponse(next), nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, actor auth.EmployeeContext, employeeID string, year int, month time.Month) (attendance.MonthlySummaryResponse, error) {
	if !actor.CanActFor(employeeID) {
		return attendance.MonthlySummaryResponse{}, auth.ErrNotResourceOwner
	}

	summary, err := s.attendanceRepo.MonthlySummary(ctx, employeeID, year, month)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, fmt.Errorf("failed to aggregate monthly summary: %w", err)
	}

	return attendance.MonthlySummaryResponse{
		EmployeeID:            summary.EmployeeID,
		Year:                  summary.Year,
		Month:                 int(summary.Month),
		DaysWorked:            summary.DaysWorked,
		ActualWorkMinutes:     summary.ActualWorkMinutes,
		NormalOvertimeMinutes: summary.NormalOvertimeMinutes,
		LateNightMinutes:      summary.LateNightMinutes,
	}, nil
}

// todayRecord loads the caller's record for the current JST day; a missing
// record means no clock-in happened yet.
func (s *AttendanceServiceImpl) todayRecord(ctx context.Context, employeeID string, now time.Time) (attendance.Record, error) {
	rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, calendar.DateOf(now))
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if rec == nil {
		return attendance.Record{}, attendance.ErrNotClockedIn
	}
	return *rec, nil
}

func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, ok := validator.IsValidDateTime(*s)
	if !ok {
		return nil, validator.ValidationErrors{{
			Field:   "clock_in",
			Message: "timestamp must be ISO8601",
		}}
	}
	jst := t.In(calendar.JST)
	return &jst, nil
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:               rec.ID,
		EmployeeID:       rec.EmployeeID,
		EmployeeName:     rec.EmployeeName,
		WorkDate:         rec.WorkDate.Format("2006-01-02"),
		Status:           string(rec.Status),
		TotalWorkMinutes: rec.TotalWorkMinutes,
		OvertimeMinutes:  rec.OvertimeMinutes,
		LateNightMinutes: rec.LateNightMinutes,
		Memo:             rec.Memo,
		UpdatedBy:        rec.UpdatedBy,
		Breaks:           []attendance.BreakResponse{},
	}
	if rec.ClockIn != nil {
		v := rec.ClockIn.In(calendar.JST).Format(time.RFC3339)
		resp.ClockIn = &v
	}
	if rec.ClockOut != nil {
		v := rec.ClockOut.In(calendar.JST).Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = rec.UpdatedAt.In(calendar.JST).Format(time.RFC3339)
	}
	for _, b := range rec.ActiveBreaks() {
		br := attendance.BreakResponse{
			ID:    b.ID,
			Start: b.Start.In(calendar.JST).Format(time.RFC3339),
		}
		if b.End != nil {
			v := b.End.In(calendar.JST).Format(time.RFC3339)
			br.End = &v
		}
		resp.Breaks = append(resp.Breaks, br)
	}
	return resp
}

func toListResponse(records []attendance.Record, total int64, page, limit int) attendance.ListRecordResponse {
	resp := attendance.ListRecordResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Records:    []attendance.RecordResponse{},
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	return resp
}
