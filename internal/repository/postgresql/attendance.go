package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kintai-works/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, work_date, clock_in, clock_out, status,
			total_work_minutes, overtime_minutes, late_night_minutes,
			memo, updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), $12
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.WorkDate,
		rec.ClockIn,
		rec.ClockOut,
		rec.Status,
		rec.TotalWorkMinutes,
		rec.OvertimeMinutes,
		rec.LateNightMinutes,
		rec.Memo,
		rec.UpdatedBy,
		rec.UpdatedAt,
	).Scan(&rec.CreatedAt)
	if err != nil {
		// The (employee_id, work_date) unique index catches a concurrent
		// double punch.
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	if err := r.insertBreaks(ctx, rec.ID, rec.Breaks); err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}

// Update implements attendance.AttendanceRepository. Break rows are
// reconciled wholesale: the stored set is replaced by the aggregate's,
// superseded rows included. The updated_at guard rejects a write computed
// from a snapshot another punch has since overwritten, so a double-submitted
// clock-out loses the race instead of silently re-applying.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record, expectedUpdatedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records SET
			clock_in = $2,
			clock_out = $3,
			status = $4,
			total_work_minutes = $5,
			overtime_minutes = $6,
			late_night_minutes = $7,
			memo = $8,
			updated_by = $9,
			updated_at = $10
		WHERE id = $1 AND updated_at = $11
	`

	tag, err := q.Exec(ctx, query,
		rec.ID,
		rec.ClockIn,
		rec.ClockOut,
		rec.Status,
		rec.TotalWorkMinutes,
		rec.OvertimeMinutes,
		rec.LateNightMinutes,
		rec.Memo,
		rec.UpdatedBy,
		rec.UpdatedAt,
		expectedUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// The row was loaded moments ago; a miss means the version moved.
		return attendance.ErrConcurrentUpdate
	}

	if _, err := q.Exec(ctx, `DELETE FROM attendance_breaks WHERE attendance_id = $1`, rec.ID); err != nil {
		return fmt.Errorf("failed to clear break rows: %w", err)
	}
	return r.insertBreaks(ctx, rec.ID, rec.Breaks)
}

func (r *attendanceRepository) insertBreaks(ctx context.Context, recordID string, breaks []attendance.BreakRecord) error {
	if len(breaks) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_breaks (id, attendance_id, break_start, break_end, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, b := range breaks {
		id := b.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := q.Exec(ctx, query, id, recordID, b.Start, b.End, b.IsActive); err != nil {
			return fmt.Errorf("failed to insert break row: %w", err)
		}
	}
	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.work_date, a.clock_in, a.clock_out, a.status,
			   a.total_work_minutes, a.overtime_minutes, a.late_night_minutes,
			   a.memo, a.updated_by, a.created_at, a.updated_at, e.name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if err := r.loadBreaks(ctx, &rec); err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.work_date, a.clock_in, a.clock_out, a.status,
			   a.total_work_minutes, a.overtime_minutes, a.late_night_minutes,
			   a.memo, a.updated_by, a.created_at, a.updated_at, e.name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.work_date = $2
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, workDate))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if err := r.loadBreaks(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("a.work_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("a.work_date <= $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	return r.listWhere(ctx, where, args, filter.Page, filter.Limit)
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyFilter) ([]attendance.Record, int64, error) {
	from := time.Date(filter.Year, filter.Month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	where := "a.employee_id = $1 AND a.work_date >= $2 AND a.work_date < $3"
	args := []interface{}{employeeID, from, to}

	return r.listWhere(ctx, where, args, filter.Page, filter.Limit)
}

func (r *attendanceRepository) listWhere(ctx context.Context, where string, args []interface{}, page, limit int) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	countQuery := `SELECT COUNT(*) FROM attendance_records a WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.employee_id, a.work_date, a.clock_in, a.clock_out, a.status,
			   a.total_work_minutes, a.overtime_minutes, a.late_night_minutes,
			   a.memo, a.updated_by, a.created_at, a.updated_at, e.name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.work_date DESC, e.name ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	for i := range records {
		if err := r.loadBreaks(ctx, &records[i]); err != nil {
			return nil, 0, err
		}
	}
	return records, total, nil
}

// MonthlySummary implements attendance.AttendanceRepository.
func (r *attendanceRepository) MonthlySummary(ctx context.Context, employeeID string, year int, month time.Month) (attendance.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'completed'),
			COALESCE(SUM(total_work_minutes), 0),
			COALESCE(SUM(overtime_minutes), 0),
			COALESCE(SUM(late_night_minutes), 0)
		FROM attendance_records
		WHERE employee_id = $1 AND work_date >= $2 AND work_date < $3
	`

	summary := attendance.MonthlySummary{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
	}
	err := q.QueryRow(ctx, query, employeeID, from, to).Scan(
		&summary.DaysWorked,
		&summary.ActualWorkMinutes,
		&summary.NormalOvertimeMinutes,
		&summary.LateNightMinutes,
	)
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to aggregate monthly summary: %w", err)
	}
	return summary, nil
}

func (r *attendanceRepository) loadBreaks(ctx context.Context, rec *attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, break_start, break_end, is_active
		FROM attendance_breaks
		WHERE attendance_id = $1
		ORDER BY break_start ASC
	`

	rows, err := q.Query(ctx, query, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to load break rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b attendance.BreakRecord
		if err := rows.Scan(&b.ID, &b.Start, &b.End, &b.IsActive); err != nil {
			return fmt.Errorf("failed to scan break row: %w", err)
		}
		rec.Breaks = append(rec.Breaks, b)
	}
	return rows.Err()
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.WorkDate,
		&rec.ClockIn,
		&rec.ClockOut,
		&rec.Status,
		&rec.TotalWorkMinutes,
		&rec.OvertimeMinutes,
		&rec.LateNightMinutes,
		&rec.Memo,
		&rec.UpdatedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.EmployeeName,
	)
	return rec, err
}
