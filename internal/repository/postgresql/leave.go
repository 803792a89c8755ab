package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-works/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// CreateRequest implements leave.LeaveRepository.
func (r *leaveRepository) CreateRequest(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, half_day, days,
			reason, status, approver_id, approver_comment, processed_at,
			updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := q.Exec(ctx, query,
		req.ID,
		req.EmployeeID,
		req.Type,
		req.StartDate,
		req.EndDate,
		req.HalfDay,
		req.Days,
		req.Reason,
		req.Status,
		req.ApproverID,
		req.ApproverComment,
		req.ProcessedAt,
		req.UpdatedBy,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return req, nil
}

// UpdateRequest implements leave.LeaveRepository. The status guard makes
// the settle-once rule hold under concurrency: a second approval or
// rejection computed from the same pending snapshot matches zero rows.
func (r *leaveRepository) UpdateRequest(ctx context.Context, req leave.Request, expected leave.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			leave_type = $2,
			start_date = $3,
			end_date = $4,
			half_day = $5,
			days = $6,
			reason = $7,
			status = $8,
			approver_id = $9,
			approver_comment = $10,
			processed_at = $11,
			updated_by = $12,
			updated_at = $13
		WHERE id = $1 AND status = $14
	`

	tag, err := q.Exec(ctx, query,
		req.ID,
		req.Type,
		req.StartDate,
		req.EndDate,
		req.HalfDay,
		req.Days,
		req.Reason,
		req.Status,
		req.ApproverID,
		req.ApproverComment,
		req.ProcessedAt,
		req.UpdatedBy,
		req.UpdatedAt,
		expected,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrAlreadyProcessed
	}
	return nil
}

// GetRequestByID implements leave.LeaveRepository.
func (r *leaveRepository) GetRequestByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT l.id, l.employee_id, l.leave_type, l.start_date, l.end_date,
			   l.half_day, l.days, l.reason, l.status, l.approver_id,
			   l.approver_comment, l.processed_at, l.updated_by,
			   l.created_at, l.updated_at, e.name
		FROM leave_requests l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.id = $1
	`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

// ListRequests implements leave.LeaveRepository.
func (r *leaveRepository) ListRequests(ctx context.Context, filter leave.Filter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("l.employee_id = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conditions = append(conditions, fmt.Sprintf("l.leave_type = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("l.end_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("l.start_date <= $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests l WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.employee_id, l.leave_type, l.start_date, l.end_date,
			   l.half_day, l.days, l.reason, l.status, l.approver_id,
			   l.approver_comment, l.processed_at, l.updated_by,
			   l.created_at, l.updated_at, e.name
		FROM leave_requests l
		JOIN employees e ON e.id = l.employee_id
		WHERE %s
		ORDER BY l.start_date DESC, l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, total, nil
}

// blockingWhere assembles the overlap predicate. The exclusion clause is
// appended only when an id is supplied; the uuid column must never be
// compared against an empty string.
func blockingWhere(employeeID string, start, end time.Time, excludeID string) (string, []interface{}) {
	where := `l.employee_id = $1
		  AND l.status IN ('pending', 'approved')
		  AND l.start_date <= $3
		  AND l.end_date >= $2`
	args := []interface{}{employeeID, start, end}
	if excludeID != "" {
		args = append(args, excludeID)
		where += fmt.Sprintf("\n\t\t  AND l.id <> $%d", len(args))
	}
	return where, args
}

// ListBlocking implements leave.LeaveRepository.
func (r *leaveRepository) ListBlocking(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	where, args := blockingWhere(employeeID, start, end, excludeID)
	query := `
		SELECT l.id, l.employee_id, l.leave_type, l.start_date, l.end_date,
			   l.half_day, l.days, l.reason, l.status, l.approver_id,
			   l.approver_comment, l.processed_at, l.updated_by,
			   l.created_at, l.updated_at, e.name
		FROM leave_requests l
		JOIN employees e ON e.id = l.employee_id
		WHERE ` + where

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocking leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// CreateGrant implements leave.LeaveRepository.
func (r *leaveRepository) CreateGrant(ctx context.Context, grant leave.Grant) (leave.Grant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_grants (
			id, employee_id, grant_date, expires_at, granted_days, used_days,
			note, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := q.Exec(ctx, query,
		grant.ID,
		grant.EmployeeID,
		grant.GrantDate,
		grant.ExpiresAt,
		grant.Granted,
		grant.Used,
		grant.Note,
		grant.CreatedAt,
		grant.UpdatedAt,
	)
	if err != nil {
		return leave.Grant{}, fmt.Errorf("failed to create leave grant: %w", err)
	}
	return grant, nil
}

// ListGrantsByEmployee implements leave.LeaveRepository.
func (r *leaveRepository) ListGrantsByEmployee(ctx context.Context, employeeID string) ([]leave.Grant, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, grant_date, expires_at, granted_days, used_days,
			   note, created_at, updated_at
		FROM leave_grants
		WHERE employee_id = $1
		ORDER BY grant_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave grants: %w", err)
	}
	defer rows.Close()

	var grants []leave.Grant
	for rows.Next() {
		var g leave.Grant
		err := rows.Scan(
			&g.ID,
			&g.EmployeeID,
			&g.GrantDate,
			&g.ExpiresAt,
			&g.Granted,
			&g.Used,
			&g.Note,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave grant: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// UpdateGrantUsage implements leave.LeaveRepository.
func (r *leaveRepository) UpdateGrantUsage(ctx context.Context, grants []leave.Grant) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE leave_grants SET used_days = $2, updated_at = now() WHERE id = $1`
	for _, g := range grants {
		tag, err := q.Exec(ctx, query, g.ID, g.Used)
		if err != nil {
			return fmt.Errorf("failed to update grant usage: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return leave.ErrGrantNotFound
		}
	}
	return nil
}

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(
		&req.ID,
		&req.EmployeeID,
		&req.Type,
		&req.StartDate,
		&req.EndDate,
		&req.HalfDay,
		&req.Days,
		&req.Reason,
		&req.Status,
		&req.ApproverID,
		&req.ApproverComment,
		&req.ProcessedAt,
		&req.UpdatedBy,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.EmployeeName,
	)
	return req, err
}
