package leave

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-works/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
	"github.com/kintai-works/kintai-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	db           *database.DB
	leaveRepo    leave.LeaveRepository
	employeeRepo employee.EmployeeRepository
	clock        calendar.Clock
}

func NewLeaveService(
	db *database.DB,
	leaveRepo leave.LeaveRepository,
	employeeRepo employee.EmployeeRepository,
	clock calendar.Clock,
) leave.LeaveService {
	return &LeaveServiceImpl{
		db:           db,
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		clock:        clock,
	}
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, actor auth.EmployeeContext, req leave.CreateRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}
	now := s.clock.Now().In(calendar.JST)

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	start = calendar.DateOf(start.In(calendar.JST))
	end = calendar.DateOf(end.In(calendar.JST))
	days := decimal.NewFromFloat(req.Days)

	if err := s.checkSpan(ctx, actor.EmployeeID, leave.Type(req.Type), start, end, days, "", now); err != nil {
		return leave.RequestResponse{}, err
	}

	rec := leave.Request{
		ID:         uuid.NewString(),
		EmployeeID: actor.EmployeeID,
		Type:       leave.Type(req.Type),
		StartDate:  start,
		EndDate:    end,
		HalfDay:    req.HalfDay,
		Days:       days,
		Reason:     req.Reason,
		Status:     leave.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
		UpdatedBy:  actor.EmployeeID,
	}

	created, err := s.leaveRepo.CreateRequest(ctx, rec)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return toRequestResponse(created), nil
}

// Update implements leave.LeaveService.
func (s *LeaveServiceImpl) Update(ctx context.Context, actor auth.EmployeeContext, req leave.UpdateRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.getRequest(ctx, req.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if !actor.CanActFor(rec.EmployeeID) {
		return leave.RequestResponse{}, auth.ErrNotResourceOwner
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	start = calendar.DateOf(start.In(calendar.JST))
	end = calendar.DateOf(end.In(calendar.JST))
	days := decimal.NewFromFloat(req.Days)

	if err := s.checkSpan(ctx, rec.EmployeeID, leave.Type(req.Type), start, end, days, rec.ID, now); err != nil {
		return leave.RequestResponse{}, err
	}

	next, err := rec.ApplyUpdate(leave.Type(req.Type), start, end, req.HalfDay, days, req.Reason, now, actor.EmployeeID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if err := s.leaveRepo.UpdateRequest(ctx, next, rec.Status); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return toRequestResponse(next), nil
}

// Delete implements leave.LeaveService. Consumed balance is never restored.
func (s *LeaveServiceImpl) Delete(ctx context.Context, actor auth.EmployeeContext, id string) error {
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.getRequest(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanActFor(rec.EmployeeID) {
		return auth.ErrNotResourceOwner
	}

	next, err := rec.ApplyDelete(now, actor.EmployeeID)
	if err != nil {
		return err
	}
	if err := s.leaveRepo.UpdateRequest(ctx, next, rec.Status); err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	return nil
}

// Approve implements leave.LeaveService. Paid leave consumes the grant
// ledger oldest-first inside the same transaction as the status change.
func (s *LeaveServiceImpl) Approve(ctx context.Context, actor auth.EmployeeContext, req leave.DecisionRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}
	if !actor.IsAdmin {
		return leave.RequestResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.getRequest(ctx, req.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	next, err := rec.ApplyApprove(actor.EmployeeID, req.Comment, now)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.TxContext(ctx, tx)

		if next.Type == leave.TypePaid {
			grants, err := s.leaveRepo.ListGrantsByEmployee(txCtx, next.EmployeeID)
			if err != nil {
				return fmt.Errorf("failed to load leave grants: %w", err)
			}
			consumed, err := leave.Consume(grants, next.Days, calendar.DateOf(now))
			if err != nil {
				return err
			}
			if err := s.leaveRepo.UpdateGrantUsage(txCtx, consumed); err != nil {
				return fmt.Errorf("failed to update grant usage: %w", err)
			}
		}

		if err := s.leaveRepo.UpdateRequest(txCtx, next, rec.Status); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}
	return toRequestResponse(next), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, actor auth.EmployeeContext, req leave.DecisionRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}
	if !actor.IsAdmin {
		return leave.RequestResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.getRequest(ctx, req.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	next, err := rec.ApplyReject(actor.EmployeeID, req.Comment, now)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if err := s.leaveRepo.UpdateRequest(ctx, next, rec.Status); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return toRequestResponse(next), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, actor auth.EmployeeContext, id string) (leave.RequestResponse, error) {
	rec, err := s.getRequest(ctx, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if !actor.CanActFor(rec.EmployeeID) {
		return leave.RequestResponse{}, auth.ErrNotResourceOwner
	}
	return toRequestResponse(rec), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, actor auth.EmployeeContext, filter leave.Filter) (leave.ListRequestResponse, error) {
	filter.EmployeeID = &actor.EmployeeID
	return s.list(ctx, filter)
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, actor auth.EmployeeContext, filter leave.Filter) (leave.ListRequestResponse, error) {
	if !actor.IsAdmin {
		return leave.ListRequestResponse{}, auth.ErrAdminPrivilegeRequired
	}
	return s.list(ctx, filter)
}

// Balance implements leave.LeaveService.
func (s *LeaveServiceImpl) Balance(ctx context.Context, actor auth.EmployeeContext, employeeID string) (leave.BalanceResponse, error) {
	if !actor.CanActFor(employeeID) {
		return leave.BalanceResponse{}, auth.ErrNotResourceOwner
	}
	asOf := calendar.DateOf(s.clock.Now().In(calendar.JST))

	grants, err := s.leaveRepo.ListGrantsByEmployee(ctx, employeeID)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to load leave grants: %w", err)
	}

	resp := leave.BalanceResponse{
		EmployeeID: employeeID,
		AsOf:       asOf.Format("2006-01-02"),
		Balance:    leave.Balance(grants, asOf).String(),
		Grants:     []leave.GrantResponse{},
	}
	for _, g := range grants {
		resp.Grants = append(resp.Grants, toGrantResponse(g))
	}
	return resp, nil
}

// CreateGrant implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateGrant(ctx context.Context, actor auth.EmployeeContext, req leave.CreateGrantRequest) (leave.GrantResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.GrantResponse{}, err
	}
	if !actor.IsAdmin {
		return leave.GrantResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.GrantResponse{}, err
	}

	grantDate, _ := validator.IsValidDate(req.GrantDate)
	expiresAt, _ := validator.IsValidDate(req.ExpiresAt)

	grant := leave.Grant{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		GrantDate:  calendar.DateOf(grantDate.In(calendar.JST)),
		ExpiresAt:  calendar.DateOf(expiresAt.In(calendar.JST)),
		Granted:    decimal.NewFromFloat(req.Days),
		Used:       decimal.Zero,
		Note:       req.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.leaveRepo.CreateGrant(ctx, grant)
	if err != nil {
		return leave.GrantResponse{}, fmt.Errorf("failed to create leave grant: %w", err)
	}
	return toGrantResponse(created), nil
}

// checkSpan enforces the overlap rule and, for paid leave, the remaining
// balance, shared by create and update.
func (s *LeaveServiceImpl) checkSpan(ctx context.Context, employeeID string, leaveType leave.Type, start, end time.Time, days decimal.Decimal, excludeID string, now time.Time) error {
	blocking, err := s.leaveRepo.ListBlocking(ctx, employeeID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if len(blocking) > 0 {
		return leave.ErrOverlappingRequest
	}

	if leaveType == leave.TypePaid {
		grants, err := s.leaveRepo.ListGrantsByEmployee(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to load leave grants: %w", err)
		}
		if leave.Balance(grants, calendar.DateOf(now)).LessThan(days) {
			return leave.ErrInsufficientBalance
		}
	}
	return nil
}

func (s *LeaveServiceImpl) getRequest(ctx context.Context, id string) (leave.Request, error) {
	rec, err := s.leaveRepo.GetRequestByID(ctx, id)
	if err != nil {
		return leave.Request{}, err
	}
	return rec, nil
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.Filter) (leave.ListRequestResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.leaveRepo.ListRequests(ctx, filter)
	if err != nil {
		return leave.ListRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := leave.ListRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Requests:   []leave.RequestResponse{},
	}
	for _, rec := range records {
		resp.Requests = append(resp.Requests, toRequestResponse(rec))
	}
	return resp, nil
}

func toRequestResponse(rec leave.Request) leave.RequestResponse {
	resp := leave.RequestResponse{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		EmployeeName:    rec.EmployeeName,
		Type:            string(rec.Type),
		StartDate:       rec.StartDate.Format("2006-01-02"),
		EndDate:         rec.EndDate.Format("2006-01-02"),
		HalfDay:         rec.HalfDay,
		Days:            rec.Days.String(),
		Reason:          rec.Reason,
		Status:          string(rec.Status),
		ApproverID:      rec.ApproverID,
		ApproverComment: rec.ApproverComment,
		CreatedAt:       rec.CreatedAt.In(calendar.JST).Format(time.RFC3339),
		UpdatedAt:       rec.UpdatedAt.In(calendar.JST).Format(time.RFC3339),
	}
	if rec.ProcessedAt != nil {
		v := rec.ProcessedAt.In(calendar.JST).Format(time.RFC3339)
		resp.ProcessedAt = &v
	}
	return resp
}

func toGrantResponse(g leave.Grant) leave.GrantResponse {
	return leave.GrantResponse{
		ID:        g.ID,
		GrantDate: g.GrantDate.Format("2006-01-02"),
		ExpiresAt: g.ExpiresAt.Format("2006-01-02"),
		Granted:   g.Granted.String(),
		Used:      g.Used.String(),
		Remaining: g.Remaining().String(),
		Note:      g.Note,
	}
}
