package payroll

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kintai-works/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-works/kintai-backend-go/internal/domain/master"
	"github.com/kintai-works/kintai-backend-go/internal/domain/payroll"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db             *database.DB
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	allowanceRepo  master.AllowanceRepository
	deductionRepo  master.DeductionRepository
	clock          calendar.Clock
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	allowanceRepo master.AllowanceRepository,
	deductionRepo master.DeductionRepository,
	clock calendar.Clock,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		allowanceRepo:  allowanceRepo,
		deductionRepo:  deductionRepo,
		clock:          clock,
	}
}

// CreateSalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateSalary(ctx context.Context, actor auth.EmployeeContext, req payroll.CreateSalaryRequest) (payroll.StatementResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.StatementResponse{}, err
	}
	if !actor.IsAdmin {
		return payroll.StatementResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	detail, allowances, deductions, err := s.computeSalary(ctx, req.EmployeeID, req.Year, time.Month(req.Month))
	if err != nil {
		return payroll.StatementResponse{}, err
	}

	rec := payroll.Record{
		ID:             uuid.NewString(),
		EmployeeID:     req.EmployeeID,
		Year:           req.Year,
		Month:          time.Month(req.Month),
		StatementType:  payroll.TypeSalary,
		Memo:           req.Memo,
		IsActive:       true,
		SalaryDetail:   &detail,
		AllowanceLines: allowances,
		DeductionLines: deductions,
		CreatedBy:      actor.EmployeeID,
		UpdatedBy:      actor.EmployeeID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.payrollRepo.Create(ctx, rec)
	if err != nil {
		return payroll.StatementResponse{}, err
	}
	return toStatementResponse(created), nil
}

// CreateBonus implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateBonus(ctx context.Context, actor auth.EmployeeContext, req payroll.CreateBonusRequest) (payroll.StatementResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.StatementResponse{}, err
	}
	if !actor.IsAdmin {
		return payroll.StatementResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.StatementResponse{}, err
	}

	detail := payroll.CalculateBonus(
		decimal.NewFromFloat(req.BonusAmount),
		decimal.NewFromFloat(req.HealthInsurance),
		decimal.NewFromFloat(req.Pension),
		decimal.NewFromFloat(req.EmploymentInsurance),
		decimal.NewFromFloat(req.IncomeTax),
	)

	rec := payroll.Record{
		ID:            uuid.NewString(),
		EmployeeID:    req.EmployeeID,
		Year:          req.Year,
		Month:         time.Month(req.Month),
		StatementType: payroll.TypeBonus,
		Memo:          req.Memo,
		IsActive:      true,
		BonusDetail:   &detail,
		CreatedBy:     actor.EmployeeID,
		UpdatedBy:     actor.EmployeeID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.payrollRepo.Create(ctx, rec)
	if err != nil {
		return payroll.StatementResponse{}, err
	}
	return toStatementResponse(created), nil
}

// Update implements payroll.PayrollService. Only the memo changes; the
// snapshot figures stay exactly as stored.
func (s *PayrollServiceImpl) Update(ctx context.Context, actor auth.EmployeeContext, req payroll.UpdateRequest) (payroll.StatementResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.StatementResponse{}, err
	}
	if !actor.IsAdmin {
		return payroll.StatementResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.StatementResponse{}, err
	}

	rec.Memo = req.Memo
	rec.UpdatedBy = actor.EmployeeID
	rec.UpdatedAt = now
	if err := s.payrollRepo.Update(ctx, rec); err != nil {
		return payroll.StatementResponse{}, fmt.Errorf("failed to update payroll statement: %w", err)
	}
	return toStatementResponse(rec), nil
}

// Regenerate implements payroll.PayrollService. The stored statement is
// superseded by a fresh computation from current attendance and masters.
func (s *PayrollServiceImpl) Regenerate(ctx context.Context, actor auth.EmployeeContext, id string) (payroll.StatementResponse, error) {
	if !actor.IsAdmin {
		return payroll.StatementResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	rec, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.StatementResponse{}, err
	}
	if rec.StatementType != payroll.TypeSalary {
		return payroll.StatementResponse{}, payroll.ErrNotSalaryStatement
	}

	detail, allowances, deductions, err := s.computeSalary(ctx, rec.EmployeeID, rec.Year, rec.Month)
	if err != nil {
		return payroll.StatementResponse{}, err
	}

	next := payroll.Record{
		ID:             uuid.NewString(),
		EmployeeID:     rec.EmployeeID,
		Year:           rec.Year,
		Month:          rec.Month,
		StatementType:  payroll.TypeSalary,
		Memo:           rec.Memo,
		IsActive:       true,
		SalaryDetail:   &detail,
		AllowanceLines: allowances,
		DeductionLines: deductions,
		CreatedBy:      rec.CreatedBy,
		UpdatedBy:      actor.EmployeeID,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      now,
	}

	created, err := s.payrollRepo.Supersede(ctx, rec.ID, next)
	if err != nil {
		return payroll.StatementResponse{}, fmt.Errorf("failed to regenerate payroll statement: %w", err)
	}
	return toStatementResponse(created), nil
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, actor auth.EmployeeContext, id string) error {
	if !actor.IsAdmin {
		return auth.ErrAdminPrivilegeRequired
	}

	if _, err := s.payrollRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.payrollRepo.Deactivate(ctx, id, actor.EmployeeID); err != nil {
		return fmt.Errorf("failed to delete payroll statement: %w", err)
	}
	return nil
}

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, actor auth.EmployeeContext, id string) (payroll.StatementResponse, error) {
	rec, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.StatementResponse{}, err
	}
	if !actor.CanActFor(rec.EmployeeID) {
		return payroll.StatementResponse{}, auth.ErrNotResourceOwner
	}
	return toStatementResponse(rec), nil
}

// ListMine implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListMine(ctx context.Context, actor auth.EmployeeContext, filter payroll.Filter) (payroll.ListStatementResponse, error) {
	filter.EmployeeID = &actor.EmployeeID
	return s.list(ctx, filter)
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, actor auth.EmployeeContext, filter payroll.Filter) (payroll.ListStatementResponse, error) {
	if !actor.IsAdmin {
		return payroll.ListStatementResponse{}, auth.ErrAdminPrivilegeRequired
	}
	return s.list(ctx, filter)
}

// computeSalary assembles the calculation input for one employee and period
// and runs the engine. Allowance and deduction lines snapshot the master
// values at this instant.
func (s *PayrollServiceImpl) computeSalary(ctx context.Context, employeeID string, year int, month time.Month) (payroll.SalaryDetail, []payroll.AllowanceLine, []payroll.DeductionLine, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.SalaryDetail{}, nil, nil, err
	}

	summary, err := s.attendanceRepo.MonthlySummary(ctx, employeeID, year, month)
	if err != nil {
		return payroll.SalaryDetail{}, nil, nil, fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	var allowances []payroll.AllowanceLine
	if len(emp.AllowanceMasterIDs) > 0 {
		masters, err := s.allowanceRepo.GetByIDs(ctx, emp.AllowanceMasterIDs)
		if err != nil {
			return payroll.SalaryDetail{}, nil, nil, fmt.Errorf("failed to load allowance masters: %w", err)
		}
		for _, m := range masters {
			if !m.IsActive {
				continue
			}
			allowances = append(allowances, payroll.AllowanceLine{
				ID:                uuid.NewString(),
				AllowanceMasterID: m.ID,
				Name:              m.Name,
				Amount:            m.Amount,
				IncludeInOvertime: m.IncludeInOvertime,
			})
		}
	}

	deductionMasters, err := s.deductionRepo.List(ctx, true)
	if err != nil {
		return payroll.SalaryDetail{}, nil, nil, fmt.Errorf("failed to load deduction masters: %w", err)
	}
	var deductions []payroll.DeductionLine
	for _, m := range deductionMasters {
		deductions = append(deductions, payroll.DeductionLine{
			ID:                uuid.NewString(),
			DeductionMasterID: m.ID,
			Name:              m.Name,
			Amount:            m.Amount,
		})
	}

	detail := payroll.CalculateSalary(payroll.SalaryInput{
		EmploymentClass: emp.EmploymentClass,
		BaseRate:        emp.BaseSalary,
		Totals: payroll.AttendanceTotals{
			ActualWorkMinutes:     summary.ActualWorkMinutes,
			NormalOvertimeMinutes: summary.NormalOvertimeMinutes,
			LateNightMinutes:      summary.LateNightMinutes,
		},
		Allowances: allowances,
		Deductions: deductions,
	})
	return detail, allowances, deductions, nil
}

func (s *PayrollServiceImpl) list(ctx context.Context, filter payroll.Filter) (payroll.ListStatementResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListStatementResponse{}, fmt.Errorf("failed to list payroll statements: %w", err)
	}

	resp := payroll.ListStatementResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Statements: []payroll.StatementResponse{},
	}
	for _, rec := range records {
		resp.Statements = append(resp.Statements, toStatementResponse(rec))
	}
	return resp, nil
}

func toStatementResponse(rec payroll.Record) payroll.StatementResponse {
	resp := payroll.StatementResponse{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		EmployeeName:  rec.EmployeeName,
		Year:          rec.Year,
		Month:         int(rec.Month),
		StatementType: string(rec.StatementType),
		Memo:          rec.Memo,
		CreatedAt:     rec.CreatedAt.In(calendar.JST).Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt.In(calendar.JST).Format(time.RFC3339),
	}

	if rec.SalaryDetail != nil {
		d := rec.SalaryDetail
		resp.SalaryDetail = &payroll.SalaryDetailResponse{
			BaseSalary:            d.BaseSalary.String(),
			OvertimeRate:          d.OvertimeRate.String(),
			OvertimeAllowance:     d.OvertimeAllowance.String(),
			LateNightAllowance:    d.LateNightAllowance.String(),
			ActualWorkMinutes:     d.ActualWorkMinutes,
			NormalOvertimeMinutes: d.NormalOvertimeMinutes,
			LateNightMinutes:      d.LateNightMinutes,
			TotalEarnings:         d.TotalEarnings.String(),
			TotalDeductions:       d.TotalDeductions.String(),
			NetPay:                d.NetPay.String(),
		}
	}
	if rec.BonusDetail != nil {
		d := rec.BonusDetail
		resp.BonusDetail = &payroll.BonusDetailResponse{
			BonusAmount:         d.BonusAmount.String(),
			HealthInsurance:     d.HealthInsurance.String(),
			Pension:             d.Pension.String(),
			EmploymentInsurance: d.EmploymentInsurance.String(),
			IncomeTax:           d.IncomeTax.String(),
			TotalEarnings:       d.TotalEarnings.String(),
			TotalDeductions:     d.TotalDeductions.String(),
			NetPay:              d.NetPay.String(),
		}
	}

	for _, a := range rec.AllowanceLines {
		resp.Allowances = append(resp.Allowances, payroll.AllowanceLineResponse{
			AllowanceMasterID: a.AllowanceMasterID,
			Name:              a.Name,
			Amount:            a.Amount.String(),
			IncludeInOvertime: a.IncludeInOvertime,
		})
	}
	for _, d := range rec.DeductionLines {
		resp.Deductions = append(resp.Deductions, payroll.DeductionLineResponse{
			DeductionMasterID: d.DeductionMasterID,
			Name:              d.Name,
			Amount:            d.Amount.String(),
		})
	}
	return resp
}
