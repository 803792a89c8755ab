package master

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/domain/master"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type MasterServiceImpl struct {
	db            *database.DB
	allowanceRepo master.AllowanceRepository
	deductionRepo master.DeductionRepository
	clock         calendar.Clock
}

func NewMasterService(
	db *database.DB,
	allowanceRepo master.AllowanceRepository,
	deductionRepo master.DeductionRepository,
	clock calendar.Clock,
) master.MasterService {
	return &MasterServiceImpl{
		db:            db,
		allowanceRepo: allowanceRepo,
		deductionRepo: deductionRepo,
		clock:         clock,
	}
}

// CreateAllowance implements master.MasterService.
func (s *MasterServiceImpl) CreateAllowance(ctx context.Context, actor auth.EmployeeContext, req master.CreateAllowanceRequest) (master.AllowanceResponse, error) {
	if err := req.Validate(); err != nil {
		return master.AllowanceResponse{}, err
	}
	if !actor.IsAdmin {
		return master.AllowanceResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	m := master.AllowanceMaster{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Amount:            decimal.NewFromFloat(req.Amount),
		IncludeInOvertime: req.IncludeInOvertime,
		DisplayColor:      req.DisplayColor,
		DisplayOrder:      req.DisplayOrder,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.allowanceRepo.Create(ctx, m)
	if err != nil {
		return master.AllowanceResponse{}, fmt.Errorf("failed to create allowance master: %w", err)
	}
	return toAllowanceResponse(created), nil
}

// UpdateAllowance implements master.MasterService.
func (s *MasterServiceImpl) UpdateAllowance(ctx context.Context, actor auth.EmployeeContext, req master.UpdateAllowanceRequest) (master.AllowanceResponse, error) {
	if err := req.Validate(); err != nil {
		return master.AllowanceResponse{}, err
	}
	if !actor.IsAdmin {
		return master.AllowanceResponse{}, auth.ErrAdminPrivilegeRequired
	}

	m, err := s.allowanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return master.AllowanceResponse{}, err
	}

	m.Name = req.Name
	m.Amount = decimal.NewFromFloat(req.Amount)
	m.IncludeInOvertime = req.IncludeInOvertime
	m.DisplayColor = req.DisplayColor
	m.DisplayOrder = req.DisplayOrder
	m.IsActive = req.IsActive
	m.UpdatedAt = s.clock.Now().In(calendar.JST)

	if err := s.allowanceRepo.Update(ctx, m); err != nil {
		return master.AllowanceResponse{}, fmt.Errorf("failed to update allowance master: %w", err)
	}
	return toAllowanceResponse(m), nil
}

// ListAllowances implements master.MasterService.
func (s *MasterServiceImpl) ListAllowances(ctx context.Context, actor auth.EmployeeContext, activeOnly bool) ([]master.AllowanceResponse, error) {
	masters, err := s.allowanceRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowance masters: %w", err)
	}

	resp := []master.AllowanceResponse{}
	for _, m := range masters {
		resp = append(resp, toAllowanceResponse(m))
	}
	return resp, nil
}

// CreateDeduction implements master.MasterService.
func (s *MasterServiceImpl) CreateDeduction(ctx context.Context, actor auth.EmployeeContext, req master.CreateDeductionRequest) (master.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return master.DeductionResponse{}, err
	}
	if !actor.IsAdmin {
		return master.DeductionResponse{}, auth.ErrAdminPrivilegeRequired
	}
	now := s.clock.Now().In(calendar.JST)

	m := master.DeductionMaster{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Amount:       decimal.NewFromFloat(req.Amount),
		DisplayColor: req.DisplayColor,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.deductionRepo.Create(ctx, m)
	if err != nil {
		return master.DeductionResponse{}, fmt.Errorf("failed to create deduction master: %w", err)
	}
	return toDeductionResponse(created), nil
}

// UpdateDeduction implements master.MasterService.
func (s *MasterServiceImpl) UpdateDeduction(ctx context.Context, actor auth.EmployeeContext, req master.UpdateDeductionRequest) (master.DeductionResponse, error) {
	if err := req.Validate(); err != nil {
		return master.DeductionResponse{}, err
	}
	if !actor.IsAdmin {
		return master.DeductionResponse{}, auth.ErrAdminPrivilegeRequired
	}

	m, err := s.deductionRepo.GetByID(ctx, req.ID)
	if err != nil {
		return master.DeductionResponse{}, err
	}

	m.Name = req.Name
	m.Amount = decimal.NewFromFloat(req.Amount)
	m.DisplayColor = req.DisplayColor
	m.DisplayOrder = req.DisplayOrder
	m.IsActive = req.IsActive
	m.UpdatedAt = s.clock.Now().In(calendar.JST)

	if err := s.deductionRepo.Update(ctx, m); err != nil {
		return master.DeductionResponse{}, fmt.Errorf("failed to update deduction master: %w", err)
	}
	return toDeductionResponse(m), nil
}

// ListDeductions implements master.MasterService.
func (s *MasterServiceImpl) ListDeductions(ctx context.Context, actor auth.EmployeeContext, activeOnly bool) ([]master.DeductionResponse, error) {
	masters, err := s.deductionRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction masters: %w", err)
	}

	resp := []master.DeductionResponse{}
	for _, m := range masters {
		resp = append(resp, toDeductionResponse(m))
	}
	return resp, nil
}

func toAllowanceResponse(m master.AllowanceMaster) master.AllowanceResponse {
	return master.AllowanceResponse{
		ID:                m.ID,
		Name:              m.Name,
		Amount:            m.Amount.String(),
		IncludeInOvertime: m.IncludeInOvertime,
		DisplayColor:      m.DisplayColor,
		DisplayOrder:      m.DisplayOrder,
		IsActive:          m.IsActive,
	}
}

func toDeductionResponse(m master.DeductionMaster) master.DeductionResponse {
	return master.DeductionResponse{
		ID:           m.ID,
		Name:         m.Name,
		Amount:       m.Amount.String(),
		DisplayColor: m.DisplayColor,
		DisplayOrder: m.DisplayOrder,
		IsActive:     m.IsActive,
	}
}
