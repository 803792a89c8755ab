package master

import (
	"context"

	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
)

// MasterService manages the allowance and deduction catalogs. Mutations are
// admin-only; listing is open to any authenticated employee.
type MasterService interface {
	CreateAllowance(ctx context.Context, actor auth.EmployeeContext, req CreateAllowanceRequest) (AllowanceResponse, error)
	UpdateAllowance(ctx context.Context, actor auth.EmployeeContext, req UpdateAllowanceRequest) (AllowanceResponse, error)
	ListAllowances(ctx context.Context, actor auth.EmployeeContext, activeOnly bool) ([]AllowanceResponse, error)

	CreateDeduction(ctx context.Context, actor auth.EmployeeContext, req CreateDeductionRequest) (DeductionResponse, error)
	UpdateDeduction(ctx context.Context, actor auth.EmployeeContext, req UpdateDeductionRequest) (DeductionResponse, error)
	ListDeductions(ctx context.Context, actor auth.EmployeeContext, activeOnly bool) ([]DeductionResponse, error)
}
