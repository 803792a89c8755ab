package master

import "context"

type AllowanceRepository interface {
	Create(ctx context.Context, m AllowanceMaster) (AllowanceMaster, error)
	Update(ctx context.Context, m AllowanceMaster) error
	GetByID(ctx context.Context, id string) (AllowanceMaster, error)
	// GetByIDs preserves no order; missing ids are simply absent.
	GetByIDs(ctx context.Context, ids []string) ([]AllowanceMaster, error)
	List(ctx context.Context, activeOnly bool) ([]AllowanceMaster, error)
}

type DeductionRepository interface {
	Create(ctx context.Context, m DeductionMaster) (DeductionMaster, error)
	Update(ctx context.Context, m DeductionMaster) error
	GetByID(ctx context.Context, id string) (DeductionMaster, error)
	List(ctx context.Context, activeOnly bool) ([]DeductionMaster, error)
}
