package master

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllowanceMaster is a recurring pay component. IncludeInOvertime marks the
// allowances that enter the overtime base rate.
type AllowanceMaster struct {
	ID                string
	Name              string
	Amount            decimal.Decimal
	IncludeInOvertime bool
	DisplayColor      string
	DisplayOrder      int
	IsActive          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeductionMaster is a recurring deduction component.
type DeductionMaster struct {
	ID           string
	Name         string
	Amount       decimal.Decimal
	DisplayColor string
	DisplayOrder int
	IsActive     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
