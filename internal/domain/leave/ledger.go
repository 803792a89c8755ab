package leave

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Grant is one paid-leave allotment in the employee's ledger. UsedDays only
// ever grows; deleting a request never writes the ledger back.
type Grant struct {
	ID         string
	EmployeeID string
	GrantDate  time.Time
	ExpiresAt  time.Time
	Granted    decimal.Decimal
	Used       decimal.Decimal
	Note       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g Grant) Remaining() decimal.Decimal {
	return g.Granted.Sub(g.Used)
}

func (g Grant) expiredAt(asOf time.Time) bool {
	return g.ExpiresAt.Before(asOf)
}

// Balance sums the remaining days of the grants still valid as of the given
// date.
func Balance(grants []Grant, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, g := range grants {
		if g.expiredAt(asOf) {
			continue
		}
		total = total.Add(g.Remaining())
	}
	return total
}

// Consume draws days from the ledger, oldest grant first, skipping expired
// grants. It returns only the grants whose Used changed, ready to persist.
// Nothing is consumed when the valid balance cannot cover the full amount.
func Consume(grants []Grant, days decimal.Decimal, asOf time.Time) ([]Grant, error) {
	if Balance(grants, asOf).LessThan(days) {
		return nil, ErrInsufficientBalance
	}

	ordered := make([]Grant, len(grants))
	copy(ordered, grants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].GrantDate.Before(ordered[j].GrantDate)
	})

	remaining := days
	var changed []Grant
	for _, g := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if g.expiredAt(asOf) {
			continue
		}
		avail := g.Remaining()
		if avail.LessThanOrEqual(decimal.Zero) {
			continue
		}

		draw := avail
		if remaining.LessThan(avail) {
			draw = remaining
		}
		g.Used = g.Used.Add(draw)
		remaining = remaining.Sub(draw)
		changed = append(changed, g)
	}

	return changed, nil
}
