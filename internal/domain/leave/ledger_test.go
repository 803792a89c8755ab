package leave

import (
	"testing"
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, calendar.JST)
}

func grant(id string, granted, used float64, grantDate, expires time.Time) Grant {
	return Grant{
		ID:        id,
		Granted:   decimal.NewFromFloat(granted),
		Used:      decimal.NewFromFloat(used),
		GrantDate: grantDate,
		ExpiresAt: expires,
	}
}

func TestBalance(t *testing.T) {
	asOf := date(2024, 6, 1)
	grants := []Grant{
		grant("g1", 10, 3, date(2022, 4, 1), date(2024, 3, 31)), // expired
		grant("g2", 10, 2.5, date(2023, 4, 1), date(2025, 3, 31)),
		grant("g3", 12, 0, date(2024, 4, 1), date(2026, 3, 31)),
	}

	assert.True(t, Balance(grants, asOf).Equal(decimal.NewFromFloat(19.5)))
}

func TestConsume_OldestGrantFirst(t *testing.T) {
	asOf := date(2024, 6, 1)
	grants := []Grant{
		// Deliberately out of order: the ledger sorts by grant date.
		grant("g2", 12, 0, date(2024, 4, 1), date(2026, 3, 31)),
		grant("g1", 10, 8, date(2023, 4, 1), date(2025, 3, 31)),
	}

	changed, err := Consume(grants, decimal.NewFromInt(3), asOf)
	require.NoError(t, err)
	require.Len(t, changed, 2)

	assert.Equal(t, "g1", changed[0].ID)
	assert.True(t, changed[0].Used.Equal(decimal.NewFromInt(10)), "oldest grant drained first")
	assert.Equal(t, "g2", changed[1].ID)
	assert.True(t, changed[1].Used.Equal(decimal.NewFromInt(1)))
}

func TestConsume_HalfDay(t *testing.T) {
	asOf := date(2024, 6, 1)
	grants := []Grant{
		grant("g1", 10, 0, date(2023, 4, 1), date(2025, 3, 31)),
	}

	changed, err := Consume(grants, decimal.NewFromFloat(0.5), asOf)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.True(t, changed[0].Used.Equal(decimal.NewFromFloat(0.5)))
}

func TestConsume_SkipsExpiredGrants(t *testing.T) {
	asOf := date(2024, 6, 1)
	grants := []Grant{
		grant("g1", 10, 0, date(2022, 4, 1), date(2024, 3, 31)), // expired
		grant("g2", 10, 0, date(2023, 4, 1), date(2025, 3, 31)),
	}

	changed, err := Consume(grants, decimal.NewFromInt(4), asOf)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "g2", changed[0].ID)
}

func TestConsume_InsufficientBalance(t *testing.T) {
	asOf := date(2024, 6, 1)
	grants := []Grant{
		grant("g1", 10, 9, date(2023, 4, 1), date(2025, 3, 31)),
		grant("g2", 10, 10, date(2024, 4, 1), date(2026, 3, 31)),
	}

	_, err := Consume(grants, decimal.NewFromInt(2), asOf)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestConsume_ExactBalance(t *testing.T) {
	asOf := date(2024, 6, 1)
	grants := []Grant{
		grant("g1", 5, 3, date(2023, 4, 1), date(2025, 3, 31)),
	}

	changed, err := Consume(grants, decimal.NewFromInt(2), asOf)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.True(t, changed[0].Remaining().IsZero())
}
