package postgresql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockingWhere(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)

	t.Run("no exclusion", func(t *testing.T) {
		// A create has no request to exclude; the uuid column must never
		// be compared against an empty string.
		where, args := blockingWhere("emp-1", start, end, "")
		assert.NotContains(t, where, "$4")
		require.Len(t, args, 3)
		assert.Equal(t, "emp-1", args[0])
	})

	t.Run("excludes the request being updated", func(t *testing.T) {
		where, args := blockingWhere("emp-1", start, end, "req-9")
		assert.Contains(t, where, "l.id <> $4")
		require.Len(t, args, 4)
		assert.Equal(t, "req-9", args[3])
	})
}
