package leave

import (
	"testing"
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingRequest() Request {
	return Request{
		ID:         "req-1",
		EmployeeID: "emp-1",
		Type:       TypePaid,
		StartDate:  date(2024, 7, 1),
		EndDate:    date(2024, 7, 3),
		Days:       decimal.NewFromInt(3),
		Status:     StatusPending,
	}
}

func TestExpectedDays(t *testing.T) {
	assert.True(t, ExpectedDays(date(2024, 7, 1), date(2024, 7, 3), false).Equal(decimal.NewFromInt(3)))
	assert.True(t, ExpectedDays(date(2024, 7, 1), date(2024, 7, 1), false).Equal(decimal.NewFromInt(1)))
	assert.True(t, ExpectedDays(date(2024, 7, 1), date(2024, 7, 1), true).Equal(decimal.NewFromFloat(0.5)))
	// Span crossing a month boundary.
	assert.True(t, ExpectedDays(date(2024, 7, 30), date(2024, 8, 2), false).Equal(decimal.NewFromInt(4)))
}

func TestApprove(t *testing.T) {
	req := pendingRequest()
	now := time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC)

	comment := "have a good rest"
	approved, err := req.ApplyApprove("admin-1", &comment, now)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, "admin-1", *approved.ApproverID)
	require.NotNil(t, approved.ProcessedAt)

	// Settling twice conflicts.
	_, err = approved.ApplyApprove("admin-1", nil, now)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestReject(t *testing.T) {
	req := pendingRequest()
	now := time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC)

	rejected, err := req.ApplyReject("admin-1", nil, now)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	_, err = rejected.ApplyReject("admin-1", nil, now)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestUpdate_OnlyPending(t *testing.T) {
	req := pendingRequest()
	now := time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC)

	updated, err := req.ApplyUpdate(TypeSick, date(2024, 7, 2), date(2024, 7, 2), false, decimal.NewFromInt(1), "fever", now, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, TypeSick, updated.Type)
	assert.True(t, updated.Days.Equal(decimal.NewFromInt(1)))

	approved, err := req.ApplyApprove("admin-1", nil, now)
	require.NoError(t, err)
	_, err = approved.ApplyUpdate(TypeSick, date(2024, 7, 2), date(2024, 7, 2), false, decimal.NewFromInt(1), "fever", now, "emp-1")
	assert.ErrorIs(t, err, ErrRequestImmutable)
}

func TestDelete(t *testing.T) {
	now := time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC)

	deleted, err := pendingRequest().ApplyDelete(now, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, deleted.Status)

	_, err = deleted.ApplyDelete(now, "emp-1")
	assert.ErrorIs(t, err, ErrRequestImmutable)

	// Rejected requests may still be withdrawn; approved ones may not.
	rejected, err := pendingRequest().ApplyReject("admin-1", nil, now)
	require.NoError(t, err)
	_, err = rejected.ApplyDelete(now, "emp-1")
	assert.NoError(t, err)

	approved, err := pendingRequest().ApplyApprove("admin-1", nil, now)
	require.NoError(t, err)
	_, err = approved.ApplyDelete(now, "emp-1")
	assert.ErrorIs(t, err, ErrRequestImmutable)
}

func TestBlocksAndOverlap(t *testing.T) {
	req := pendingRequest()
	assert.True(t, req.Blocks())

	assert.True(t, req.OverlapsSpan(date(2024, 7, 3), date(2024, 7, 5)), "edge dates touch")
	assert.True(t, req.OverlapsSpan(date(2024, 6, 28), date(2024, 7, 1)))
	assert.False(t, req.OverlapsSpan(date(2024, 7, 4), date(2024, 7, 5)))

	now := time.Date(2024, 6, 20, 10, 0, 0, 0, time.UTC)
	rejected, err := req.ApplyReject("admin-1", nil, now)
	require.NoError(t, err)
	assert.False(t, rejected.Blocks(), "rejected requests release the span")

	deleted, err := pendingRequest().ApplyDelete(now, "emp-1")
	require.NoError(t, err)
	assert.False(t, deleted.Blocks())
}

func TestCreateRequestValidate(t *testing.T) {
	valid := CreateRequest{
		Type:      "paid",
		StartDate: "2024-07-01",
		EndDate:   "2024-07-03",
		Days:      3,
		Reason:    "family trip",
	}
	assert.NoError(t, valid.Validate())

	halfDay := CreateRequest{
		Type:      "paid",
		StartDate: "2024-07-01",
		EndDate:   "2024-07-01",
		HalfDay:   true,
		Days:      0.5,
		Reason:    "hospital visit",
	}
	assert.NoError(t, halfDay.Validate())

	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"unknown type", CreateRequest{Type: "vacation", StartDate: "2024-07-01", EndDate: "2024-07-01", Days: 1, Reason: "x"}},
		{"end before start", CreateRequest{Type: "paid", StartDate: "2024-07-03", EndDate: "2024-07-01", Days: 3, Reason: "x"}},
		{"half day over multiple dates", CreateRequest{Type: "paid", StartDate: "2024-07-01", EndDate: "2024-07-02", HalfDay: true, Days: 0.5, Reason: "x"}},
		{"days mismatch", CreateRequest{Type: "paid", StartDate: "2024-07-01", EndDate: "2024-07-03", Days: 2, Reason: "x"}},
		{"half day wrong count", CreateRequest{Type: "paid", StartDate: "2024-07-01", EndDate: "2024-07-01", HalfDay: true, Days: 1, Reason: "x"}},
		{"missing reason", CreateRequest{Type: "paid", StartDate: "2024-07-01", EndDate: "2024-07-01", Days: 1}},
		{"blank reason", CreateRequest{Type: "paid", StartDate: "2024-07-01", EndDate: "2024-07-01", Days: 1, Reason: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.req.Validate())
		})
	}

	missing := CreateRequest{Type: "paid", StartDate: "2024-07-01", EndDate: "2024-07-01", Days: 1}
	err := missing.Validate()
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "reason")
}
