package leave

import (
	"context"
	"testing"
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/domain/leave"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLeaveRepo serves a fixed snapshot on reads and enforces the status
// guard on writes, the way the SQL layer does: a transition computed from
// a snapshot whose stored status has since moved matches nothing.
type stubLeaveRepo struct {
	snapshot     leave.Request
	storedStatus leave.Status

	updated      *leave.Request
	expectedSeen leave.Status
}

func (s *stubLeaveRepo) CreateRequest(ctx context.Context, req leave.Request) (leave.Request, error) {
	return req, nil
}

func (s *stubLeaveRepo) UpdateRequest(ctx context.Context, req leave.Request, expected leave.Status) error {
	s.expectedSeen = expected
	if expected != s.storedStatus {
		return leave.ErrAlreadyProcessed
	}
	s.updated = &req
	return nil
}

func (s *stubLeaveRepo) GetRequestByID(ctx context.Context, id string) (leave.Request, error) {
	return s.snapshot, nil
}

func (s *stubLeaveRepo) ListRequests(ctx context.Context, filter leave.Filter) ([]leave.Request, int64, error) {
	return nil, 0, nil
}

func (s *stubLeaveRepo) ListBlocking(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]leave.Request, error) {
	return nil, nil
}

func (s *stubLeaveRepo) CreateGrant(ctx context.Context, grant leave.Grant) (leave.Grant, error) {
	return grant, nil
}

func (s *stubLeaveRepo) ListGrantsByEmployee(ctx context.Context, employeeID string) ([]leave.Grant, error) {
	return nil, nil
}

func (s *stubLeaveRepo) UpdateGrantUsage(ctx context.Context, grants []leave.Grant) error {
	return nil
}

func pendingSnapshot() leave.Request {
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, calendar.JST)
	return leave.Request{
		ID:         "req-1",
		EmployeeID: "emp-1",
		Type:       leave.TypeSick,
		StartDate:  day,
		EndDate:    day,
		Days:       decimal.NewFromInt(1),
		Reason:     "fever",
		Status:     leave.StatusPending,
	}
}

func newLeaveService(repo *stubLeaveRepo) leave.LeaveService {
	clock := calendar.FixedClock{T: time.Date(2024, 6, 20, 10, 0, 0, 0, calendar.JST)}
	return NewLeaveService(nil, repo, nil, clock)
}

func TestReject_PassesLoadedStatusToGuard(t *testing.T) {
	repo := &stubLeaveRepo{snapshot: pendingSnapshot(), storedStatus: leave.StatusPending}
	svc := newLeaveService(repo)

	resp, err := svc.Reject(context.Background(), auth.EmployeeContext{EmployeeID: "admin-1", IsAdmin: true}, leave.DecisionRequest{ID: "req-1"})
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusRejected), resp.Status)
	require.NotNil(t, repo.updated)
	assert.Equal(t, leave.StatusPending, repo.expectedSeen,
		"write must be conditional on the status the decision was computed from")
}

func TestReject_ConcurrentDecisionSettlesOnce(t *testing.T) {
	repo := &stubLeaveRepo{
		snapshot: pendingSnapshot(),
		// Another admin approved between our read and our write.
		storedStatus: leave.StatusApproved,
	}
	svc := newLeaveService(repo)

	_, err := svc.Reject(context.Background(), auth.EmployeeContext{EmployeeID: "admin-1", IsAdmin: true}, leave.DecisionRequest{ID: "req-1"})
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
	assert.Nil(t, repo.updated, "second decision must not overwrite the first")
}

func TestUpdate_AfterConcurrentApprovalConflicts(t *testing.T) {
	repo := &stubLeaveRepo{snapshot: pendingSnapshot(), storedStatus: leave.StatusApproved}
	svc := newLeaveService(repo)

	req := leave.UpdateRequest{
		ID:        "req-1",
		Type:      "sick",
		StartDate: "2024-07-02",
		EndDate:   "2024-07-02",
		Days:      1,
		Reason:    "fever",
	}
	_, err := svc.Update(context.Background(), auth.EmployeeContext{EmployeeID: "emp-1"}, req)
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
}

func TestDelete_AfterConcurrentApprovalConflicts(t *testing.T) {
	repo := &stubLeaveRepo{snapshot: pendingSnapshot(), storedStatus: leave.StatusApproved}
	svc := newLeaveService(repo)

	err := svc.Delete(context.Background(), auth.EmployeeContext{EmployeeID: "emp-1"}, "req-1")
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
}
