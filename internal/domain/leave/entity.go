package leave

import (
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypePaid    Type = "paid"
	TypeSpecial Type = "special"
	TypeSick    Type = "sick"
	TypeAbsence Type = "absence"
	TypeOther   Type = "other"
)

func ValidTypes() []string {
	return []string{
		string(TypePaid),
		string(TypeSpecial),
		string(TypeSick),
		string(TypeAbsence),
		string(TypeOther),
	}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusDeleted  Status = "deleted"
)

// Request is a leave application. Only pending requests may be edited or
// withdrawn; approval and deletion are terminal.
//
// Transitions are pure: they return the next state and never mutate the
// receiver.
type Request struct {
	ID         string
	EmployeeID string
	Type       Type
	StartDate  time.Time
	EndDate    time.Time
	HalfDay    bool
	Days       decimal.Decimal
	Reason     string
	Status     Status

	ApproverID      *string
	ApproverComment *string
	ProcessedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	UpdatedBy string

	// DTO
	EmployeeName *string
}

// ExpectedDays returns the day count a span must carry: 0.5 for a half-day
// (single date), otherwise the inclusive calendar day count.
func ExpectedDays(start, end time.Time, halfDay bool) decimal.Decimal {
	if halfDay {
		return decimal.NewFromFloat(0.5)
	}
	return decimal.NewFromInt(int64(calendar.InclusiveDayCount(start, end)))
}

// Blocks reports whether the request occupies its date span for overlap
// purposes. Rejected and deleted requests release their span.
func (r Request) Blocks() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// OverlapsSpan reports whether the request's span intersects [start, end],
// both inclusive dates.
func (r Request) OverlapsSpan(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

// ApplyUpdate rewrites the span and reason of a pending request.
func (r Request) ApplyUpdate(leaveType Type, start, end time.Time, halfDay bool, days decimal.Decimal, reason string, now time.Time, by string) (Request, error) {
	if r.Status != StatusPending {
		return Request{}, ErrRequestImmutable
	}

	next := r
	next.Type = leaveType
	next.StartDate = start
	next.EndDate = end
	next.HalfDay = halfDay
	next.Days = days
	next.Reason = reason
	next.UpdatedAt = now
	next.UpdatedBy = by
	return next, nil
}

// ApplyApprove settles a pending request.
func (r Request) ApplyApprove(approverID string, comment *string, now time.Time) (Request, error) {
	if r.Status != StatusPending {
		return Request{}, ErrAlreadyProcessed
	}

	next := r
	next.Status = StatusApproved
	next.ApproverID = &approverID
	next.ApproverComment = comment
	next.ProcessedAt = &now
	next.UpdatedAt = now
	next.UpdatedBy = approverID
	return next, nil
}

// ApplyReject settles a pending request without touching any balance.
func (r Request) ApplyReject(approverID string, comment *string, now time.Time) (Request, error) {
	if r.Status != StatusPending {
		return Request{}, ErrAlreadyProcessed
	}

	next := r
	next.Status = StatusRejected
	next.ApproverID = &approverID
	next.ApproverComment = comment
	next.ProcessedAt = &now
	next.UpdatedAt = now
	next.UpdatedBy = approverID
	return next, nil
}

// ApplyDelete withdraws a request. Approved requests are immutable; consumed
// balance is never restored here.
func (r Request) ApplyDelete(now time.Time, by string) (Request, error) {
	if r.Status == StatusApproved || r.Status == StatusDeleted {
		return Request{}, ErrRequestImmutable
	}

	next := r
	next.Status = StatusDeleted
	next.UpdatedAt = now
	next.UpdatedBy = by
	return next, nil
}
