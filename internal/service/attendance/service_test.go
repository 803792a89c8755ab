package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAttendanceRepo serves a fixed snapshot on reads and enforces the
// version guard on writes, the way the SQL layer does: a write computed
// from a snapshot the stored row has moved past is refused.
type stubAttendanceRepo struct {
	snapshot        attendance.Record
	storedUpdatedAt time.Time

	updated      *attendance.Record
	expectedSeen time.Time
}

func (s *stubAttendanceRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (s *stubAttendanceRepo) Update(ctx context.Context, rec attendance.Record, expectedUpdatedAt time.Time) error {
	s.expectedSeen = expectedUpdatedAt
	if !expectedUpdatedAt.Equal(s.storedUpdatedAt) {
		return attendance.ErrConcurrentUpdate
	}
	s.updated = &rec
	return nil
}

func (s *stubAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	return s.snapshot, nil
}

func (s *stubAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Record, error) {
	rec := s.snapshot
	return &rec, nil
}

func (s *stubAttendanceRepo) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (s *stubAttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyFilter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (s *stubAttendanceRepo) MonthlySummary(ctx context.Context, employeeID string, year int, month time.Month) (attendance.MonthlySummary, error) {
	return attendance.MonthlySummary{}, nil
}

type stubEmployeeRepo struct {
	emp employee.Employee
}

func (s *stubEmployeeRepo) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	return emp, nil
}

func (s *stubEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return s.emp, nil
}

func (s *stubEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return s.emp, nil
}

func (s *stubEmployeeRepo) Update(ctx context.Context, emp employee.Employee) error {
	return nil
}

func (s *stubEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}

var testDay = time.Date(2024, 6, 10, 0, 0, 0, 0, calendar.JST)

func workingRecord(updatedAt time.Time) attendance.Record {
	in := testDay.Add(9 * time.Hour)
	return attendance.Record{
		ID:         "att-1",
		EmployeeID: "emp-1",
		WorkDate:   testDay,
		ClockIn:    &in,
		Status:     attendance.StatusWorking,
		UpdatedBy:  "emp-1",
		UpdatedAt:  updatedAt,
	}
}

func testEmployee() employee.Employee {
	return employee.Employee{
		ID:                  "emp-1",
		Name:                "Sato",
		EmploymentClass:     employee.EmploymentClassFullTime,
		JoinDate:            time.Date(2020, 4, 1, 0, 0, 0, 0, calendar.JST),
		DefaultBreakMinutes: 60,
		PrescribedWorkHours: decimal.NewFromFloat(7.5),
	}
}

func newService(repo *stubAttendanceRepo, now time.Time) attendance.AttendanceService {
	return NewAttendanceService(nil, repo, &stubEmployeeRepo{emp: testEmployee()}, calendar.FixedClock{T: now})
}

func TestClockOut_GuardsWriteWithLoadedVersion(t *testing.T) {
	loadedAt := testDay.Add(9 * time.Hour)
	repo := &stubAttendanceRepo{snapshot: workingRecord(loadedAt), storedUpdatedAt: loadedAt}
	svc := newService(repo, testDay.Add(18*time.Hour))

	resp, err := svc.ClockOut(context.Background(), auth.EmployeeContext{EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, string(attendance.StatusCompleted), resp.Status)
	assert.True(t, repo.expectedSeen.Equal(loadedAt),
		"write must carry the version the transition was computed from")
}

func TestClockOut_DoubleSubmitLosesTheRace(t *testing.T) {
	loadedAt := testDay.Add(9 * time.Hour)
	repo := &stubAttendanceRepo{
		snapshot: workingRecord(loadedAt),
		// Another clock-out committed between our read and our write.
		storedUpdatedAt: testDay.Add(18 * time.Hour),
	}
	svc := newService(repo, testDay.Add(18*time.Hour+2*time.Minute))

	_, err := svc.ClockOut(context.Background(), auth.EmployeeContext{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrConcurrentUpdate)
	assert.Nil(t, repo.updated, "stale transition must not overwrite the stored punch")
}

func TestBreakStart_StaleSnapshotConflicts(t *testing.T) {
	loadedAt := testDay.Add(9 * time.Hour)
	repo := &stubAttendanceRepo{
		snapshot:        workingRecord(loadedAt),
		storedUpdatedAt: testDay.Add(12 * time.Hour),
	}
	svc := newService(repo, testDay.Add(12*time.Hour+time.Minute))

	_, err := svc.BreakStart(context.Background(), auth.EmployeeContext{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrConcurrentUpdate)
}
