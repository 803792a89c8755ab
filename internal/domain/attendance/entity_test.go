package attendance

import (
	"testing"
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workDate = time.Date(2024, 6, 10, 0, 0, 0, 0, calendar.JST)

func at(hour, minute int) time.Time {
	return workDate.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestClockIn(t *testing.T) {
	rec := NewRecord("emp-1", workDate)

	next, err := rec.ApplyClockIn(at(9, 0), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, StatusWorking, next.Status)
	require.NotNil(t, next.ClockIn)
	assert.True(t, next.ClockIn.Equal(at(9, 0)))

	// Original aggregate is untouched.
	assert.Nil(t, rec.ClockIn)
	assert.Equal(t, StatusNotStarted, rec.Status)
}

func TestClockIn_Twice_Conflicts(t *testing.T) {
	rec := NewRecord("emp-1", workDate)
	rec, err := rec.ApplyClockIn(at(9, 0), "emp-1")
	require.NoError(t, err)

	_, err = rec.ApplyClockIn(at(9, 5), "emp-1")
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
}

func TestClockOut_WithoutClockIn_Fails(t *testing.T) {
	rec := NewRecord("emp-1", workDate)
	_, err := rec.ApplyClockOut(at(18, 0), 60, 450, "emp-1")
	assert.ErrorIs(t, err, ErrNotClockedIn)
}

func TestClockOut_Twice_Conflicts(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyClockOut(at(18, 0), 0, 450, "emp-1")
	require.NoError(t, err)

	_, err = rec.ApplyClockOut(at(18, 30), 0, 450, "emp-1")
	assert.ErrorIs(t, err, ErrAlreadyClockedOut)
}

func TestBreakLifecycle(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))

	rec, err := rec.ApplyBreakStart(at(12, 0), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, StatusOnBreak, rec.Status)

	// Second break cannot open while one is in progress.
	_, err = rec.ApplyBreakStart(at(12, 10), "emp-1")
	assert.ErrorIs(t, err, ErrBreakAlreadyOpen)

	rec, err = rec.ApplyBreakEnd(at(13, 0), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, StatusWorking, rec.Status)

	_, err = rec.ApplyBreakEnd(at(13, 5), "emp-1")
	assert.ErrorIs(t, err, ErrNoOpenBreak)
}

func TestBreakStart_Guards(t *testing.T) {
	rec := NewRecord("emp-1", workDate)
	_, err := rec.ApplyBreakStart(at(12, 0), "emp-1")
	assert.ErrorIs(t, err, ErrNotClockedIn)

	rec = mustClockIn(t, at(9, 0))
	rec, err = rec.ApplyClockOut(at(18, 0), 0, 450, "emp-1")
	require.NoError(t, err)

	_, err = rec.ApplyBreakStart(at(18, 30), "emp-1")
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestClockOut_ClosesOpenBreakAtPunchTime(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyBreakStart(at(17, 30), "emp-1")
	require.NoError(t, err)

	rec, err = rec.ApplyClockOut(at(18, 0), 60, 450, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, rec.Status)

	breaks := rec.ActiveBreaks()
	require.Len(t, breaks, 1)
	require.NotNil(t, breaks[0].End)
	assert.True(t, breaks[0].End.Equal(at(18, 0)), "break end must not exceed clock_out")

	// 9h gross minus the 30min truncated break.
	assert.Equal(t, 510, rec.TotalWorkMinutes)
}

func TestClockOut_SynthesizesDefaultBreak60(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyClockOut(at(18, 0), 60, 450, "emp-1")
	require.NoError(t, err)

	breaks := rec.ActiveBreaks()
	require.Len(t, breaks, 1)
	assert.True(t, breaks[0].Start.Equal(at(12, 0)))
	require.NotNil(t, breaks[0].End)
	assert.True(t, breaks[0].End.Equal(at(13, 0)))

	// 540 gross - 60 synthetic lunch.
	assert.Equal(t, 480, rec.TotalWorkMinutes)
}

func TestClockOut_SynthesizesDefaultBreak30(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyClockOut(at(18, 0), 30, 450, "emp-1")
	require.NoError(t, err)

	breaks := rec.ActiveBreaks()
	require.Len(t, breaks, 1)
	assert.True(t, breaks[0].Start.Equal(at(15, 0)))
	require.NotNil(t, breaks[0].End)
	assert.True(t, breaks[0].End.Equal(at(15, 30)))
	assert.Equal(t, 510, rec.TotalWorkMinutes)
}

func TestClockOut_SynthesizesDefaultBreak90(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyClockOut(at(18, 0), 90, 450, "emp-1")
	require.NoError(t, err)

	breaks := rec.ActiveBreaks()
	require.Len(t, breaks, 2)
	assert.True(t, breaks[0].Start.Equal(at(12, 0)))
	assert.True(t, breaks[1].Start.Equal(at(15, 0)))
	assert.Equal(t, 450, rec.TotalWorkMinutes)
}

func TestClockOut_NoDefaultBreak_NoSynthesis(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyClockOut(at(18, 0), 0, 450, "emp-1")
	require.NoError(t, err)

	assert.Empty(t, rec.ActiveBreaks())
	assert.Equal(t, 540, rec.TotalWorkMinutes)
}

func TestClockOut_SyntheticSlotClippedToPunch(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	// Clock out mid-lunch: slot is clipped, not discarded.
	rec, err := rec.ApplyClockOut(at(12, 30), 60, 450, "emp-1")
	require.NoError(t, err)

	breaks := rec.ActiveBreaks()
	require.Len(t, breaks, 1)
	require.NotNil(t, breaks[0].End)
	assert.True(t, breaks[0].End.Equal(at(12, 30)))
	assert.Equal(t, 180, rec.TotalWorkMinutes)
}

func TestClockOut_SyntheticSlotAfterPunchSkipped(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyClockOut(at(11, 0), 60, 450, "emp-1")
	require.NoError(t, err)

	assert.Empty(t, rec.ActiveBreaks())
	assert.Equal(t, 120, rec.TotalWorkMinutes)
}

func TestClockOut_ManualBreakSuppressesSynthesis(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyBreakStart(at(10, 0), "emp-1")
	require.NoError(t, err)
	rec, err = rec.ApplyBreakEnd(at(10, 15), "emp-1")
	require.NoError(t, err)

	rec, err = rec.ApplyClockOut(at(18, 0), 60, 450, "emp-1")
	require.NoError(t, err)

	require.Len(t, rec.ActiveBreaks(), 1, "no synthetic break when one was recorded")
	assert.Equal(t, 525, rec.TotalWorkMinutes)
}

func TestOvertimeMinutes(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	// 9:00-20:00 with a 60min lunch = 600 worked against 450 prescribed.
	rec, err := rec.ApplyClockOut(at(20, 0), 60, 450, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, 600, rec.TotalWorkMinutes)
	assert.Equal(t, 150, rec.OvertimeMinutes)
	assert.Equal(t, 0, rec.LateNightMinutes)
}

func TestLateNightMinutes(t *testing.T) {
	rec := mustClockIn(t, at(13, 0))
	// 13:00-23:30 with no breaks: 90 minutes past 22:00.
	rec, err := rec.ApplyClockOut(at(23, 30), 0, 450, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, 630, rec.TotalWorkMinutes)
	assert.Equal(t, 90, rec.LateNightMinutes)
}

func TestLateNightMinutes_BreakInsideWindow(t *testing.T) {
	rec := mustClockIn(t, at(13, 0))
	rec, err := rec.ApplyBreakStart(at(22, 30), "emp-1")
	require.NoError(t, err)
	rec, err = rec.ApplyBreakEnd(at(23, 0), "emp-1")
	require.NoError(t, err)

	rec, err = rec.ApplyClockOut(at(23, 30), 0, 450, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, 60, rec.LateNightMinutes)
}

func TestCorrection_ReplacesBreaksWholesale(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyBreakStart(at(12, 0), "emp-1")
	require.NoError(t, err)
	rec, err = rec.ApplyBreakEnd(at(13, 0), "emp-1")
	require.NoError(t, err)
	rec, err = rec.ApplyClockOut(at(18, 0), 60, 450, "emp-1")
	require.NoError(t, err)

	in := at(9, 30)
	out := at(18, 30)
	end := at(12, 45)
	corrected, err := rec.ApplyCorrection(&in, &out, []BreakPunch{{Start: at(12, 15), End: &end}}, true, 450, at(19, 0), "admin-1")
	require.NoError(t, err)

	// Old break superseded, not removed.
	assert.Len(t, corrected.Breaks, 2)
	active := corrected.ActiveBreaks()
	require.Len(t, active, 1)
	assert.True(t, active[0].Start.Equal(at(12, 15)))

	assert.Equal(t, StatusCompleted, corrected.Status)
	assert.Equal(t, 510, corrected.TotalWorkMinutes)
	assert.Equal(t, "admin-1", corrected.UpdatedBy)
}

func TestCorrection_NilBreaksPreserved(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyBreakStart(at(12, 0), "emp-1")
	require.NoError(t, err)
	rec, err = rec.ApplyBreakEnd(at(13, 0), "emp-1")
	require.NoError(t, err)
	rec, err = rec.ApplyClockOut(at(18, 0), 60, 450, "emp-1")
	require.NoError(t, err)

	in := at(8, 0)
	out := at(18, 0)
	corrected, err := rec.ApplyCorrection(&in, &out, nil, false, 450, at(19, 0), "admin-1")
	require.NoError(t, err)

	require.Len(t, corrected.ActiveBreaks(), 1)
	assert.Equal(t, 540, corrected.TotalWorkMinutes)
}

func TestCorrection_EmptyBreaksClears(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyBreakStart(at(12, 0), "emp-1")
	require.NoError(t, err)
	rec, err = rec.ApplyBreakEnd(at(13, 0), "emp-1")
	require.NoError(t, err)
	rec, err = rec.ApplyClockOut(at(18, 0), 60, 450, "emp-1")
	require.NoError(t, err)

	in := at(9, 0)
	out := at(18, 0)
	corrected, err := rec.ApplyCorrection(&in, &out, []BreakPunch{}, true, 450, at(19, 0), "admin-1")
	require.NoError(t, err)

	assert.Empty(t, corrected.ActiveBreaks())
	assert.Equal(t, 540, corrected.TotalWorkMinutes)
}

func TestCorrection_StatusDerivation(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	rec, err := rec.ApplyClockOut(at(18, 0), 0, 450, "emp-1")
	require.NoError(t, err)

	// Drop the clock-out: back to working.
	in := at(9, 0)
	corrected, err := rec.ApplyCorrection(&in, nil, nil, false, 450, at(19, 0), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, StatusWorking, corrected.Status)
	assert.Equal(t, 0, corrected.TotalWorkMinutes)

	// Drop both punches: not started.
	corrected, err = corrected.ApplyCorrection(nil, nil, []BreakPunch{}, true, 450, at(19, 0), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, StatusNotStarted, corrected.Status)
}

func TestCorrection_InvariantViolationsCollected(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))

	in := at(18, 0)
	out := at(9, 0)
	end := at(8, 0)
	_, err := rec.ApplyCorrection(&in, &out, []BreakPunch{{Start: at(8, 30), End: &end}}, true, 450, at(19, 0), "admin-1")
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.GreaterOrEqual(t, len(verrs), 2, "all violated fields reported at once")
}

func TestCorrection_OverlappingBreaksRejected(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	out := at(18, 0)
	in := at(9, 0)
	end1 := at(12, 45)
	end2 := at(13, 30)
	_, err := rec.ApplyCorrection(&in, &out, []BreakPunch{
		{Start: at(12, 0), End: &end1},
		{Start: at(12, 30), End: &end2},
	}, true, 450, at(19, 0), "admin-1")

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap()["breaks"], "overlap")
}

func TestCorrection_BreaksAcceptedInAnyOrder(t *testing.T) {
	rec := mustClockIn(t, at(9, 0))
	out := at(18, 0)
	in := at(9, 0)
	end1 := at(14, 0)
	end2 := at(10, 0)

	// Disjoint intervals supplied latest-first must not read as overlapping.
	corrected, err := rec.ApplyCorrection(&in, &out, []BreakPunch{
		{Start: at(13, 0), End: &end1},
		{Start: at(9, 30), End: &end2},
	}, true, 450, at(19, 0), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 450, corrected.TotalWorkMinutes)

	// Overlap is still caught when the intervals arrive out of order.
	end3 := at(13, 30)
	_, err = rec.ApplyCorrection(&in, &out, []BreakPunch{
		{Start: at(13, 0), End: &end1},
		{Start: at(12, 30), End: &end3},
	}, true, 450, at(19, 0), "admin-1")
	var verrs2 validator.ValidationErrors
	require.ErrorAs(t, err, &verrs2)
	assert.Contains(t, verrs2.ToMap()["breaks"], "overlap")
}

func TestSetMemo(t *testing.T) {
	rec := NewRecord("emp-1", workDate)

	memo := "visited client in the afternoon"
	withMemo := rec.SetMemo(&memo, at(18, 0), "emp-1")
	require.NotNil(t, withMemo.Memo)
	assert.Equal(t, memo, *withMemo.Memo)

	cleared := withMemo.SetMemo(nil, at(18, 5), "emp-1")
	assert.Nil(t, cleared.Memo)
}

func mustClockIn(t *testing.T, now time.Time) Record {
	t.Helper()
	rec, err := NewRecord("emp-1", workDate).ApplyClockIn(now, "emp-1")
	require.NoError(t, err)
	return rec
}
