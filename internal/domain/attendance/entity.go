package attendance

import (
	"sort"
	"time"

	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusWorking    Status = "working"
	StatusOnBreak    Status = "on_break"
	StatusCompleted  Status = "completed"
)

// BreakRecord is one break inside a day's record. Edits supersede: a
// corrected break is marked inactive and replaced, never mutated in place.
type BreakRecord struct {
	ID       string
	Start    time.Time
	End      *time.Time
	IsActive bool
}

func (b BreakRecord) Minutes() int {
	if b.End == nil {
		return 0
	}
	return int(b.End.Sub(b.Start).Minutes())
}

// Record is the per employee/day attendance aggregate. At most one record
// exists per (EmployeeID, WorkDate); the persistence layer enforces the
// uniqueness, the transitions here enforce the punch lifecycle.
//
// All Apply* transitions are pure: they return the next state and never
// mutate the receiver, so a failed guard leaves nothing to roll back.
type Record struct {
	ID         string
	EmployeeID string
	WorkDate   time.Time
	ClockIn    *time.Time
	ClockOut   *time.Time
	Breaks     []BreakRecord
	Status     Status

	TotalWorkMinutes int
	OvertimeMinutes  int
	LateNightMinutes int

	Memo      *string
	UpdatedBy string
	UpdatedAt time.Time
	CreatedAt time.Time

	// DTO
	EmployeeName *string
}

// NewRecord returns an empty record for the given employee and work date.
func NewRecord(employeeID string, workDate time.Time) Record {
	return Record{
		EmployeeID: employeeID,
		WorkDate:   calendar.DateOf(workDate),
		Status:     StatusNotStarted,
	}
}

func (r Record) clone() Record {
	next := r
	next.Breaks = make([]BreakRecord, len(r.Breaks))
	copy(next.Breaks, r.Breaks)
	return next
}

// ActiveBreaks returns the non-superseded breaks in stored order.
func (r Record) ActiveBreaks() []BreakRecord {
	var active []BreakRecord
	for _, b := range r.Breaks {
		if b.IsActive {
			active = append(active, b)
		}
	}
	return active
}

// openBreakIndex returns the index of the open (end == nil) active break,
// or -1. The lifecycle guarantees at most one.
func (r Record) openBreakIndex() int {
	for i := len(r.Breaks) - 1; i >= 0; i-- {
		if r.Breaks[i].IsActive && r.Breaks[i].End == nil {
			return i
		}
	}
	return -1
}

// ApplyClockIn starts the working day.
func (r Record) ApplyClockIn(now time.Time, by string) (Record, error) {
	if r.ClockIn != nil {
		return Record{}, ErrAlreadyClockedIn
	}

	next := r.clone()
	next.ClockIn = &now
	next.Status = StatusWorking
	next.UpdatedBy = by
	next.UpdatedAt = now
	return next, nil
}

// ApplyBreakStart opens a break.
func (r Record) ApplyBreakStart(now time.Time, by string) (Record, error) {
	if r.ClockIn == nil {
		return Record{}, ErrNotClockedIn
	}
	if r.Status == StatusCompleted {
		return Record{}, ErrAlreadyCompleted
	}
	if r.openBreakIndex() >= 0 {
		return Record{}, ErrBreakAlreadyOpen
	}

	next := r.clone()
	next.Breaks = append(next.Breaks, BreakRecord{
		Start:    now,
		IsActive: true,
	})
	next.Status = StatusOnBreak
	next.UpdatedBy = by
	next.UpdatedAt = now
	return next, nil
}

// ApplyBreakEnd closes the open break. Status reverts to working unless the
// record is already completed, in which case it is left unchanged.
func (r Record) ApplyBreakEnd(now time.Time, by string) (Record, error) {
	idx := r.openBreakIndex()
	if idx < 0 {
		return Record{}, ErrNoOpenBreak
	}

	next := r.clone()
	end := now
	next.Breaks[idx].End = &end
	if next.Status != StatusCompleted {
		next.Status = StatusWorking
	}
	next.UpdatedBy = by
	next.UpdatedAt = now
	return next, nil
}

// ApplyClockOut ends the working day. An open break is truncated to the
// punch instant. When no break was recorded at all, breaks are synthesized
// from the employee's configured default. Durations are recomputed against
// the prescribed daily minutes.
func (r Record) ApplyClockOut(now time.Time, defaultBreakMinutes int, prescribedWorkMinutes int, by string) (Record, error) {
	if r.ClockIn == nil {
		return Record{}, ErrNotClockedIn
	}
	if r.ClockOut != nil {
		return Record{}, ErrAlreadyClockedOut
	}

	next := r.clone()
	out := now
	next.ClockOut = &out

	if idx := next.openBreakIndex(); idx >= 0 {
		end := out
		next.Breaks[idx].End = &end
	} else if len(next.ActiveBreaks()) == 0 {
		next.Breaks = append(next.Breaks, synthesizeBreaks(next.WorkDate, *next.ClockIn, out, defaultBreakMinutes)...)
	}

	next.Status = StatusCompleted
	next.recomputeDurations(prescribedWorkMinutes)
	next.UpdatedBy = by
	next.UpdatedAt = now
	return next, nil
}

// BreakPunch is a corrected break interval supplied to ApplyCorrection.
type BreakPunch struct {
	Start time.Time
	End   *time.Time
}

// ApplyCorrection replaces clock-in/out and, when breaks is non-nil, the
// whole break set: existing breaks are superseded (marked inactive) and the
// supplied intervals appended. A nil breaks argument preserves the current
// set; an empty non-nil slice clears it. Status and durations are
// re-derived.
func (r Record) ApplyCorrection(clockIn, clockOut *time.Time, breaks []BreakPunch, replaceBreaks bool, prescribedWorkMinutes int, now time.Time, by string) (Record, error) {
	next := r.clone()
	next.ClockIn = clockIn
	next.ClockOut = clockOut

	if replaceBreaks {
		for i := range next.Breaks {
			next.Breaks[i].IsActive = false
		}
		for _, b := range breaks {
			next.Breaks = append(next.Breaks, BreakRecord{
				Start:    b.Start,
				End:      b.End,
				IsActive: true,
			})
		}
	}

	if errs := next.validateInvariants(); errs != nil {
		return Record{}, errs
	}

	switch {
	case next.ClockIn != nil && next.ClockOut != nil:
		next.Status = StatusCompleted
	case next.ClockIn != nil:
		if next.openBreakIndex() >= 0 {
			next.Status = StatusOnBreak
		} else {
			next.Status = StatusWorking
		}
	default:
		next.Status = StatusNotStarted
	}

	next.recomputeDurations(prescribedWorkMinutes)
	next.UpdatedBy = by
	next.UpdatedAt = now
	return next, nil
}

// SetMemo annotates the record independent of any punch; nil clears.
func (r Record) SetMemo(memo *string, now time.Time, by string) Record {
	next := r.clone()
	next.Memo = memo
	next.UpdatedBy = by
	next.UpdatedAt = now
	return next
}

// validateInvariants checks the corrected aggregate: punch ordering, break
// ordering, containment and non-overlap, and the single-open-break rule.
// Every violated field is reported.
func (r Record) validateInvariants() error {
	var errs validator.ValidationErrors

	if r.ClockOut != nil && r.ClockIn == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in is required when clock_out is set",
		})
	}
	if r.ClockIn != nil && r.ClockOut != nil && !r.ClockOut.After(*r.ClockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be after clock_in",
		})
	}

	// Corrections may supply intervals in any order; the pairwise overlap
	// check below assumes start order.
	active := r.ActiveBreaks()
	sort.Slice(active, func(i, j int) bool {
		return active[i].Start.Before(active[j].Start)
	})
	openCount := 0
	for i, b := range active {
		if b.End == nil {
			openCount++
			if openCount > 1 {
				errs = append(errs, validator.ValidationError{
					Field:   "breaks",
					Message: "at most one break may be open",
				})
			}
		} else if !b.End.After(b.Start) {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "break end must be after break start",
			})
		}

		if r.ClockIn == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "breaks require a clock_in",
			})
			break
		}
		if b.Start.Before(*r.ClockIn) {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "break must start at or after clock_in",
			})
		}
		if r.ClockOut != nil && b.End != nil && b.End.After(*r.ClockOut) {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "break must end at or before clock_out",
			})
		}
		if i > 0 && active[i-1].End != nil && b.Start.Before(*active[i-1].End) {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "breaks must not overlap",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// recomputeDurations derives total work, overtime and late-night minutes.
// Overtime is worked time beyond the prescribed daily minutes; late-night
// is worked time inside the 22:00-05:00 window.
func (r *Record) recomputeDurations(prescribedWorkMinutes int) {
	r.TotalWorkMinutes = 0
	r.OvertimeMinutes = 0
	r.LateNightMinutes = 0

	if r.ClockIn == nil || r.ClockOut == nil {
		return
	}

	gross := int(r.ClockOut.Sub(*r.ClockIn).Minutes())
	breakTotal := 0
	for _, b := range r.ActiveBreaks() {
		breakTotal += b.Minutes()
	}

	total := gross - breakTotal
	if total < 0 {
		total = 0
	}
	r.TotalWorkMinutes = total

	if prescribedWorkMinutes > 0 && total > prescribedWorkMinutes {
		r.OvertimeMinutes = total - prescribedWorkMinutes
	}

	r.LateNightMinutes = r.lateNightMinutes()
}

// lateNightMinutes sums the overlap of the worked intervals with the
// statutory late-night windows of the work date: 00:00-05:00 and
// 22:00-05:00 (next day).
func (r Record) lateNightMinutes() int {
	d := calendar.DateOf(r.WorkDate)
	windows := [][2]time.Time{
		{d, d.Add(5 * time.Hour)},
		{d.Add(22 * time.Hour), d.Add(29 * time.Hour)},
	}

	total := 0
	for _, iv := range r.workIntervals() {
		for _, w := range windows {
			total += overlapMinutes(iv[0], iv[1], w[0], w[1])
		}
	}
	return total
}

// workIntervals returns [clockIn, clockOut) with the closed active breaks
// carved out.
func (r Record) workIntervals() [][2]time.Time {
	if r.ClockIn == nil || r.ClockOut == nil {
		return nil
	}

	intervals := [][2]time.Time{{*r.ClockIn, *r.ClockOut}}
	for _, b := range r.ActiveBreaks() {
		if b.End == nil {
			continue
		}
		var carved [][2]time.Time
		for _, iv := range intervals {
			carved = append(carved, subtractInterval(iv, [2]time.Time{b.Start, *b.End})...)
		}
		intervals = carved
	}
	return intervals
}

func subtractInterval(iv, cut [2]time.Time) [][2]time.Time {
	if !cut[0].Before(iv[1]) || !cut[1].After(iv[0]) {
		return [][2]time.Time{iv}
	}

	var out [][2]time.Time
	if cut[0].After(iv[0]) {
		out = append(out, [2]time.Time{iv[0], cut[0]})
	}
	if cut[1].Before(iv[1]) {
		out = append(out, [2]time.Time{cut[1], iv[1]})
	}
	return out
}

func overlapMinutes(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// Synthetic break slots, fixed company policy: lunch 12:00-13:00 and an
// afternoon break 15:00-15:30 on the work date.
func synthesizeBreaks(workDate, clockIn, clockOut time.Time, defaultBreakMinutes int) []BreakRecord {
	d := calendar.DateOf(workDate)
	lunch := [2]time.Time{d.Add(12 * time.Hour), d.Add(13 * time.Hour)}
	afternoon := [2]time.Time{d.Add(15 * time.Hour), d.Add(15*time.Hour + 30*time.Minute)}

	var slots [][2]time.Time
	switch defaultBreakMinutes {
	case 30:
		slots = [][2]time.Time{afternoon}
	case 60:
		slots = [][2]time.Time{lunch}
	case 90:
		slots = [][2]time.Time{lunch, afternoon}
	default:
		return nil
	}

	var breaks []BreakRecord
	for _, slot := range slots {
		if slot[0].Before(clockIn) || !slot[0].Before(clockOut) {
			continue
		}
		end := slot[1]
		if end.After(clockOut) {
			end = clockOut
		}
		e := end
		breaks = append(breaks, BreakRecord{
			Start:    slot[0],
			End:      &e,
			IsActive: true,
		})
	}
	return breaks
}
