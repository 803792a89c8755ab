package attendance

import "errors"

// Attendance domain errors
var (
	// Punch lifecycle errors
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrNotClockedIn      = errors.New("not clocked in yet")
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	ErrAlreadyCompleted  = errors.New("attendance for the day is already completed")
	ErrBreakAlreadyOpen  = errors.New("a break is already in progress")
	ErrNoOpenBreak       = errors.New("no break is in progress")

	// General errors
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrDuplicateRecord  = errors.New("attendance record already exists for this day")
	ErrConcurrentUpdate = errors.New("attendance record was changed by another request")
)
