package leave

import "errors"

// Leave domain errors
var (
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrGrantNotFound       = errors.New("leave grant not found")
	ErrAlreadyProcessed    = errors.New("leave request has already been processed")
	ErrRequestImmutable    = errors.New("leave request can no longer be modified")
	ErrOverlappingRequest  = errors.New("an existing leave request overlaps this period")
	ErrInsufficientBalance = errors.New("insufficient paid leave balance")
)
