package store

import "errors"

var (
	ErrInvalidRange      = errors.New("start must be before end")
	ErrInPast            = errors.New("window starts in the past")
	ErrOverlap           = errors.New("window overlaps existing availability")
	ErrSlotUnavailable   = errors.New("no free window covers the requested time")
	ErrDoubleBooking     = errors.New("student already holds a reservation at that time")
	ErrNotFound          = errors.New("not found")
	ErrWindowOccupied    = errors.New("window is occupied")
	ErrInconsistentState = errors.New("no occupied window backs the reservation")
	ErrEmailTaken        = errors.New("email already registered")
)
