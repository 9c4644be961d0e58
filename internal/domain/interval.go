package domain

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. The comparison is strict on both sides, so a
// window that starts exactly when another ends does not overlap it.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Covers reports whether at falls inside [start, end], inclusive on both
// ends. Booking containment is deliberately looser than the overlap test:
// an instant equal to a window's end boundary is still bookable.
func Covers(start, end, at time.Time) bool {
	return !at.Before(start) && !at.After(end)
}

// WindowCovers is Covers applied to a window's own bounds.
func WindowCovers(w AvailabilityWindow, at time.Time) bool {
	return Covers(w.StartTime, w.EndTime, at)
}

// WindowsOverlap is Overlaps applied to two windows' bounds.
func WindowsOverlap(a, b AvailabilityWindow) bool {
	return Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime)
}
