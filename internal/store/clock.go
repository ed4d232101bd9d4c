package store

import "time"

// Clock supplies the current time to a backend
type Clock func() time.Time

// NextStamp returns now, or the instant just after prev when the clock has not
// moved past it, so UpdatedAt always advances.
func NextStamp(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}
