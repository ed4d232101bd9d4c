// Package derive computes the display values shown by every view: deadline
// urgency, progress, dashboard stats, filtered lists, archive groups and
// calendar grids. All functions are pure; "now" is always passed in.
package derive

import (
	"strconv"
	"time"

	"github.com/tgienger/quill/internal/models"
)

// Urgency classifies how close a deadline is
type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyUrgent  Urgency = "urgent"
	UrgencyWarning Urgency = "warning"
	UrgencySafe    Urgency = "safe"
)

// Label returns the text shown next to a deadline
func (u Urgency) Label() string {
	switch u {
	case UrgencyOverdue:
		return "Overdue"
	case UrgencyUrgent:
		return "Urgent"
	case UrgencyWarning:
		return "Due soon"
	default:
		return "On track"
	}
}

// DaysUntil returns the signed number of calendar days from now's date
// (in now's location) to the deadline.
func DaysUntil(deadline models.Date, now time.Time) int {
	return deadline.DaysSince(models.DateOf(now))
}

// UrgencyOf buckets a deadline: overdue (<0 days), urgent (0-1),
// warning (2-3), safe (>3).
func UrgencyOf(deadline models.Date, now time.Time) Urgency {
	days := DaysUntil(deadline, now)
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= 1:
		return UrgencyUrgent
	case days <= 3:
		return UrgencyWarning
	default:
		return UrgencySafe
	}
}

// DueLabel renders the countdown used in the upcoming deadlines panel
func DueLabel(deadline models.Date, now time.Time) string {
	days := DaysUntil(deadline, now)
	switch {
	case days == 0:
		return "Due Today"
	case days < 0:
		return pluralDays(-days) + " late"
	default:
		return pluralDays(days)
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return strconv.Itoa(n) + " days"
}
