package derive

import (
	"sort"
	"time"

	"github.com/tgienger/quill/internal/models"
)

// TasksOn returns the tasks due on date
func TasksOn(tasks []models.Task, date models.Date) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Deadline.Equal(date) {
			out = append(out, t)
		}
	}
	return out
}

// Upcoming returns tasks due after today, soonest first, at most limit of them.
// A limit <= 0 means no limit.
func Upcoming(tasks []models.Task, now time.Time, limit int) []models.Task {
	today := models.DateOf(now)
	var out []models.Task
	for _, t := range tasks {
		if t.Deadline.After(today) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(out[j].Deadline)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CalendarDay is one cell of a month grid
type CalendarDay struct {
	Date  models.Date
	Tasks []models.Task
}

// MonthGrid returns every day of the month containing month, each with the
// tasks due that day. Leading is the weekday offset of the first day
// (Sunday = 0) for laying the days out in a week grid.
func MonthGrid(month models.Date, tasks []models.Task) (days []CalendarDay, leading int) {
	first := models.NewDate(month.Year(), month.Month(), 1)
	byDate := make(map[models.Date][]models.Task)
	for _, t := range tasks {
		byDate[t.Deadline] = append(byDate[t.Deadline], t)
	}
	for d := first; d.Month() == first.Month(); d = d.AddDays(1) {
		days = append(days, CalendarDay{Date: d, Tasks: byDate[d]})
	}
	return days, int(first.Weekday())
}
