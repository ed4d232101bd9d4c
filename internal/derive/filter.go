package derive

import (
	"strings"

	"github.com/tgienger/quill/internal/models"
)

// FilterAll matches every status
const FilterAll = "all"

// StatusFilter is either FilterAll or one of the task statuses
type StatusFilter string

// Matches reports whether a status passes the filter
func (f StatusFilter) Matches(s models.Status) bool {
	return f == "" || f == FilterAll || models.Status(f) == s
}

// FilterTasks keeps tasks whose status passes the filter and whose title or
// description contains query, case-insensitively. Input order is preserved.
func FilterTasks(tasks []models.Task, filter StatusFilter, query string) []models.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !filter.Matches(t.Status) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}
