package derive

import (
	"time"

	"github.com/tgienger/quill/internal/models"
)

// ApplyTemplate prefills a new task from a template. The deadline is today's
// date (in now's location) plus the template's day offset.
func ApplyTemplate(tpl models.Template, now time.Time) models.TaskInput {
	return models.TaskInput{
		Title:           tpl.Title,
		Description:     tpl.Description,
		WordCountTarget: tpl.WordCountTarget,
		Deadline:        models.DateOf(now).AddDays(tpl.DeadlineDays),
		Status:          models.StatusDrafting,
	}
}
