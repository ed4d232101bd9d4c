// Package ics exports task deadlines as an iCalendar document
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/tgienger/quill/internal/models"
)

const (
	prodID    = "-//Quill//Deadline Export//EN"
	uidDomain = "quill"
)

// Options narrows an export
type Options struct {
	// Status keeps only tasks in that status when set
	Status models.Status
	// ProjectID keeps only tasks in that project when set
	ProjectID string
	// Projects names the project in each event's categories
	Projects []models.Project
}

// Select returns the tasks the options keep, in input order
func (o Options) Select(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if o.Status != "" && t.Status != o.Status {
			continue
		}
		if o.ProjectID != "" && t.ProjectID != o.ProjectID {
			continue
		}
		if t.Deadline.IsZero() {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Calendar builds one all-day VEVENT per selected task
func Calendar(tasks []models.Task, now time.Time, opts Options) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetMethod(ical.MethodPublish)

	stamp := now.UTC()
	for _, t := range opts.Select(tasks) {
		addEvent(cal, t, stamp, opts.Projects)
	}
	return cal
}

// Build renders the calendar as text with CRLF line endings
func Build(tasks []models.Task, now time.Time, opts Options) string {
	return Calendar(tasks, now, opts).Serialize()
}

// Write renders the calendar to w
func Write(w io.Writer, tasks []models.Task, now time.Time, opts Options) error {
	if err := Calendar(tasks, now, opts).SerializeTo(w); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

func addEvent(cal *ical.Calendar, t models.Task, stamp time.Time, projects []models.Project) {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "Untitled task"
	}
	// All-day events are timezone free; the deadline's own date is used
	day := t.Deadline.In(time.UTC)

	ev := cal.AddEvent(UID(t))
	ev.SetDtStampTime(stamp)
	ev.SetSummary(title)
	ev.SetAllDayStartAt(day)
	ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	ev.SetStatus(eventStatus(t.Status))
	if desc := strings.TrimSpace(t.Description); desc != "" {
		ev.SetDescription(desc)
	}
	for _, p := range projects {
		if p.ID == t.ProjectID && t.ProjectID != "" {
			ev.SetProperty(ical.ComponentPropertyCategories, ical.ToText(p.Name))
			break
		}
	}
}

// UID is stable per task so re-imports update the same event
func UID(t models.Task) string {
	return fmt.Sprintf("task-%s@%s", strings.TrimSpace(t.ID), uidDomain)
}

func eventStatus(s models.Status) ical.ObjectStatus {
	if s.Archived() {
		return ical.ObjectStatusConfirmed
	}
	return ical.ObjectStatusTentative
}
