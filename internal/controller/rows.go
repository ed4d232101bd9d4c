package controller

import (
	"time"

	"github.com/tgienger/quill/internal/derive"
	"github.com/tgienger/quill/internal/models"
)

// TaskRow is a task with everything a list or card needs to render it
type TaskRow struct {
	models.Task
	// Project is the zero value when the task is unassigned or its project
	// was deleted
	Project    models.Project
	HasProject bool
	Urgency    derive.Urgency
	DueLabel   string
	Progress   float64
}

func taskRows(tasks []models.Task, projects []models.Project, now time.Time) []TaskRow {
	rows := make([]TaskRow, len(tasks))
	for i, t := range tasks {
		p, ok := derive.LookupProject(projects, t.ProjectID)
		rows[i] = TaskRow{
			Task:       t,
			Project:    p,
			HasProject: ok,
			Urgency:    derive.UrgencyOf(t.Deadline, now),
			DueLabel:   derive.DueLabel(t.Deadline, now),
			Progress:   derive.TaskProgress(t),
		}
	}
	return rows
}

func findTask(tasks []models.Task, id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}
