package derive

import (
	"github.com/tgienger/quill/internal/models"
)

// ProjectSummary holds the numbers shown on a project card
type ProjectSummary struct {
	Total      int
	Completed  int // published
	InProgress int // drafting or editing
	TotalWords int
}

// SummarizeProject aggregates the tasks assigned to projectID
func SummarizeProject(tasks []models.Task, projectID string) ProjectSummary {
	var s ProjectSummary
	for _, t := range tasks {
		if t.ProjectID != projectID {
			continue
		}
		s.Total++
		switch t.Status {
		case models.StatusPublished:
			s.Completed++
		case models.StatusDrafting, models.StatusEditing:
			s.InProgress++
		}
		s.TotalWords += t.WordCountComplete
	}
	return s
}

// TaskCounts recomputes the number of tasks per project id.
// This is authoritative; Project.TaskCount is only a cache.
func TaskCounts(tasks []models.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		if t.ProjectID != "" {
			counts[t.ProjectID]++
		}
	}
	return counts
}

// LookupProject finds the project a task points at. A missing project
// (never assigned, or deleted since) is reported with ok=false and is not an error.
func LookupProject(projects []models.Project, id string) (models.Project, bool) {
	if id == "" {
		return models.Project{}, false
	}
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}
