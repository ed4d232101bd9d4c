package derive

import (
	"math"

	"github.com/tgienger/quill/internal/models"
)

// Stats aggregates the dashboard numbers over a task collection
type Stats struct {
	Total       int `json:"total"`
	Ideas       int `json:"ideas"`
	Drafting    int `json:"drafting"`
	Editing     int `json:"editing"`
	Submitted   int `json:"submitted"`
	Published   int `json:"published"`
	TotalWords  int `json:"totalWords"`
	TargetWords int `json:"targetWords"`
}

// ComputeStats recomputes the aggregate from scratch
func ComputeStats(tasks []models.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusIdeas:
			s.Ideas++
		case models.StatusDrafting:
			s.Drafting++
		case models.StatusEditing:
			s.Editing++
		case models.StatusSubmitted:
			s.Submitted++
		case models.StatusPublished:
			s.Published++
		}
		s.TotalWords += t.WordCountComplete
		s.TargetWords += t.WordCountTarget
	}
	return s
}

// Count returns the number of tasks in a status
func (s Stats) Count(status models.Status) int {
	switch status {
	case models.StatusIdeas:
		return s.Ideas
	case models.StatusDrafting:
		return s.Drafting
	case models.StatusEditing:
		return s.Editing
	case models.StatusSubmitted:
		return s.Submitted
	case models.StatusPublished:
		return s.Published
	}
	return 0
}

// WordsCompletePercent is round(totalWords/targetWords*100), 0 without a target.
// Unlike per-task progress it is not clamped at 100.
func (s Stats) WordsCompletePercent() int {
	if s.TargetWords == 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalWords) / float64(s.TargetWords) * 100))
}
