package derive

import (
	"sort"
	"time"

	"github.com/tgienger/quill/internal/models"
)

// ArchiveLabelLayout formats the month heading of an archive group
const ArchiveLabelLayout = "January 2006"

// Archived returns the submitted and published tasks in input order
func Archived(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status.Archived() {
			out = append(out, t)
		}
	}
	return out
}

// ArchiveGroup holds the tasks last updated in one calendar month
type ArchiveGroup struct {
	Label string
	Year  int
	Month time.Month
	Tasks []models.Task
}

// ArchiveGroups is the grouped archive view
type ArchiveGroups struct {
	// Labels are sorted by calendar month, most recent first
	Labels []string
	Groups map[string]*ArchiveGroup
}

// Ordered returns the groups in label order
func (a ArchiveGroups) Ordered() []*ArchiveGroup {
	out := make([]*ArchiveGroup, 0, len(a.Labels))
	for _, l := range a.Labels {
		out = append(out, a.Groups[l])
	}
	return out
}

// GroupArchive groups tasks by the month of UpdatedAt in loc.
// Groups are ordered by the month itself, not by the label text.
func GroupArchive(tasks []models.Task, loc *time.Location) ArchiveGroups {
	if loc == nil {
		loc = time.Local
	}
	res := ArchiveGroups{Groups: make(map[string]*ArchiveGroup)}
	for _, t := range tasks {
		u := t.UpdatedAt.In(loc)
		label := u.Format(ArchiveLabelLayout)
		g, ok := res.Groups[label]
		if !ok {
			g = &ArchiveGroup{Label: label, Year: u.Year(), Month: u.Month()}
			res.Groups[label] = g
			res.Labels = append(res.Labels, label)
		}
		g.Tasks = append(g.Tasks, t)
	}
	sort.SliceStable(res.Labels, func(i, j int) bool {
		a, b := res.Groups[res.Labels[i]], res.Groups[res.Labels[j]]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})
	return res
}
