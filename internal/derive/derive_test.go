package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/models"
)

var now = time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)

func today() models.Date { return models.DateOf(now) }

func TestUrgencyBuckets(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		want   Urgency
	}{
		{"yesterday", -1, UrgencyOverdue},
		{"last week", -7, UrgencyOverdue},
		{"today", 0, UrgencyUrgent},
		{"tomorrow", 1, UrgencyUrgent},
		{"two days", 2, UrgencyWarning},
		{"three days", 3, UrgencyWarning},
		{"four days", 4, UrgencySafe},
		{"ten days", 10, UrgencySafe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UrgencyOf(today().AddDays(tt.offset), now))
		})
	}
}

func TestUrgencyIsPure(t *testing.T) {
	d := today().AddDays(2)
	first := UrgencyOf(d, now)
	for range 5 {
		assert.Equal(t, first, UrgencyOf(d, now))
	}
}

func TestUrgencyUsesCallerLocation(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC
	loc := time.FixedZone("EST", -5*3600)
	late := time.Date(2024, time.June, 15, 23, 30, 0, 0, loc)
	assert.Equal(t, 0, DaysUntil(models.NewDate(2024, time.June, 15), late))
	assert.Equal(t, -1, DaysUntil(models.NewDate(2024, time.June, 15), late.UTC()))
}

func TestDueLabel(t *testing.T) {
	assert.Equal(t, "Due Today", DueLabel(today(), now))
	assert.Equal(t, "1 day", DueLabel(today().AddDays(1), now))
	assert.Equal(t, "5 days", DueLabel(today().AddDays(5), now))
	assert.Equal(t, "2 days late", DueLabel(today().AddDays(-2), now))
}

func TestProgressPercentageBounds(t *testing.T) {
	cases := [][2]int{{0, 0}, {10, 0}, {0, 100}, {50, 100}, {100, 100}, {250, 100}, {1, 3}}
	for _, c := range cases {
		p := ProgressPercentage(c[0], c[1])
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
	}
	assert.Equal(t, 0.0, ProgressPercentage(500, 0))
	assert.Equal(t, 50.0, ProgressPercentage(50, 100))
	assert.Equal(t, 100.0, ProgressPercentage(250, 100))
}

func TestAddWordsClampsToTarget(t *testing.T) {
	task := models.Task{WordCountComplete: 900, WordCountTarget: 1000}

	n, ok := AddWords(task, 50)
	require.True(t, ok)
	assert.Equal(t, 950, n)

	n, ok = AddWords(task, 500)
	require.True(t, ok)
	assert.Equal(t, 1000, n)

	_, ok = AddWords(task, 0)
	assert.False(t, ok)
	_, ok = AddWords(task, -10)
	assert.False(t, ok)
}

func TestComputeStats(t *testing.T) {
	tasks := []models.Task{
		{Status: models.StatusDrafting, WordCountComplete: 100, WordCountTarget: 100},
		{Status: models.StatusPublished, WordCountComplete: 200, WordCountTarget: 100},
		{Status: models.StatusPublished, WordCountComplete: 300, WordCountTarget: 100},
	}
	s := ComputeStats(tasks)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Drafting)
	assert.Equal(t, 2, s.Published)
	assert.Equal(t, 0, s.Ideas)
	assert.Equal(t, 600, s.TotalWords)
	assert.Equal(t, 300, s.TargetWords)
	assert.Equal(t, 200, s.WordsCompletePercent())
	assert.Equal(t, 2, s.Count(models.StatusPublished))
}

func TestStatsWithoutTarget(t *testing.T) {
	s := ComputeStats([]models.Task{{Status: models.StatusIdeas, WordCountComplete: 40}})
	assert.Equal(t, 0, s.WordsCompletePercent())
	assert.Equal(t, 0, ComputeStats(nil).WordsCompletePercent())
}

func TestFilterAndSearchCompose(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "Blog post on Go", Status: models.StatusDrafting},
		{ID: "2", Title: "Essay", Description: "for the BLOG", Status: models.StatusDrafting},
		{ID: "3", Title: "Blog roundup", Status: models.StatusEditing},
		{ID: "4", Title: "Short story", Status: models.StatusDrafting},
	}

	got := FilterTasks(tasks, StatusFilter(models.StatusDrafting), "blog")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	assert.Len(t, FilterTasks(tasks, FilterAll, ""), 4)
	assert.Len(t, FilterTasks(tasks, FilterAll, "BLOG"), 3)
	assert.Empty(t, FilterTasks(tasks, StatusFilter(models.StatusPublished), ""))
}

func TestGroupArchiveSortsByMonth(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", Status: models.StatusPublished, UpdatedAt: time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)},
		{ID: "b", Status: models.StatusSubmitted, UpdatedAt: time.Date(2024, time.January, 20, 10, 0, 0, 0, time.UTC)},
		{ID: "c", Status: models.StatusPublished, UpdatedAt: time.Date(2024, time.March, 28, 10, 0, 0, 0, time.UTC)},
	}

	groups := GroupArchive(tasks, time.UTC)
	require.Len(t, groups.Groups, 2)
	assert.Equal(t, []string{"March 2024", "January 2024"}, groups.Labels)
	assert.Len(t, groups.Groups["March 2024"].Tasks, 2)
	assert.Equal(t, "a", groups.Groups["March 2024"].Tasks[0].ID)
}

func TestGroupArchiveNotLexical(t *testing.T) {
	tasks := []models.Task{
		{UpdatedAt: time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{UpdatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{UpdatedAt: time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)},
	}
	groups := GroupArchive(tasks, time.UTC)
	assert.Equal(t, []string{"January 2024", "December 2023", "February 2023"}, groups.Labels)

	ordered := groups.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, time.January, ordered[0].Month)
}

func TestArchivedKeepsCompletedOnly(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Status: models.StatusDrafting},
		{ID: "2", Status: models.StatusSubmitted},
		{ID: "3", Status: models.StatusPublished},
	}
	got := Archived(tasks)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
}

func TestApplyTemplate(t *testing.T) {
	tpl := models.Template{
		Name:            "Blog Post Template",
		Title:           "New Blog Post",
		Description:     "Write about [topic]",
		WordCountTarget: 1000,
		DeadlineDays:    7,
	}
	in := ApplyTemplate(tpl, now)
	assert.Equal(t, "New Blog Post", in.Title)
	assert.Equal(t, "Write about [topic]", in.Description)
	assert.Equal(t, 1000, in.WordCountTarget)
	assert.Equal(t, models.NewDate(2024, time.June, 22), in.Deadline)
	assert.NoError(t, in.Validate())
}

func TestUpcoming(t *testing.T) {
	tasks := []models.Task{
		{ID: "today", Deadline: today()},
		{ID: "late", Deadline: today().AddDays(-3)},
		{ID: "d9", Deadline: today().AddDays(9)},
		{ID: "d2", Deadline: today().AddDays(2)},
		{ID: "d4", Deadline: today().AddDays(4)},
	}
	got := Upcoming(tasks, now, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "d2", got[0].ID)
	assert.Equal(t, "d4", got[1].ID)

	assert.Len(t, Upcoming(tasks, now, 0), 3)
}

func TestMonthGrid(t *testing.T) {
	tasks := []models.Task{
		{ID: "x", Deadline: models.NewDate(2024, time.February, 29)},
		{ID: "y", Deadline: models.NewDate(2024, time.March, 1)},
	}
	days, leading := MonthGrid(models.NewDate(2024, time.February, 14), tasks)
	require.Len(t, days, 29)
	assert.Equal(t, 4, leading) // 2024-02-01 was a Thursday
	require.Len(t, days[28].Tasks, 1)
	assert.Equal(t, "x", days[28].Tasks[0].ID)
	assert.Empty(t, days[0].Tasks)

	on := TasksOn(tasks, models.NewDate(2024, time.March, 1))
	require.Len(t, on, 1)
	assert.Equal(t, "y", on[0].ID)
}

func TestProjectSummaryAndCounts(t *testing.T) {
	tasks := []models.Task{
		{ProjectID: "p1", Status: models.StatusPublished, WordCountComplete: 100},
		{ProjectID: "p1", Status: models.StatusDrafting, WordCountComplete: 50},
		{ProjectID: "p1", Status: models.StatusEditing},
		{ProjectID: "p2", Status: models.StatusIdeas},
		{Status: models.StatusIdeas},
	}
	s := SummarizeProject(tasks, "p1")
	assert.Equal(t, ProjectSummary{Total: 3, Completed: 1, InProgress: 2, TotalWords: 150}, s)
	assert.Equal(t, map[string]int{"p1": 3, "p2": 1}, TaskCounts(tasks))
}

func TestLookupProjectOrphan(t *testing.T) {
	projects := []models.Project{{ID: "p1", Name: "Blog"}}

	p, ok := LookupProject(projects, "p1")
	require.True(t, ok)
	assert.Equal(t, "Blog", p.Name)

	_, ok = LookupProject(projects, "deleted")
	assert.False(t, ok)
	_, ok = LookupProject(projects, "")
	assert.False(t, ok)
}
