package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/models"
)

var now = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func sample() []models.Task {
	return []models.Task{
		{ID: "1", Title: "Blog post, part 1", Description: "intro; outline\nsecond line", ProjectID: "p1",
			Status: models.StatusDrafting, Deadline: models.NewDate(2024, time.March, 31)},
		{ID: "2", Title: "Essay", Status: models.StatusPublished, Deadline: models.NewDate(2024, time.April, 2)},
	}
}

func TestBuildEvents(t *testing.T) {
	out := Build(sample(), now, Options{Projects: []models.Project{{ID: "p1", Name: "Blog"}}})

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Contains(t, out, "PRODID:"+prodID+"\r\n")
	assert.Contains(t, out, "METHOD:PUBLISH\r\n")

	assert.Contains(t, out, "UID:task-1@quill\r\n")
	assert.Contains(t, out, "DTSTAMP:20240310T093000Z\r\n")
	assert.Contains(t, out, "SUMMARY:Blog post\\, part 1\r\n")
	assert.Contains(t, out, "DESCRIPTION:intro\\; outline\\nsecond line\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240331\r\n")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20240401\r\n")
	assert.Contains(t, out, "CATEGORIES:Blog\r\n")
	assert.Contains(t, out, "STATUS:TENTATIVE\r\n")
	assert.Contains(t, out, "STATUS:CONFIRMED\r\n")
	assert.Equal(t, 1, strings.Count(out, "DESCRIPTION:"), "empty descriptions are omitted")
}

func TestBuildParsesBack(t *testing.T) {
	cal, err := ical.ParseCalendar(strings.NewReader(Build(sample(), now, Options{})))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "task-1@quill", events[0].Id())
	assert.Equal(t, "task-2@quill", events[1].Id())
}

func TestOptionsSelect(t *testing.T) {
	tasks := append(sample(), models.Task{ID: "3", Title: "No deadline"})

	assert.Len(t, Options{}.Select(tasks), 2)
	assert.Len(t, Options{Status: models.StatusPublished}.Select(tasks), 1)

	got := Options{ProjectID: "p1"}.Select(tasks)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestBuildEmpty(t *testing.T) {
	out := Build(nil, now, Options{})
	assert.NotContains(t, out, "VEVENT")
	assert.Contains(t, out, "BEGIN:VCALENDAR")
}

func TestLongSummaryUnfolds(t *testing.T) {
	title := strings.Repeat("deadline ", 12)
	title = strings.TrimSpace(title)
	out := Build([]models.Task{{ID: "1", Title: title, Deadline: models.NewDate(2024, time.May, 1)}}, now, Options{})

	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Contains(t, unfolded, "SUMMARY:"+title)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), now, Options{}))
	assert.Equal(t, Build(sample(), now, Options{}), buf.String())
}
