package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Drafting ")
	require.NoError(t, err)
	assert.Equal(t, StatusDrafting, st)

	_, err = ParseStatus("done")
	assert.Error(t, err)
}

func TestStatusNextWraps(t *testing.T) {
	assert.Equal(t, StatusDrafting, StatusIdeas.Next())
	assert.Equal(t, StatusIdeas, StatusPublished.Next())
	assert.Equal(t, "Editing", StatusEditing.Label())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.March, 9), d)

	d, err = ParseDate("2024-03-09T18:30:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", d.String())

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("09/03/2024")
	assert.Error(t, err)
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 27)
	assert.Equal(t, "2024-03-01", d.AddDays(3).String())
	assert.Equal(t, 3, d.AddDays(3).DaysSince(d))
	assert.Equal(t, -3, d.DaysSince(d.AddDays(3)))
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Deadline Date `json:"deadline"`
	}
	data, err := json.Marshal(wrapper{Deadline: NewDate(2025, time.January, 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"deadline":"2025-01-02"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2025-06-30T00:00:00Z"}`), &w))
	assert.Equal(t, NewDate(2025, time.June, 30), w.Deadline)
}

func TestTaskInputValidate(t *testing.T) {
	tests := []struct {
		name  string
		in    TaskInput
		field string
	}{
		{"missing title", TaskInput{Deadline: NewDate(2024, 1, 1)}, "title"},
		{"blank title", TaskInput{Title: "   ", Deadline: NewDate(2024, 1, 1)}, "title"},
		{"missing deadline", TaskInput{Title: "Essay"}, "deadline"},
		{"bad status", TaskInput{Title: "Essay", Deadline: NewDate(2024, 1, 1), Status: "done"}, "status"},
		{"negative target", TaskInput{Title: "Essay", Deadline: NewDate(2024, 1, 1), WordCountTarget: -1}, "wordCountTarget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	ok := TaskInput{Title: "Essay", Deadline: NewDate(2024, 1, 1)}
	assert.NoError(t, ok.Validate())
}

func TestTaskInputNormalizeDefaultsStatus(t *testing.T) {
	in := TaskInput{Title: "  Essay  "}
	in.Normalize()
	assert.Equal(t, "Essay", in.Title)
	assert.Equal(t, StatusDrafting, in.Status)
}

func TestTaskPatchApplyLeavesOtherFields(t *testing.T) {
	task := Task{
		ID:              "1",
		Title:           "Essay",
		Description:     "On cats",
		ProjectID:       "p1",
		Status:          StatusIdeas,
		WordCountTarget: 1000,
	}
	status := StatusEditing
	TaskPatch{Status: &status}.Apply(&task)

	assert.Equal(t, StatusEditing, task.Status)
	assert.Equal(t, "Essay", task.Title)
	assert.Equal(t, "p1", task.ProjectID)
	assert.Equal(t, 1000, task.WordCountTarget)

	empty := ""
	TaskPatch{ProjectID: &empty}.Apply(&task)
	assert.Empty(t, task.ProjectID)
}

func TestProjectPatchColorFallsBack(t *testing.T) {
	p := Project{Name: "Blog", Color: "#27AE60"}
	blank := ""
	ProjectPatch{Color: &blank}.Apply(&p)
	assert.Equal(t, DefaultColor, p.Color)
}

func TestTemplateInputValidate(t *testing.T) {
	assert.Error(t, TemplateInput{}.Validate())
	assert.Error(t, TemplateInput{Name: "Blog", DeadlineDays: -1}.Validate())
	assert.NoError(t, TemplateInput{Name: "Blog", DeadlineDays: 7}.Validate())
}
