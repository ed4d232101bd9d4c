package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is a task's position in the writing pipeline
type Status string

const (
	StatusIdeas     Status = "ideas"
	StatusDrafting  Status = "drafting"
	StatusEditing   Status = "editing"
	StatusSubmitted Status = "submitted"
	StatusPublished Status = "published"
)

// Statuses lists every status in pipeline order
var Statuses = []Status{
	StatusIdeas,
	StatusDrafting,
	StatusEditing,
	StatusSubmitted,
	StatusPublished,
}

// Valid reports whether s is one of the five pipeline statuses
func (s Status) Valid() bool {
	switch s {
	case StatusIdeas, StatusDrafting, StatusEditing, StatusSubmitted, StatusPublished:
		return true
	}
	return false
}

// Label returns the capitalized display name
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Next returns the following status, wrapping from published back to ideas
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusIdeas
}

// Archived reports whether tasks in this status belong to the archive
func (s Status) Archived() bool {
	return s == StatusSubmitted || s == StatusPublished
}

// ParseStatus converts user or wire input into a Status
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Palette holds the project color swatches offered by the project form
var Palette = []string{
	"#3498DB", "#27AE60", "#E67E22", "#9B59B6",
	"#E74C3C", "#F39C12", "#1ABC9C", "#34495E",
}

// DefaultColor is used for projects created without a color
var DefaultColor = Palette[0]

// Project represents a named grouping of tasks
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	TaskCount   int       `json:"taskCount"` // cached, see derive.TaskCounts
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Task represents a single unit of writing work
type Task struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ProjectID         string    `json:"projectId"` // empty = unassigned
	Status            Status    `json:"status"`
	Deadline          Date      `json:"deadline"`
	WordCountTarget   int       `json:"wordCountTarget"`
	WordCountComplete int       `json:"wordCountComplete"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Template is a reusable preset for new tasks
type Template struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	WordCountTarget int       `json:"wordCountTarget"`
	DeadlineDays    int       `json:"deadline"` // offset in days from the day it is applied
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
