package models

import (
	"strings"
)

// ValidationError reports a missing or invalid field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// TaskInput holds the fields of a task to be created
type TaskInput struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	ProjectID         string `json:"projectId"`
	Status            Status `json:"status"`
	Deadline          Date   `json:"deadline"`
	WordCountTarget   int    `json:"wordCountTarget"`
	WordCountComplete int    `json:"wordCountComplete"`
	Notes             string `json:"notes"`
}

// Normalize trims text fields and fills defaults
func (in *TaskInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Status == "" {
		in.Status = StatusDrafting
	}
}

// Validate checks the required fields of a new task
func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title", "is required")
	}
	if in.Deadline.IsZero() {
		return invalid("deadline", "is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return invalid("status", "must be one of ideas, drafting, editing, submitted, published")
	}
	if in.WordCountTarget < 0 {
		return invalid("wordCountTarget", "must not be negative")
	}
	if in.WordCountComplete < 0 {
		return invalid("wordCountComplete", "must not be negative")
	}
	return nil
}

// Patch converts a full form submission into a patch touching every field
func (in TaskInput) Patch() TaskPatch {
	return TaskPatch{
		Title:             &in.Title,
		Description:       &in.Description,
		ProjectID:         &in.ProjectID,
		Status:            &in.Status,
		Deadline:          &in.Deadline,
		WordCountTarget:   &in.WordCountTarget,
		WordCountComplete: &in.WordCountComplete,
		Notes:             &in.Notes,
	}
}

// NewTask builds the stored form of a validated input
func (in TaskInput) NewTask() Task {
	return Task{
		Title:             in.Title,
		Description:       in.Description,
		ProjectID:         in.ProjectID,
		Status:            in.Status,
		Deadline:          in.Deadline,
		WordCountTarget:   in.WordCountTarget,
		WordCountComplete: in.WordCountComplete,
		Notes:             in.Notes,
	}
}

// TaskPatch is a partial update; nil fields are left unchanged.
// An empty ProjectID unassigns the task.
type TaskPatch struct {
	Title             *string `json:"title,omitempty"`
	Description       *string `json:"description,omitempty"`
	ProjectID         *string `json:"projectId,omitempty"`
	Status            *Status `json:"status,omitempty"`
	Deadline          *Date   `json:"deadline,omitempty"`
	WordCountTarget   *int    `json:"wordCountTarget,omitempty"`
	WordCountComplete *int    `json:"wordCountComplete,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// Validate checks the fields present in the patch
func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "must be one of ideas, drafting, editing, submitted, published")
	}
	if p.Deadline != nil && p.Deadline.IsZero() {
		return invalid("deadline", "must not be empty")
	}
	if p.WordCountTarget != nil && *p.WordCountTarget < 0 {
		return invalid("wordCountTarget", "must not be negative")
	}
	if p.WordCountComplete != nil && *p.WordCountComplete < 0 {
		return invalid("wordCountComplete", "must not be negative")
	}
	return nil
}

// Empty reports whether the patch changes nothing
func (p TaskPatch) Empty() bool {
	return p == TaskPatch{}
}

// Apply merges the patch into t
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.ProjectID != nil {
		t.ProjectID = strings.TrimSpace(*p.ProjectID)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.WordCountTarget != nil {
		t.WordCountTarget = *p.WordCountTarget
	}
	if p.WordCountComplete != nil {
		t.WordCountComplete = *p.WordCountComplete
	}
	if p.Notes != nil {
		t.Notes = strings.TrimSpace(*p.Notes)
	}
}

// ProjectInput holds the fields of a project to be created
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Normalize trims text fields and fills the default color
func (in *ProjectInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Color = strings.TrimSpace(in.Color)
	if in.Color == "" {
		in.Color = DefaultColor
	}
}

func (in ProjectInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	return nil
}

// ProjectPatch is a partial project update
type ProjectPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

func (p ProjectPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return nil
}

func (p ProjectPatch) Apply(pr *Project) {
	if p.Name != nil {
		pr.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		pr.Description = strings.TrimSpace(*p.Description)
	}
	if p.Color != nil {
		pr.Color = strings.TrimSpace(*p.Color)
		if pr.Color == "" {
			pr.Color = DefaultColor
		}
	}
}

// TemplateInput holds the fields of a template to be created
type TemplateInput struct {
	Name            string `json:"name"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	WordCountTarget int    `json:"wordCountTarget"`
	DeadlineDays    int    `json:"deadline"`
}

func (in *TemplateInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
}

func (in TemplateInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	if in.WordCountTarget < 0 {
		return invalid("wordCountTarget", "must not be negative")
	}
	if in.DeadlineDays < 0 {
		return invalid("deadline", "must not be negative")
	}
	return nil
}

// TemplatePatch is a partial template update
type TemplatePatch struct {
	Name            *string `json:"name,omitempty"`
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	WordCountTarget *int    `json:"wordCountTarget,omitempty"`
	DeadlineDays    *int    `json:"deadline,omitempty"`
}

func (p TemplatePatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if p.WordCountTarget != nil && *p.WordCountTarget < 0 {
		return invalid("wordCountTarget", "must not be negative")
	}
	if p.DeadlineDays != nil && *p.DeadlineDays < 0 {
		return invalid("deadline", "must not be negative")
	}
	return nil
}

func (p TemplatePatch) Apply(t *Template) {
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.WordCountTarget != nil {
		t.WordCountTarget = *p.WordCountTarget
	}
	if p.DeadlineDays != nil {
		t.DeadlineDays = *p.DeadlineDays
	}
}
