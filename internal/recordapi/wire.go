package recordapi

import (
	"encoding/json"
	"time"

	"github.com/tgienger/quill/internal/models"
)

// Table names
const (
	TableTasks     = "tasks"
	TableProjects  = "projects"
	TableTemplates = "templates"
)

// Envelope wraps every response body
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	// Field names the offending input on validation failures
	Field string `json:"field,omitempty"`
}

// TaskRecord is a task as it travels over the wire
type TaskRecord struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	ProjectID         string        `json:"project_id"`
	Status            models.Status `json:"status"`
	Deadline          models.Date   `json:"deadline"`
	WordCountTarget   int           `json:"word_count_target"`
	WordCountComplete int           `json:"word_count_complete"`
	Notes             string        `json:"notes"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func TaskRecordOf(t models.Task) TaskRecord {
	return TaskRecord{
		ID:                t.ID,
		Title:             t.Title,
		Description:       t.Description,
		ProjectID:         t.ProjectID,
		Status:            t.Status,
		Deadline:          t.Deadline,
		WordCountTarget:   t.WordCountTarget,
		WordCountComplete: t.WordCountComplete,
		Notes:             t.Notes,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func (r TaskRecord) Task() models.Task {
	return models.Task{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		ProjectID:         r.ProjectID,
		Status:            r.Status,
		Deadline:          r.Deadline,
		WordCountTarget:   r.WordCountTarget,
		WordCountComplete: r.WordCountComplete,
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// TaskWrite is the body of a task POST or PATCH. Absent fields are nil.
type TaskWrite struct {
	Title             *string        `json:"title,omitempty"`
	Description       *string        `json:"description,omitempty"`
	ProjectID         *string        `json:"project_id,omitempty"`
	Status            *models.Status `json:"status,omitempty"`
	Deadline          *models.Date   `json:"deadline,omitempty"`
	WordCountTarget   *int           `json:"word_count_target,omitempty"`
	WordCountComplete *int           `json:"word_count_complete,omitempty"`
	Notes             *string        `json:"notes,omitempty"`
}

func TaskWriteOf(p models.TaskPatch) TaskWrite {
	return TaskWrite(p)
}

func (w TaskWrite) Patch() models.TaskPatch {
	return models.TaskPatch(w)
}

// Input reads the write as a full create; absent fields take zero values
func (w TaskWrite) Input() models.TaskInput {
	return models.TaskInput{
		Title:             deref(w.Title),
		Description:       deref(w.Description),
		ProjectID:         deref(w.ProjectID),
		Status:            deref(w.Status),
		Deadline:          deref(w.Deadline),
		WordCountTarget:   deref(w.WordCountTarget),
		WordCountComplete: deref(w.WordCountComplete),
		Notes:             deref(w.Notes),
	}
}

// ProjectRecord is a project as it travels over the wire
type ProjectRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	TaskCount   int       `json:"task_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ProjectRecordOf(p models.Project) ProjectRecord {
	return ProjectRecord(p)
}

func (r ProjectRecord) Project() models.Project {
	return models.Project(r)
}

// ProjectWrite is the body of a project POST or PATCH
type ProjectWrite struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

func ProjectWriteOf(p models.ProjectPatch) ProjectWrite {
	return ProjectWrite(p)
}

func (w ProjectWrite) Patch() models.ProjectPatch {
	return models.ProjectPatch(w)
}

func (w ProjectWrite) Input() models.ProjectInput {
	return models.ProjectInput{
		Name:        deref(w.Name),
		Description: deref(w.Description),
		Color:       deref(w.Color),
	}
}

// TemplateRecord is a template as it travels over the wire
type TemplateRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	WordCountTarget int       `json:"word_count_target"`
	DeadlineDays    int       `json:"deadline_days"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func TemplateRecordOf(t models.Template) TemplateRecord {
	return TemplateRecord(t)
}

func (r TemplateRecord) Template() models.Template {
	return models.Template(r)
}

// TemplateWrite is the body of a template POST or PATCH
type TemplateWrite struct {
	Name            *string `json:"name,omitempty"`
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	WordCountTarget *int    `json:"word_count_target,omitempty"`
	DeadlineDays    *int    `json:"deadline_days,omitempty"`
}

func TemplateWriteOf(p models.TemplatePatch) TemplateWrite {
	return TemplateWrite(p)
}

func (w TemplateWrite) Patch() models.TemplatePatch {
	return models.TemplatePatch(w)
}

func (w TemplateWrite) Input() models.TemplateInput {
	return models.TemplateInput{
		Name:            deref(w.Name),
		Title:           deref(w.Title),
		Description:     deref(w.Description),
		WordCountTarget: deref(w.WordCountTarget),
		DeadlineDays:    deref(w.DeadlineDays),
	}
}

// TaskCountDelta is the body of the task_count endpoint
type TaskCountDelta struct {
	Delta int `json:"delta"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
