// Package store defines the contract shared by every backend. Callers depend
// only on these interfaces and on the error kinds in errors.go; backends
// translate their own shapes and failures at the boundary.
package store

import (
	"context"

	"github.com/tgienger/quill/internal/models"
)

// Entity names used in errors
const (
	EntityTask     = "task"
	EntityProject  = "project"
	EntityTemplate = "template"
)

// Operation names used in errors
const (
	OpGetAll = "get_all"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// TaskStore is the task collection.
// GetByID returns (nil, nil) for an unknown id.
type TaskStore interface {
	GetAll(ctx context.Context) ([]models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	GetByProject(ctx context.Context, projectID string) ([]models.Task, error)
	GetByStatus(ctx context.Context, status models.Status) ([]models.Task, error)
	Create(ctx context.Context, in models.TaskInput) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// ProjectStore is the project collection
type ProjectStore interface {
	GetAll(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	// AdjustTaskCount moves the cached task counter by delta, never below
	// zero. An unknown project is ignored.
	AdjustTaskCount(ctx context.Context, id string, delta int) error
}

// TemplateStore is the template collection
type TemplateStore interface {
	GetAll(ctx context.Context) ([]models.Template, error)
	GetByID(ctx context.Context, id string) (*models.Template, error)
	Create(ctx context.Context, in models.TemplateInput) (*models.Template, error)
	Update(ctx context.Context, id string, patch models.TemplatePatch) (*models.Template, error)
	Delete(ctx context.Context, id string) error
}

// Set bundles the three stores of one backend
type Set struct {
	Tasks     TaskStore
	Projects  ProjectStore
	Templates TemplateStore
}
