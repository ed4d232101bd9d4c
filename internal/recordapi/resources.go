package recordapi

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// resource adapts one store to the generic record handlers
type resource interface {
	list(ctx context.Context, q url.Values) (any, error)
	// get returns nil data for an unknown id
	get(ctx context.Context, id string) (any, error)
	create(ctx context.Context, body *json.Decoder) (any, error)
	update(ctx context.Context, id string, body *json.Decoder) (any, error)
	delete(ctx context.Context, id string) error
}

type taskResource struct {
	tasks store.TaskStore
}

// list honors the project_id and status predicates; both may be combined
func (tr taskResource) list(ctx context.Context, q url.Values) (any, error) {
	var status models.Status
	if raw := q.Get("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			return nil, store.Invalid(store.EntityTask, store.OpGetAll, &models.ValidationError{Field: "status", Message: err.Error()})
		}
		status = st
	}

	var (
		tasks []models.Task
		err   error
	)
	switch projectID := q.Get("project_id"); {
	case q.Has("project_id"):
		tasks, err = tr.tasks.GetByProject(ctx, projectID)
	case status != "":
		tasks, err = tr.tasks.GetByStatus(ctx, status)
	default:
		tasks, err = tr.tasks.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, TaskRecordOf(t))
	}
	return out, nil
}

func (tr taskResource) get(ctx context.Context, id string) (any, error) {
	t, err := tr.tasks.GetByID(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	return TaskRecordOf(*t), nil
}

func (tr taskResource) create(ctx context.Context, body *json.Decoder) (any, error) {
	var w TaskWrite
	if err := body.Decode(&w); err != nil {
		return nil, badBody(store.EntityTask, store.OpCreate, err)
	}
	t, err := tr.tasks.Create(ctx, w.Input())
	if err != nil {
		return nil, err
	}
	return TaskRecordOf(*t), nil
}

func (tr taskResource) update(ctx context.Context, id string, body *json.Decoder) (any, error) {
	var w TaskWrite
	if err := body.Decode(&w); err != nil {
		return nil, badBody(store.EntityTask, store.OpUpdate, err)
	}
	t, err := tr.tasks.Update(ctx, id, w.Patch())
	if err != nil {
		return nil, err
	}
	return TaskRecordOf(*t), nil
}

func (tr taskResource) delete(ctx context.Context, id string) error {
	return tr.tasks.Delete(ctx, id)
}

type projectResource struct {
	projects store.ProjectStore
}

func (pr projectResource) list(ctx context.Context, _ url.Values) (any, error) {
	projects, err := pr.projects.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectRecord, len(projects))
	for i, p := range projects {
		out[i] = ProjectRecordOf(p)
	}
	return out, nil
}

func (pr projectResource) get(ctx context.Context, id string) (any, error) {
	p, err := pr.projects.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return ProjectRecordOf(*p), nil
}

func (pr projectResource) create(ctx context.Context, body *json.Decoder) (any, error) {
	var w ProjectWrite
	if err := body.Decode(&w); err != nil {
		return nil, badBody(store.EntityProject, store.OpCreate, err)
	}
	p, err := pr.projects.Create(ctx, w.Input())
	if err != nil {
		return nil, err
	}
	return ProjectRecordOf(*p), nil
}

func (pr projectResource) update(ctx context.Context, id string, body *json.Decoder) (any, error) {
	var w ProjectWrite
	if err := body.Decode(&w); err != nil {
		return nil, badBody(store.EntityProject, store.OpUpdate, err)
	}
	p, err := pr.projects.Update(ctx, id, w.Patch())
	if err != nil {
		return nil, err
	}
	return ProjectRecordOf(*p), nil
}

func (pr projectResource) delete(ctx context.Context, id string) error {
	return pr.projects.Delete(ctx, id)
}

type templateResource struct {
	templates store.TemplateStore
}

func (tr templateResource) list(ctx context.Context, _ url.Values) (any, error) {
	templates, err := tr.templates.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateRecord, len(templates))
	for i, t := range templates {
		out[i] = TemplateRecordOf(t)
	}
	return out, nil
}

func (tr templateResource) get(ctx context.Context, id string) (any, error) {
	t, err := tr.templates.GetByID(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	return TemplateRecordOf(*t), nil
}

func (tr templateResource) create(ctx context.Context, body *json.Decoder) (any, error) {
	var w TemplateWrite
	if err := body.Decode(&w); err != nil {
		return nil, badBody(store.EntityTemplate, store.OpCreate, err)
	}
	t, err := tr.templates.Create(ctx, w.Input())
	if err != nil {
		return nil, err
	}
	return TemplateRecordOf(*t), nil
}

func (tr templateResource) update(ctx context.Context, id string, body *json.Decoder) (any, error) {
	var w TemplateWrite
	if err := body.Decode(&w); err != nil {
		return nil, badBody(store.EntityTemplate, store.OpUpdate, err)
	}
	t, err := tr.templates.Update(ctx, id, w.Patch())
	if err != nil {
		return nil, err
	}
	return TemplateRecordOf(*t), nil
}

func (tr templateResource) delete(ctx context.Context, id string) error {
	return tr.templates.Delete(ctx, id)
}
