package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/recordapi"
	"github.com/tgienger/quill/internal/store"
)

func recordsPath(table string) string {
	return "/api/records/" + table
}

func recordPath(table, id string) string {
	return "/api/records/" + table + "/" + url.PathEscape(id)
}

// TaskStore implements store.TaskStore over the record API
type TaskStore struct {
	c *Client
}

var _ store.TaskStore = (*TaskStore)(nil)

func (s *TaskStore) list(ctx context.Context, query url.Values) ([]models.Task, error) {
	path := recordsPath(recordapi.TableTasks)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var records []recordapi.TaskRecord
	if err := s.c.call(ctx, store.EntityTask, store.OpGetAll, "", http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	tasks := make([]models.Task, len(records))
	for i, r := range records {
		tasks[i] = r.Task()
	}
	return tasks, nil
}

func (s *TaskStore) GetAll(ctx context.Context) ([]models.Task, error) {
	return s.list(ctx, nil)
}

func (s *TaskStore) GetByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return s.list(ctx, url.Values{"project_id": {projectID}})
}

func (s *TaskStore) GetByStatus(ctx context.Context, status models.Status) ([]models.Task, error) {
	return s.list(ctx, url.Values{"status": {string(status)}})
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var r recordapi.TaskRecord
	found, err := s.c.get(ctx, store.EntityTask, recordPath(recordapi.TableTasks, id), id, &r)
	if !found {
		return nil, err
	}
	t := r.Task()
	return &t, nil
}

func (s *TaskStore) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTask, store.OpCreate, err)
	}
	var r recordapi.TaskRecord
	body := recordapi.TaskWriteOf(in.Patch())
	if err := s.c.call(ctx, store.EntityTask, store.OpCreate, "", http.MethodPost, recordsPath(recordapi.TableTasks), body, &r); err != nil {
		return nil, err
	}
	t := r.Task()
	return &t, nil
}

func (s *TaskStore) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTask, store.OpUpdate, err)
	}
	var r recordapi.TaskRecord
	body := recordapi.TaskWriteOf(patch)
	if err := s.c.call(ctx, store.EntityTask, store.OpUpdate, id, http.MethodPatch, recordPath(recordapi.TableTasks, id), body, &r); err != nil {
		return nil, err
	}
	t := r.Task()
	return &t, nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return s.c.call(ctx, store.EntityTask, store.OpDelete, id, http.MethodDelete, recordPath(recordapi.TableTasks, id), nil, nil)
}

// ProjectStore implements store.ProjectStore over the record API
type ProjectStore struct {
	c *Client
}

var _ store.ProjectStore = (*ProjectStore)(nil)

func (s *ProjectStore) GetAll(ctx context.Context) ([]models.Project, error) {
	var records []recordapi.ProjectRecord
	if err := s.c.call(ctx, store.EntityProject, store.OpGetAll, "", http.MethodGet, recordsPath(recordapi.TableProjects), nil, &records); err != nil {
		return nil, err
	}
	projects := make([]models.Project, len(records))
	for i, r := range records {
		projects[i] = r.Project()
	}
	return projects, nil
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var r recordapi.ProjectRecord
	found, err := s.c.get(ctx, store.EntityProject, recordPath(recordapi.TableProjects, id), id, &r)
	if !found {
		return nil, err
	}
	p := r.Project()
	return &p, nil
}

func (s *ProjectStore) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityProject, store.OpCreate, err)
	}
	var r recordapi.ProjectRecord
	body := recordapi.ProjectWrite{Name: &in.Name, Description: &in.Description, Color: &in.Color}
	if err := s.c.call(ctx, store.EntityProject, store.OpCreate, "", http.MethodPost, recordsPath(recordapi.TableProjects), body, &r); err != nil {
		return nil, err
	}
	p := r.Project()
	return &p, nil
}

func (s *ProjectStore) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityProject, store.OpUpdate, err)
	}
	var r recordapi.ProjectRecord
	body := recordapi.ProjectWriteOf(patch)
	if err := s.c.call(ctx, store.EntityProject, store.OpUpdate, id, http.MethodPatch, recordPath(recordapi.TableProjects, id), body, &r); err != nil {
		return nil, err
	}
	p := r.Project()
	return &p, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	return s.c.call(ctx, store.EntityProject, store.OpDelete, id, http.MethodDelete, recordPath(recordapi.TableProjects, id), nil, nil)
}

func (s *ProjectStore) AdjustTaskCount(ctx context.Context, id string, delta int) error {
	if id == "" {
		return nil
	}
	path := recordPath(recordapi.TableProjects, id) + "/task_count"
	err := s.c.call(ctx, store.EntityProject, store.OpUpdate, id, http.MethodPost, path, recordapi.TaskCountDelta{Delta: delta}, nil)
	if store.KindOf(err) == store.ErrNotFound {
		return nil
	}
	return err
}

// TemplateStore implements store.TemplateStore over the record API
type TemplateStore struct {
	c *Client
}

var _ store.TemplateStore = (*TemplateStore)(nil)

func (s *TemplateStore) GetAll(ctx context.Context) ([]models.Template, error) {
	var records []recordapi.TemplateRecord
	if err := s.c.call(ctx, store.EntityTemplate, store.OpGetAll, "", http.MethodGet, recordsPath(recordapi.TableTemplates), nil, &records); err != nil {
		return nil, err
	}
	templates := make([]models.Template, len(records))
	for i, r := range records {
		templates[i] = r.Template()
	}
	return templates, nil
}

func (s *TemplateStore) GetByID(ctx context.Context, id string) (*models.Template, error) {
	var r recordapi.TemplateRecord
	found, err := s.c.get(ctx, store.EntityTemplate, recordPath(recordapi.TableTemplates, id), id, &r)
	if !found {
		return nil, err
	}
	t := r.Template()
	return &t, nil
}

func (s *TemplateStore) Create(ctx context.Context, in models.TemplateInput) (*models.Template, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTemplate, store.OpCreate, err)
	}
	var r recordapi.TemplateRecord
	body := recordapi.TemplateWrite{
		Name:            &in.Name,
		Title:           &in.Title,
		Description:     &in.Description,
		WordCountTarget: &in.WordCountTarget,
		DeadlineDays:    &in.DeadlineDays,
	}
	if err := s.c.call(ctx, store.EntityTemplate, store.OpCreate, "", http.MethodPost, recordsPath(recordapi.TableTemplates), body, &r); err != nil {
		return nil, err
	}
	t := r.Template()
	return &t, nil
}

func (s *TemplateStore) Update(ctx context.Context, id string, patch models.TemplatePatch) (*models.Template, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTemplate, store.OpUpdate, err)
	}
	var r recordapi.TemplateRecord
	body := recordapi.TemplateWriteOf(patch)
	if err := s.c.call(ctx, store.EntityTemplate, store.OpUpdate, id, http.MethodPatch, recordPath(recordapi.TableTemplates, id), body, &r); err != nil {
		return nil, err
	}
	t := r.Template()
	return &t, nil
}

func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	return s.c.call(ctx, store.EntityTemplate, store.OpDelete, id, http.MethodDelete, recordPath(recordapi.TableTemplates, id), nil, nil)
}
