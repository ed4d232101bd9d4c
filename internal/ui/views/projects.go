package views

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/quill/internal/controller"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/ui/keys"
	"github.com/tgienger/quill/internal/ui/styles"
)

// project form fields
const (
	projectName = iota
	projectDescription
	projectColor
)

type projectItem struct {
	row controller.ProjectRow
}

func (i projectItem) Title() string       { return i.row.Name }
func (i projectItem) Description() string { return i.row.Project.Description }
func (i projectItem) FilterValue() string { return i.row.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	sum := p.row.Summary
	dot := lipgloss.NewStyle().Foreground(styles.ProjectColor(p.row.Color)).Render("●")
	title := titleStyle.Render(dot + " " + p.Title())
	desc := descStyle.Render(fmt.Sprintf("%d tasks • %d in progress • %d published • %d words",
		sum.Total, sum.InProgress, sum.Completed, sum.TotalWords))

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// ProjectsView lists projects with their summaries
type ProjectsView struct {
	ctrl     *controller.Projects
	snap     controller.ProjectsView
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	form        *form
	editing     bool
	editingID   string
	pendingSave bool

	// Detail view listing the project's tasks
	viewingID string
	cursor    int

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

func NewProjectsView(ctrl *controller.Projects) *ProjectsView {
	s := styles.NewStyles()
	k := keys.DefaultKeyMap()

	// Setup custom delegate
	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	colors := make([]choice, len(models.Palette))
	for i, c := range models.Palette {
		colors[i] = choice{label: c, value: c, color: lipgloss.Color(c)}
	}
	f := newForm("New Project", s, k).
		text("Name", "Project name", 100).
		text("Description", "Description (optional)", 500).
		choice("Color", colors)

	return &ProjectsView{
		ctrl:     ctrl,
		snap:     ctrl.View(),
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     k,
		form:     f,
	}
}

func (v *ProjectsView) Name() string  { return PageProjects }
func (v *ProjectsView) Title() string { return "Projects" }

func (v *ProjectsView) TakeNotice() (controller.Notice, bool) { return v.ctrl.TakeNotice() }

func (v *ProjectsView) Capturing() bool {
	return v.editing || v.confirmingDelete || v.showHelpPopup || v.list.FilterState() == list.Filtering
}

func (v *ProjectsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	// Use content width (capped at MaxWidth) for internal layout
	contentWidth := styles.ContentWidth(width)
	v.delegate.width = contentWidth
	v.list.SetSize(contentWidth-4, height-6)
	v.form.setWidth(width)
}

func (v *ProjectsView) Init() tea.Cmd {
	return v.Reload()
}

func (v *ProjectsView) Reload() tea.Cmd {
	return run(PageProjects, v.ctrl.Load)
}

func (v *ProjectsView) refresh() {
	v.snap = v.ctrl.View()
	items := make([]list.Item, len(v.snap.Rows))
	for i, r := range v.snap.Rows {
		items[i] = projectItem{row: r}
	}
	v.list.SetItems(items)
	if v.viewingID != "" {
		if _, ok := v.project(v.viewingID); !ok {
			v.viewingID = ""
		}
	}
}

func (v *ProjectsView) project(id string) (controller.ProjectRow, bool) {
	for _, r := range v.snap.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return controller.ProjectRow{}, false
}

func (v *ProjectsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case DoneMsg:
		if msg.Page != PageProjects {
			return v, nil
		}
		if v.pendingSave {
			v.pendingSave = false
			if msg.Err == nil {
				v.editing = false
			}
		}
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.viewingID != "" {
			return v.updateViewing(msg)
		}

		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.New):
			return v, v.startForm(models.Project{})
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.viewingID = item.row.ID
				v.cursor = 0
			}
			return v, nil
		case key.Matches(msg, v.keys.Edit):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, v.startForm(item.row.Project)
			}
			return v, nil
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.row.ID
				v.deleteTargetName = item.row.Name
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectsView) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := v.ctrl.Tasks(v.viewingID)
	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingID = ""
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(tasks)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Edit):
		if p, ok := v.project(v.viewingID); ok {
			return v, v.startForm(p.Project)
		}
	case key.Matches(msg, v.keys.Delete):
		if p, ok := v.project(v.viewingID); ok {
			v.confirmingDelete = true
			v.deleteTargetID = p.ID
			v.deleteTargetName = p.Name
		}
	}
	return v, nil
}

func (v *ProjectsView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewingID = ""
		id := v.deleteTargetID
		return v, run(PageProjects, func(ctx context.Context) error {
			return v.ctrl.Delete(ctx, id)
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectsView) startForm(p models.Project) tea.Cmd {
	v.editing = true
	v.editingID = p.ID
	v.form.title = "New Project"
	if p.ID != "" {
		v.form.title = "Edit Project"
	}
	v.form.set(projectName, p.Name)
	v.form.set(projectDescription, p.Description)
	v.form.set(projectColor, p.Color)
	return v.form.start()
}

func (v *ProjectsView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.pendingSave {
		return v, nil
	}
	res, cmd := v.form.update(msg)
	switch res {
	case formCancelled:
		v.editing = false
		return v, nil
	case formSubmitted:
		return v, v.saveProject()
	}
	return v, cmd
}

func (v *ProjectsView) saveProject() tea.Cmd {
	name := v.form.value(projectName)
	desc := v.form.value(projectDescription)
	color := v.form.value(projectColor)
	id := v.editingID
	v.pendingSave = true

	return run(PageProjects, func(ctx context.Context) error {
		if id == "" {
			_, err := v.ctrl.Create(ctx, models.ProjectInput{Name: name, Description: desc, Color: color})
			return err
		}
		_, err := v.ctrl.Update(ctx, id, models.ProjectPatch{Name: &name, Description: &desc, Color: &color})
		return err
	})
}

// View renders the view
func (v *ProjectsView) View() string {
	if v.showHelpPopup {
		return helpPopup(v.styles, v.width, v.height,
			"↵", "show project tasks",
			"n", "new project",
			"e", "edit project",
			"d", "delete project",
			"/", "filter projects",
			"1-5", "switch view",
			"q", "quit",
		)
	}

	if v.confirmingDelete {
		return confirm(v.styles, v.width, v.height, "Delete Project?",
			fmt.Sprintf("%q will be deleted. Its tasks are kept as unassigned.", v.deleteTargetName))
	}

	if v.editing {
		return v.form.view(v.height)
	}

	if out, ok := stateView(v.styles, v.width, v.height, v.snap.State); !ok {
		return out
	}

	if v.viewingID != "" {
		return v.renderProject()
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + help(v.styles, v.width,
		"↵", "tasks", "n", "new", "e", "edit", "d", "del", "/", "filter", "q", "quit")
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectsView) renderEmpty() string {
	s := v.styles
	return centered(v.width, v.height, lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
		"",
		s.ButtonPrimary.Render(" New Project "),
	))
}

func (v *ProjectsView) renderProject() string {
	p, ok := v.project(v.viewingID)
	if !ok {
		return ""
	}
	s := v.styles
	tasks := v.ctrl.Tasks(p.ID)

	dot := lipgloss.NewStyle().Foreground(styles.ProjectColor(p.Color)).Render("●")
	rows := []string{
		s.Title.Render(dot + " " + p.Name),
	}
	if p.Project.Description != "" {
		rows = append(rows, s.TitleMuted.Render(p.Project.Description))
	}
	rows = append(rows, "",
		fmt.Sprintf("%s tasks  %s in progress  %s published  %s words",
			s.StatValue.Render(fmt.Sprint(p.Summary.Total)),
			s.StatValue.Render(fmt.Sprint(p.Summary.InProgress)),
			s.StatValue.Render(fmt.Sprint(p.Summary.Completed)),
			s.StatValue.Render(fmt.Sprint(p.Summary.TotalWords)),
		), "")

	if len(tasks) == 0 {
		rows = append(rows, s.TitleMuted.Render("No tasks in this project yet."))
	}
	for i, r := range tasks {
		rows = append(rows, renderTaskRow(s, v.width, r, i == v.cursor))
	}
	rows = append(rows, help(s, v.width, "e", "edit", "d", "delete", "esc", "back"))

	padded := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(padded, v.width, v.height)
}
