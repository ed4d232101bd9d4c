package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/quill/internal/controller"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/ui/keys"
	"github.com/tgienger/quill/internal/ui/styles"
)

// template form fields
const (
	templateName = iota
	templateTitle
	templateDescription
	templateTarget
	templateDays
)

// TemplatesView manages task presets
type TemplatesView struct {
	ctrl   *controller.Templates
	snap   controller.TemplatesView
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int
	cursor int

	form        *form
	editing     bool
	editingID   string
	pendingSave bool

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	showHelpPopup bool
}

func NewTemplatesView(ctrl *controller.Templates) *TemplatesView {
	s := styles.NewStyles()
	k := keys.DefaultKeyMap()
	f := newForm("New Template", s, k).
		text("Name", "Template name", 100).
		text("Task title", "Prefilled title (optional)", 200).
		area("Description", "Prefilled description", 1000, 3).
		text("Word target", "0", 7).
		text("Deadline (days from today)", "0", 4)

	return &TemplatesView{
		ctrl:   ctrl,
		snap:   ctrl.View(),
		styles: s,
		keys:   k,
		form:   f,
	}
}

func (v *TemplatesView) Name() string  { return PageTemplates }
func (v *TemplatesView) Title() string { return "Templates" }

func (v *TemplatesView) TakeNotice() (controller.Notice, bool) { return v.ctrl.TakeNotice() }

func (v *TemplatesView) Capturing() bool {
	return v.editing || v.confirmingDelete || v.showHelpPopup
}

func (v *TemplatesView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.form.setWidth(width)
}

func (v *TemplatesView) Init() tea.Cmd   { return v.Reload() }
func (v *TemplatesView) Reload() tea.Cmd { return run(PageTemplates, v.ctrl.Load) }

func (v *TemplatesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)

	case DoneMsg:
		if msg.Page != PageTemplates {
			return v, nil
		}
		if v.pendingSave {
			v.pendingSave = false
			if msg.Err == nil {
				v.editing = false
			}
		}
		v.snap = v.ctrl.View()
		if v.cursor >= len(v.snap.Templates) {
			v.cursor = max(0, len(v.snap.Templates)-1)
		}

	case tea.KeyMsg:
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
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *TemplatesView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tpls := v.snap.Templates
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(tpls)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.New):
		return v, v.startForm(models.Template{})
	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if v.cursor < len(tpls) {
			return v, v.startForm(tpls[v.cursor])
		}
	case key.Matches(msg, v.keys.Delete):
		if v.cursor < len(tpls) {
			v.confirmingDelete = true
			v.deleteTargetID = tpls[v.cursor].ID
			v.deleteTargetName = tpls[v.cursor].Name
		}
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}
	return v, nil
}

func (v *TemplatesView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		return v, run(PageTemplates, func(ctx context.Context) error {
			return v.ctrl.Delete(ctx, id)
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *TemplatesView) startForm(t models.Template) tea.Cmd {
	v.editing = true
	v.editingID = t.ID
	v.form.title = "New Template"
	if t.ID != "" {
		v.form.title = "Edit Template"
	}
	v.form.set(templateName, t.Name)
	v.form.set(templateTitle, t.Title)
	v.form.set(templateDescription, t.Description)
	v.form.set(templateTarget, strconv.Itoa(t.WordCountTarget))
	v.form.set(templateDays, strconv.Itoa(t.DeadlineDays))
	return v.form.start()
}

func (v *TemplatesView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.pendingSave {
		return v, nil
	}
	res, cmd := v.form.update(msg)
	switch res {
	case formCancelled:
		v.editing = false
		return v, nil
	case formSubmitted:
		return v, v.saveTemplate()
	}
	return v, cmd
}

func (v *TemplatesView) saveTemplate() tea.Cmd {
	f := v.form
	target, err := parseCount("wordCountTarget", f.value(templateTarget))
	if err != nil {
		v.ctrl.Notify(err.Error(), controller.SeverityError)
		return nil
	}
	days, err := parseCount("deadline", f.value(templateDays))
	if err != nil {
		v.ctrl.Notify(err.Error(), controller.SeverityError)
		return nil
	}
	name := f.value(templateName)
	title := f.value(templateTitle)
	desc := f.value(templateDescription)
	id := v.editingID
	v.pendingSave = true

	return run(PageTemplates, func(ctx context.Context) error {
		if id == "" {
			_, err := v.ctrl.Create(ctx, models.TemplateInput{
				Name: name, Title: title, Description: desc, WordCountTarget: target, DeadlineDays: days,
			})
			return err
		}
		_, err := v.ctrl.Update(ctx, id, models.TemplatePatch{
			Name: &name, Title: &title, Description: &desc, WordCountTarget: &target, DeadlineDays: &days,
		})
		return err
	})
}

func (v *TemplatesView) View() string {
	if v.showHelpPopup {
		return helpPopup(v.styles, v.width, v.height,
			"n", "new template",
			"e/↵", "edit template",
			"d", "delete template",
			"1-5", "switch view",
			"q", "quit",
		)
	}
	if v.confirmingDelete {
		return confirm(v.styles, v.width, v.height, "Delete Template?",
			fmt.Sprintf("Are you sure you want to delete %q?", v.deleteTargetName))
	}
	if v.editing {
		return v.form.view(v.height)
	}
	if out, ok := stateView(v.styles, v.width, v.height, v.snap.State); !ok {
		return out
	}

	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)
	rows := []string{s.Title.Render("Templates"), ""}
	if len(v.snap.Templates) == 0 {
		rows = append(rows, s.TitleMuted.Render("No templates. Press 'n' to create one."))
	}
	for i, t := range v.snap.Templates {
		lineStyle := s.ListItem
		if i == v.cursor {
			lineStyle = s.ListSelected
		}
		detail := fmt.Sprintf("%d words • due in %d days", t.WordCountTarget, t.DeadlineDays)
		if t.Title != "" {
			detail = "“" + truncate(t.Title, 30) + "” • " + detail
		}
		rows = append(rows,
			lineStyle.Width(width).Render(t.Name),
			lineStyle.Foreground(styles.Current.ForegroundDim).Width(width).Render(detail),
			"",
		)
	}
	rows = append(rows, help(s, v.width, "n", "new", "e", "edit", "d", "del", "q", "quit"))
	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, rows...), v.width, v.height)
}
