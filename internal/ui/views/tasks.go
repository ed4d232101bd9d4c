package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/quill/internal/controller"
	"github.com/tgienger/quill/internal/derive"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/ui/keys"
	"github.com/tgienger/quill/internal/ui/styles"
)

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusSearchInput FocusArea = iota
	FocusStatusDropdown
	FocusTaskList
	focusAreas
)

// task form fields
const (
	taskTitle = iota
	taskDescription
	taskProject
	taskStatus
	taskDeadline
	taskTarget
	taskComplete
	taskNotes
)

// statusFilters are the options of the status dropdown
var statusFilters = append([]derive.StatusFilter{derive.FilterAll},
	derive.StatusFilter(models.StatusIdeas),
	derive.StatusFilter(models.StatusDrafting),
	derive.StatusFilter(models.StatusEditing),
	derive.StatusFilter(models.StatusSubmitted),
	derive.StatusFilter(models.StatusPublished),
)

// TasksView is the home page: stats, the filtered task list and task editing
type TasksView struct {
	ctrl   *controller.Tasks
	snap   controller.TasksView
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model

	// Status dropdown state
	statusDropdownOpen bool
	statusCursor       int

	// Task creation/editing; editingID is empty for a new task
	form        *form
	editing     bool
	editingID   string
	pendingSave bool

	// Task view mode (read-only detail view)
	viewingTask bool
	viewingID   string

	// Add words prompt
	addingWords bool
	wordsInput  textinput.Model

	// Template picker
	pickingTemplate bool
	templateCursor  int

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTasksView creates the home page
func NewTasksView(ctrl *controller.Tasks) *TasksView {
	s := styles.NewStyles()
	k := keys.DefaultKeyMap()

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	words := textinput.New()
	words.Placeholder = "Words written"
	words.CharLimit = 7

	f := newForm("New Task", s, k).
		text("Title", "Task title", 200).
		area("Description", "Description", 1000, 3).
		choice("Project", nil).
		choice("Status", statusChoices()).
		text("Deadline", "YYYY-MM-DD", 10).
		text("Word target", "0", 7).
		text("Words written", "0", 7).
		area("Notes", "Notes", 5000, 4)

	return &TasksView{
		ctrl:        ctrl,
		snap:        ctrl.View(),
		styles:      s,
		keys:        k,
		focus:       FocusTaskList,
		searchInput: search,
		wordsInput:  words,
		form:        f,
	}
}

func statusChoices() []choice {
	out := make([]choice, len(models.Statuses))
	for i, st := range models.Statuses {
		out[i] = choice{label: st.Label(), value: string(st), color: styles.StatusColor(st)}
	}
	return out
}

func projectChoices(projects []models.Project) []choice {
	out := []choice{{label: "Unassigned", value: ""}}
	for _, p := range projects {
		out = append(out, choice{label: p.Name, value: p.ID, color: styles.ProjectColor(p.Color)})
	}
	return out
}

func (v *TasksView) Name() string  { return PageTasks }
func (v *TasksView) Title() string { return "Tasks" }

func (v *TasksView) TakeNotice() (controller.Notice, bool) { return v.ctrl.TakeNotice() }

func (v *TasksView) Capturing() bool {
	return v.editing || v.addingWords || v.focus == FocusSearchInput || v.confirmingDelete ||
		v.pickingTemplate || v.statusDropdownOpen || v.showHelpPopup
}

func (v *TasksView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.form.setWidth(width)
}

// Init initializes the view
func (v *TasksView) Init() tea.Cmd {
	return v.Reload()
}

func (v *TasksView) Reload() tea.Cmd {
	return run(PageTasks, v.ctrl.Load)
}

func (v *TasksView) refresh() {
	v.snap = v.ctrl.View()
	if v.cursor >= len(v.snap.Rows) {
		v.cursor = max(0, len(v.snap.Rows)-1)
	}
	v.ensureVisible()
	if v.viewingTask {
		if _, ok := v.row(v.viewingID); !ok {
			v.viewingTask = false
		}
	}
}

func (v *TasksView) selected() (controller.TaskRow, bool) {
	if v.cursor < 0 || v.cursor >= len(v.snap.Rows) {
		return controller.TaskRow{}, false
	}
	return v.snap.Rows[v.cursor], true
}

func (v *TasksView) row(id string) (controller.TaskRow, bool) {
	for _, r := range v.snap.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return controller.TaskRow{}, false
}

// Update handles messages
func (v *TasksView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case DoneMsg:
		if msg.Page != PageTasks {
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

		if v.addingWords {
			return v.updateAddingWords(msg)
		}

		if v.pickingTemplate {
			return v.updatePickingTemplate(msg)
		}

		if v.statusDropdownOpen {
			return v.updateStatusDropdown(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TasksView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus(1)
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.ctrl.SetQuery(v.searchInput.Value())
			v.cursor, v.scrollY = 0, 0
			v.refresh()
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.snap.Rows)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusStatusDropdown:
			v.openStatusDropdown()
		case FocusTaskList:
			if r, ok := v.selected(); ok {
				v.viewingTask = true
				v.viewingID = r.ID
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusStatusDropdown
		v.openStatusDropdown()
		return v, nil

	case key.Matches(msg, v.keys.New):
		return v, v.startNewTask(models.TaskInput{Status: models.StatusDrafting})

	case key.Matches(msg, v.keys.Template):
		if len(v.snap.Templates) > 0 {
			v.pickingTemplate = true
			v.templateCursor = 0
		}
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	if v.focus != FocusTaskList {
		return v, nil
	}
	r, ok := v.selected()
	if !ok {
		return v, nil
	}
	return v, v.rowAction(msg, r)
}

// rowAction handles the keys that act on one task, from the list or the
// detail view
func (v *TasksView) rowAction(msg tea.KeyMsg, r controller.TaskRow) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Edit):
		return v.startEditTask(r.Task)

	case key.Matches(msg, v.keys.Delete):
		v.confirmingDelete = true
		v.deleteTargetID = r.ID
		v.deleteTargetName = r.Title
		return nil

	case key.Matches(msg, v.keys.Advance):
		id := r.ID
		return run(PageTasks, func(ctx context.Context) error {
			_, err := v.ctrl.AdvanceStatus(ctx, id)
			return err
		})

	case key.Matches(msg, v.keys.AddWords):
		v.addingWords = true
		v.viewingID = r.ID
		v.wordsInput.Reset()
		v.wordsInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (v *TasksView) openStatusDropdown() {
	v.statusDropdownOpen = true
	v.statusCursor = 0
	for i, f := range statusFilters {
		if f == v.snap.Filter {
			v.statusCursor = i
		}
	}
}

func (v *TasksView) updateStatusDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.statusDropdownOpen = false
	case key.Matches(msg, v.keys.Up):
		if v.statusCursor > 0 {
			v.statusCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.statusCursor < len(statusFilters)-1 {
			v.statusCursor++
		}
	case key.Matches(msg, v.keys.Enter):
		v.ctrl.SetFilter(statusFilters[v.statusCursor])
		v.statusDropdownOpen = false
		v.focus = FocusTaskList
		v.cursor, v.scrollY = 0, 0
		v.refresh()
	}
	return v, nil
}

func (v *TasksView) updatePickingTemplate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.pickingTemplate = false
	case key.Matches(msg, v.keys.Up):
		if v.templateCursor > 0 {
			v.templateCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.templateCursor < len(v.snap.Templates)-1 {
			v.templateCursor++
		}
	case key.Matches(msg, v.keys.Enter):
		v.pickingTemplate = false
		if v.templateCursor < len(v.snap.Templates) {
			if in, ok := v.ctrl.FromTemplate(v.snap.Templates[v.templateCursor].ID); ok {
				return v, v.startNewTask(in)
			}
		}
	}
	return v, nil
}

func (v *TasksView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewingTask = false
		id := v.deleteTargetID
		return v, run(PageTasks, func(ctx context.Context) error {
			return v.ctrl.Delete(ctx, id)
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TasksView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Back) {
		v.viewingTask = false
		return v, nil
	}
	r, ok := v.row(v.viewingID)
	if !ok {
		v.viewingTask = false
		return v, nil
	}
	return v, v.rowAction(msg, r)
}

func (v *TasksView) updateAddingWords(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.addingWords = false
		v.wordsInput.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		v.addingWords = false
		v.wordsInput.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(v.wordsInput.Value()))
		if err != nil {
			v.ctrl.Notify("words: must be a whole number", controller.SeverityError)
			return v, nil
		}
		id := v.viewingID
		return v, run(PageTasks, func(ctx context.Context) error {
			_, err := v.ctrl.AddWords(ctx, id, n)
			return err
		})
	}

	var cmd tea.Cmd
	v.wordsInput, cmd = v.wordsInput.Update(msg)
	return v, cmd
}

func (v *TasksView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.pendingSave {
		return v, nil
	}
	res, cmd := v.form.update(msg)
	switch res {
	case formCancelled:
		v.editing = false
		return v, nil
	case formSubmitted:
		return v, v.saveTask()
	}
	return v, cmd
}

func (v *TasksView) cycleFocus(dir int) {
	// Blur current
	v.searchInput.Blur()

	// Cycle
	v.focus = FocusArea((int(v.focus) + dir + int(focusAreas)) % int(focusAreas))

	// Focus search if needed
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

// visibleItems is how many two-line rows fit under the header
func (v *TasksView) visibleItems() int {
	availableHeight := max(v.height-16, 3)
	return max(availableHeight/3, 1)
}

func (v *TasksView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TasksView) startNewTask(in models.TaskInput) tea.Cmd {
	v.editing = true
	v.editingID = ""
	v.form.title = "New Task"
	v.fillForm(in)
	return v.form.start()
}

func (v *TasksView) startEditTask(t models.Task) tea.Cmd {
	v.editing = true
	v.editingID = t.ID
	v.form.title = "Edit Task"
	v.fillForm(models.TaskInput{
		Title:             t.Title,
		Description:       t.Description,
		ProjectID:         t.ProjectID,
		Status:            t.Status,
		Deadline:          t.Deadline,
		WordCountTarget:   t.WordCountTarget,
		WordCountComplete: t.WordCountComplete,
		Notes:             t.Notes,
	})
	return v.form.start()
}

func (v *TasksView) fillForm(in models.TaskInput) {
	f := v.form
	f.setChoices(taskProject, projectChoices(v.snap.Projects))
	f.set(taskTitle, in.Title)
	f.set(taskDescription, in.Description)
	f.set(taskProject, in.ProjectID)
	f.set(taskStatus, string(in.Status))
	deadline := ""
	if !in.Deadline.IsZero() {
		deadline = in.Deadline.String()
	}
	f.set(taskDeadline, deadline)
	f.set(taskTarget, strconv.Itoa(in.WordCountTarget))
	f.set(taskComplete, strconv.Itoa(in.WordCountComplete))
	f.set(taskNotes, in.Notes)
}

// formInput reads the form. Parse failures are reported as notices.
func (v *TasksView) formInput() (models.TaskInput, bool) {
	f := v.form
	deadline, err := parseDeadline(f.value(taskDeadline))
	if err != nil {
		v.ctrl.Notify(err.Error(), controller.SeverityError)
		return models.TaskInput{}, false
	}
	target, err := parseCount("wordCountTarget", f.value(taskTarget))
	if err != nil {
		v.ctrl.Notify(err.Error(), controller.SeverityError)
		return models.TaskInput{}, false
	}
	complete, err := parseCount("wordCountComplete", f.value(taskComplete))
	if err != nil {
		v.ctrl.Notify(err.Error(), controller.SeverityError)
		return models.TaskInput{}, false
	}
	return models.TaskInput{
		Title:             f.value(taskTitle),
		Description:       f.value(taskDescription),
		ProjectID:         f.value(taskProject),
		Status:            models.Status(f.value(taskStatus)),
		Deadline:          deadline,
		WordCountTarget:   target,
		WordCountComplete: complete,
		Notes:             f.value(taskNotes),
	}, true
}

func (v *TasksView) saveTask() tea.Cmd {
	in, ok := v.formInput()
	if !ok {
		return nil
	}
	v.pendingSave = true
	id := v.editingID
	return run(PageTasks, func(ctx context.Context) error {
		if id == "" {
			_, err := v.ctrl.Create(ctx, in)
			return err
		}
		_, err := v.ctrl.Save(ctx, id, in)
		return err
	})
}

// View renders the view
func (v *TasksView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return confirm(v.styles, v.width, v.height, "Delete Task?",
			fmt.Sprintf("Are you sure you want to delete %q?", v.deleteTargetName))
	}

	if v.editing {
		return v.form.view(v.height)
	}

	if v.addingWords {
		return v.renderAddWords()
	}

	if v.pickingTemplate {
		return v.renderTemplatePicker()
	}

	if out, ok := stateView(v.styles, v.width, v.height, v.snap.State); !ok {
		return out
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder

	b.WriteString(v.renderStats())
	b.WriteString("\n")
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TasksView) renderStats() string {
	s := v.styles
	st := v.snap.Stats

	card := func(label string, value string) string {
		return s.Stat.Render(s.StatValue.Render(value) + " " + s.TitleMuted.Render(label))
	}
	cards := []string{card("tasks", strconv.Itoa(st.Total))}
	for _, status := range models.Statuses {
		if styles.ContentWidth(v.width) < 70 && status != models.StatusDrafting {
			continue
		}
		cards = append(cards, card(status.Label(), strconv.Itoa(st.Count(status))))
	}
	cards = append(cards, card("words", fmt.Sprintf("%d%%", st.WordsCompletePercent())))
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (v *TasksView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	// Search input - dynamic width
	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 10, 30)
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	// Status filter dropdown
	filterStyle := s.Button
	if v.focus == FocusStatusDropdown {
		filterStyle = s.ButtonFocused
	}
	filterLabel := "All"
	if v.snap.Filter != derive.FilterAll && v.snap.Filter != "" {
		filterLabel = models.Status(v.snap.Filter).Label()
	}
	if !isNarrow {
		filterLabel = "Status: " + filterLabel
	}
	filterBtn := filterStyle.Render(filterLabel + " ▼")

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, filterBtn)
	} else {
		header = lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", filterBtn)
	}

	dropdown := ""
	if v.statusDropdownOpen {
		dropdown = "\n" + v.renderStatusDropdown()
	}
	return header + dropdown
}

func (v *TasksView) renderStatusDropdown() string {
	s := v.styles
	var items []string
	for i, f := range statusFilters {
		itemStyle := s.ListItem
		if v.statusCursor == i {
			itemStyle = s.ListSelected
		}
		label := "All"
		if f != derive.FilterAll {
			st := models.Status(f)
			label = lipgloss.NewStyle().Foreground(styles.StatusColor(st)).Render("●") + " " + st.Label()
		}
		items = append(items, itemStyle.Render(label))
	}
	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TasksView) renderTaskList() string {
	s := v.styles

	if len(v.snap.Rows) == 0 {
		if v.snap.Query != "" || (v.snap.Filter != derive.FilterAll && v.snap.Filter != "") {
			return s.TitleMuted.Render("No tasks match the current filter.")
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.snap.Rows))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, renderTaskRow(s, v.width, v.snap.Rows[i], i == v.cursor && v.focus == FocusTaskList))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderTaskRow renders a task as two lines: title and status, then project,
// deadline and progress
func renderTaskRow(s *styles.Styles, termWidth int, r controller.TaskRow, selected bool) string {
	width := max(styles.ContentWidth(termWidth)-4, 20)

	project := s.TitleMuted.Render("Unassigned")
	if r.HasProject {
		project = lipgloss.NewStyle().Foreground(styles.ProjectColor(r.Project.Color)).Render("● " + r.Project.Name)
	}
	due := lipgloss.NewStyle().Foreground(styles.UrgencyColor(r.Urgency)).Render(r.DueLabel)
	progress := styles.ProgressBar(r.Progress, 10) + " " +
		s.TitleMuted.Render(fmt.Sprintf("%d/%d", r.WordCountComplete, r.WordCountTarget))

	badge := s.StatusBadge(r.Status)
	titleLine := truncate(r.Title, width-lipgloss.Width(badge)-2) + " " + badge
	metaLine := project + "  " + due + "  " + progress

	lineStyle := s.ListItem
	if selected {
		lineStyle = s.ListSelected
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lineStyle.Width(width).Render(titleLine),
		lineStyle.Width(width).Render(metaLine),
	) + "\n"
}

func (v *TasksView) renderTemplatePicker() string {
	s := v.styles
	items := []string{s.Title.Render("New from Template"), ""}
	for i, tpl := range v.snap.Templates {
		itemStyle := s.ListItem
		if i == v.templateCursor {
			itemStyle = s.ListSelected
		}
		items = append(items, itemStyle.Render(fmt.Sprintf("%s  %s",
			tpl.Name, s.TitleMuted.Render(fmt.Sprintf("%d words, %d days", tpl.WordCountTarget, tpl.DeadlineDays)))))
	}
	items = append(items, "", s.TitleMuted.Render("↵: use • Esc: cancel"))
	return centered(v.width, v.height, s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...)))
}

func (v *TasksView) renderAddWords() string {
	s := v.styles
	title := "Add Words"
	if r, ok := v.row(v.viewingID); ok {
		title = "Add Words to " + truncate(r.Title, 40)
	}
	return centered(v.width, v.height, lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		s.InputFocused.Width(20).Render(v.wordsInput.View()),
		"",
		s.TitleMuted.Render("↵: add • Esc: cancel"),
	))
}

func (v *TasksView) renderTaskView() string {
	r, ok := v.row(v.viewingID)
	if !ok {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	labelStyle := s.TitleMuted

	project := "Unassigned"
	if r.HasProject {
		project = lipgloss.NewStyle().Foreground(styles.ProjectColor(r.Project.Color)).Render("● " + r.Project.Name)
	}

	descText := r.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}
	notesText := r.Notes
	if notesText == "" {
		notesText = s.TitleMuted.Render("No notes")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(r.Title),
		"",
		labelStyle.Render("Status"),
		s.StatusBadge(r.Status),
		"",
		labelStyle.Render("Project"),
		project,
		"",
		labelStyle.Render("Deadline"),
		r.Deadline.Format("Mon Jan 2, 2006")+"  "+
			lipgloss.NewStyle().Foreground(styles.UrgencyColor(r.Urgency)).Render(r.Urgency.Label()+", "+r.DueLabel),
		"",
		labelStyle.Render("Progress"),
		styles.ProgressBar(r.Progress, 20)+fmt.Sprintf(" %.0f%%  %d of %d words", r.Progress, r.WordCountComplete, r.WordCountTarget),
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render("Notes"),
		lipgloss.NewStyle().Width(textWidth).Render(notesText),
		"",
		help(s, v.width, "e", "edit", "s", "next status", "w", "add words", "d", "delete", "esc", "back"),
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

func (v *TasksView) renderHelp() string {
	return help(v.styles, v.width,
		"↵", "view", "n", "new", "t", "template", "e", "edit", "s", "status",
		"w", "words", "d", "del", "/", "search", "f", "filter", "q", "quit")
}

func (v *TasksView) renderHelpPopup() string {
	return helpPopup(v.styles, v.width, v.height,
		"↵", "view task",
		"n", "new task",
		"t", "new from template",
		"e", "edit task",
		"s", "advance status",
		"w", "add words written",
		"d", "delete task",
		"/", "search",
		"f", "filter by status",
		"1-5", "switch view",
		"q", "quit",
	)
}
