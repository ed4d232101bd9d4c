package views

import (
	"context"
	"fmt"
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

// ArchiveView lists submitted and published work by month
type ArchiveView struct {
	ctrl   *controller.Archive
	snap   controller.ArchiveView
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	// cursor indexes the flattened rows of every group
	cursor      int
	scrollY     int
	searching   bool
	searchInput textinput.Model

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	showHelpPopup bool
}

func NewArchiveView(ctrl *controller.Archive) *ArchiveView {
	search := textinput.New()
	search.Placeholder = "Search archive..."
	search.CharLimit = 100

	return &ArchiveView{
		ctrl:        ctrl,
		snap:        ctrl.View(),
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		searchInput: search,
	}
}

func (v *ArchiveView) Name() string  { return PageArchive }
func (v *ArchiveView) Title() string { return "Archive" }

func (v *ArchiveView) TakeNotice() (controller.Notice, bool) { return v.ctrl.TakeNotice() }

func (v *ArchiveView) Capturing() bool {
	return v.searching || v.confirmingDelete || v.showHelpPopup
}

func (v *ArchiveView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *ArchiveView) Init() tea.Cmd   { return v.Reload() }
func (v *ArchiveView) Reload() tea.Cmd { return run(PageArchive, v.ctrl.Load) }

func (v *ArchiveView) rows() []controller.TaskRow {
	var out []controller.TaskRow
	for _, g := range v.snap.Groups {
		out = append(out, g.Rows...)
	}
	return out
}

func (v *ArchiveView) refresh() {
	v.snap = v.ctrl.View()
	if n := len(v.rows()); v.cursor >= n {
		v.cursor = max(0, n-1)
	}
	v.ensureVisible()
}

func (v *ArchiveView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case DoneMsg:
		if msg.Page == PageArchive {
			v.refresh()
		}
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.searching {
			return v.updateSearching(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *ArchiveView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := v.rows()
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(rows)-1 {
			v.cursor++
			v.ensureVisible()
		}
	case key.Matches(msg, v.keys.Filter):
		v.ctrl.SetFilter(nextArchiveFilter(v.snap.Filter))
		v.cursor, v.scrollY = 0, 0
		v.refresh()
	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.searchInput.Focus()
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Restore):
		if v.cursor < len(rows) {
			id := rows[v.cursor].ID
			return v, run(PageArchive, func(ctx context.Context) error {
				return v.ctrl.Restore(ctx, id)
			})
		}
	case key.Matches(msg, v.keys.Delete):
		if v.cursor < len(rows) {
			v.confirmingDelete = true
			v.deleteTargetID = rows[v.cursor].ID
			v.deleteTargetName = rows[v.cursor].Title
		}
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}
	return v, nil
}

func nextArchiveFilter(cur derive.StatusFilter) derive.StatusFilter {
	for i, f := range controller.ArchiveFilters {
		if f == cur {
			return controller.ArchiveFilters[(i+1)%len(controller.ArchiveFilters)]
		}
	}
	return controller.ArchiveFilters[0]
}

func (v *ArchiveView) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Back) || key.Matches(msg, v.keys.Enter) {
		v.searching = false
		v.searchInput.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	v.ctrl.SetQuery(v.searchInput.Value())
	v.cursor, v.scrollY = 0, 0
	v.refresh()
	return v, cmd
}

func (v *ArchiveView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		return v, run(PageArchive, func(ctx context.Context) error {
			return v.ctrl.Delete(ctx, id)
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *ArchiveView) visibleLines() int {
	return max(v.height-14, 4)
}

// ensureVisible scrolls by rendered lines: three per row plus a heading per
// group
func (v *ArchiveView) ensureVisible() {
	line := v.cursorLine()
	visible := v.visibleLines()
	if line < v.scrollY {
		v.scrollY = max(line-1, 0)
	} else if line+3 > v.scrollY+visible {
		v.scrollY = line + 3 - visible
	}
}

func (v *ArchiveView) cursorLine() int {
	line, i := 0, 0
	for _, g := range v.snap.Groups {
		line++ // heading
		for range g.Rows {
			if i == v.cursor {
				return line
			}
			line += 3
			i++
		}
	}
	return line
}

func (v *ArchiveView) View() string {
	if v.showHelpPopup {
		return helpPopup(v.styles, v.width, v.height,
			"r", "restore to drafting",
			"d", "delete task",
			"f", "cycle filter",
			"/", "search",
			"1-5", "switch view",
			"q", "quit",
		)
	}
	if v.confirmingDelete {
		return confirm(v.styles, v.width, v.height, "Delete Task?",
			fmt.Sprintf("Are you sure you want to delete %q?", v.deleteTargetName))
	}
	if out, ok := stateView(v.styles, v.width, v.height, v.snap.State); !ok {
		return out
	}

	s := v.styles
	searchStyle := s.Input
	if v.searching {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(styles.ContentWidth(v.width)-8, 10, 30)).Render(v.searchInput.View())

	filterLabel := "All"
	if v.snap.Filter != derive.FilterAll {
		filterLabel = models.Status(v.snap.Filter).Label()
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		searchBox, "  ", s.Button.Render("Showing: "+filterLabel),
		"  ", s.TitleMuted.Render(fmt.Sprintf("%d submitted • %d published", v.snap.Submitted, v.snap.Published)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Archive"),
		header,
		"",
		v.renderGroups(),
		help(s, v.width, "r", "restore", "d", "del", "f", "filter", "/", "search", "q", "quit"),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *ArchiveView) renderGroups() string {
	s := v.styles
	if len(v.snap.Groups) == 0 {
		if v.snap.Query != "" {
			return s.TitleMuted.Render("Nothing in the archive matches your search.")
		}
		return s.TitleMuted.Render("Nothing archived yet. Submitted and published work shows up here.")
	}

	var lines []string
	i := 0
	for _, g := range v.snap.Groups {
		lines = append(lines, s.Title.Foreground(styles.Current.Secondary).Render(g.Label))
		for _, r := range g.Rows {
			row := renderTaskRow(s, v.width, r, i == v.cursor)
			lines = append(lines, strings.Split(strings.TrimSuffix(row, "\n"), "\n")...)
			lines = append(lines, "")
			i++
		}
	}

	end := min(v.scrollY+v.visibleLines(), len(lines))
	start := min(v.scrollY, end)
	return strings.Join(lines[start:end], "\n")
}
