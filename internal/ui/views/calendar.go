package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/quill/internal/controller"
	"github.com/tgienger/quill/internal/derive"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/ui/keys"
	"github.com/tgienger/quill/internal/ui/styles"
)

var weekdays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// CalendarView shows a month of deadlines
type CalendarView struct {
	ctrl   *controller.Calendar
	snap   controller.CalendarView
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	showHelpPopup bool
}

func NewCalendarView(ctrl *controller.Calendar) *CalendarView {
	return &CalendarView{
		ctrl:   ctrl,
		snap:   ctrl.View(),
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *CalendarView) Name() string  { return PageCalendar }
func (v *CalendarView) Title() string { return "Calendar" }

func (v *CalendarView) TakeNotice() (controller.Notice, bool) { return v.ctrl.TakeNotice() }
func (v *CalendarView) Capturing() bool                       { return v.showHelpPopup }

func (v *CalendarView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *CalendarView) Init() tea.Cmd   { return v.Reload() }
func (v *CalendarView) Reload() tea.Cmd { return run(PageCalendar, v.ctrl.Load) }

func (v *CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)

	case DoneMsg:
		if msg.Page == PageCalendar {
			v.snap = v.ctrl.View()
		}

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		switch {
		case key.Matches(msg, v.keys.Left):
			v.ctrl.MoveSelection(-1)
		case key.Matches(msg, v.keys.Right):
			v.ctrl.MoveSelection(1)
		case key.Matches(msg, v.keys.Up):
			v.ctrl.MoveSelection(-7)
		case key.Matches(msg, v.keys.Down):
			v.ctrl.MoveSelection(7)
		case key.Matches(msg, v.keys.PrevMonth):
			v.ctrl.PrevMonth()
		case key.Matches(msg, v.keys.NextMonth):
			v.ctrl.NextMonth()
		case key.Matches(msg, v.keys.Today):
			v.ctrl.Today()
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		default:
			return v, nil
		}
		v.snap = v.ctrl.View()
	}
	return v, nil
}

func (v *CalendarView) View() string {
	if v.showHelpPopup {
		return helpPopup(v.styles, v.width, v.height,
			"←→", "previous/next day",
			"↑↓", "previous/next week",
			"[ ]", "previous/next month",
			"T", "today",
			"1-5", "switch view",
			"q", "quit",
		)
	}

	if out, ok := stateView(v.styles, v.width, v.height, v.snap.State); !ok {
		return out
	}

	s := v.styles
	grid := v.renderGrid()
	side := v.renderSide()

	var body string
	if styles.ContentWidth(v.width) >= 70 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", side)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, grid, "", side)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(v.snap.Month.Format("January 2006")),
		"",
		body,
		"",
		help(s, v.width, "←→↑↓", "day", "[ ]", "month", "T", "today", "q", "quit"),
	)
	return styles.CenterView(content, v.width, v.height)
}

// renderGrid lays the month out in week rows starting on Sunday. Days with
// deadlines are marked with a dot colored by the most urgent one.
func (v *CalendarView) renderGrid() string {
	s := v.styles
	var b strings.Builder

	for _, wd := range weekdays {
		b.WriteString(s.Day.Foreground(styles.Current.ForegroundDim).Render(wd))
	}
	b.WriteString("\n")

	col := v.snap.Leading
	b.WriteString(strings.Repeat(s.Day.Render(""), col))
	for _, day := range v.snap.Days {
		b.WriteString(v.renderDay(day))
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	return s.FilterBar.Render(strings.TrimRight(b.String(), "\n"))
}

func (v *CalendarView) renderDay(day derive.CalendarDay) string {
	s := v.styles
	st := s.Day
	switch {
	case day.Date.Equal(v.snap.Selected):
		st = s.DaySelected
	case day.Date.Equal(v.snap.Today):
		st = s.DayToday
	}

	label := fmt.Sprint(day.Date.Day())
	if len(day.Tasks) == 0 {
		return st.Render(label)
	}
	dot := lipgloss.NewStyle().Foreground(styles.UrgencyColor(v.mostUrgent(day.Tasks))).Render("•")
	return st.Render(dot + label)
}

func (v *CalendarView) mostUrgent(tasks []models.Task) derive.Urgency {
	rank := map[derive.Urgency]int{
		derive.UrgencyOverdue: 0,
		derive.UrgencyUrgent:  1,
		derive.UrgencyWarning: 2,
		derive.UrgencySafe:    3,
	}
	now := v.snap.Today.In(time.Local)
	best := derive.UrgencySafe
	for _, t := range tasks {
		if u := derive.UrgencyOf(t.Deadline, now); rank[u] < rank[best] {
			best = u
		}
	}
	return best
}

func (v *CalendarView) renderSide() string {
	s := v.styles
	width := clamp(styles.ContentWidth(v.width)-36, 24, 40)

	rows := []string{s.Title.Render(v.snap.Selected.Format("Mon, Jan 2"))}
	if len(v.snap.SelectedTasks) == 0 {
		rows = append(rows, s.TitleMuted.Render("Nothing due"))
	}
	for _, r := range v.snap.SelectedTasks {
		rows = append(rows, v.renderSideRow(r, width))
	}

	rows = append(rows, "", s.Title.Render("Upcoming"))
	if len(v.snap.Upcoming) == 0 {
		rows = append(rows, s.TitleMuted.Render("No upcoming deadlines"))
	}
	for _, r := range v.snap.Upcoming {
		rows = append(rows, v.renderSideRow(r, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *CalendarView) renderSideRow(r controller.TaskRow, width int) string {
	due := lipgloss.NewStyle().Foreground(styles.UrgencyColor(r.Urgency)).Render(r.DueLabel)
	return truncate(r.Title, width) + "\n  " + v.styles.StatusBadge(r.Status) + " " + due
}
