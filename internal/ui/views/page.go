package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/quill/internal/controller"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/ui/styles"
)

// Page names, also persisted as the last active view
const (
	PageTasks     = "tasks"
	PageProjects  = "projects"
	PageCalendar  = "calendar"
	PageArchive   = "archive"
	PageTemplates = "templates"
)

// callTimeout bounds every store call made from the UI
const callTimeout = 30 * time.Second

// Page is one tab of the app
type Page interface {
	tea.Model
	Name() string
	Title() string
	// Reload refetches everything the page shows
	Reload() tea.Cmd
	SetSize(width, height int)
	// Capturing reports whether a form or input owns the keyboard, so
	// global keys must not be handled
	Capturing() bool
	TakeNotice() (controller.Notice, bool)
}

// DoneMsg reports that a controller call made for Page finished
type DoneMsg struct {
	Page string
	Err  error
}

// run calls fn off the UI goroutine and reports back to page
func run(page string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		return DoneMsg{Page: page, Err: fn(ctx)}
	}
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// parseCount reads a non-negative whole number typed into field
func parseCount(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &models.ValidationError{Field: field, Message: "must be a whole number"}
	}
	return n, nil
}

// parseDeadline reads a YYYY-MM-DD date
func parseDeadline(s string) (models.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, &models.ValidationError{Field: "deadline", Message: "must be a date like 2024-03-31"}
	}
	return d, nil
}

// help renders a one-line key hint, or just "? help" when narrow
func help(s *styles.Styles, width int, pairs ...string) string {
	contentWidth := styles.ContentWidth(width)
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

// helpPopup renders the full key list as a centered box
func helpPopup(s *styles.Styles, width, height int, pairs ...string) string {
	items := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, fmt.Sprintf("%-7s%s", s.HelpKey.Render(pairs[i]), pairs[i+1]))
	}
	items = append(items, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
	return styles.CenterView(centered, width, height)
}

// confirm renders a yes/no prompt
func confirm(s *styles.Styles, width, height int, title, detail string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

// centered places content in the middle of the content area
func centered(width, height int, content string) string {
	placed := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(placed, width, height)
}

// stateView renders the loading and load-error states. ok is false when the
// page has nothing else to show.
func stateView(s *styles.Styles, width, height int, st controller.State) (string, bool) {
	if st.Err != nil {
		return centered(width, height, lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Foreground(styles.Current.Error).Render("Could not load data"),
			"",
			s.TitleMuted.Render(st.Err.Error()),
			"",
			s.TitleMuted.Render("Press ctrl+r to retry"),
		)), false
	}
	if !st.Loaded {
		return s.TitleMuted.Render("Loading..."), false
	}
	return "", true
}

// truncate shortens s to n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
