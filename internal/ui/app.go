package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/quill/internal/controller"
	"github.com/tgienger/quill/internal/store"
	"github.com/tgienger/quill/internal/ui/keys"
	"github.com/tgienger/quill/internal/ui/styles"
	"github.com/tgienger/quill/internal/ui/views"
)

// SettingLastView is the settings key holding the last active page
const SettingLastView = "last_view"

// noticeTTL is how long a notice stays in the status bar
const noticeTTL = 4 * time.Second

// Settings persists small pieces of UI state between runs
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// App is the root model: a tab bar over the pages plus a status bar
type App struct {
	pages   []views.Page
	current int

	settings Settings
	changes  <-chan struct{}
	logger   *slog.Logger
	backend  string
	clock    func() time.Time

	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	notice    *controller.Notice
	noticeSeq int
}

// Option configures the App
type Option func(*App)

// WithSettings persists the active page across runs
func WithSettings(s Settings) Option {
	return func(a *App) { a.settings = s }
}

// WithChanges reloads the active page whenever a value arrives on ch
func WithChanges(ch <-chan struct{}) Option {
	return func(a *App) { a.changes = ch }
}

// WithLogger sets the logger used by the app and its controllers
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithBackendName shows the backend in the status bar
func WithBackendName(name string) Option {
	return func(a *App) { a.backend = name }
}

// WithClock overrides time.Now for every page
func WithClock(c func() time.Time) Option {
	return func(a *App) { a.clock = c }
}

// NewApp builds every page over stores
func NewApp(stores store.Set, opts ...Option) *App {
	a := &App{
		logger: slog.Default(),
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(a)
	}

	copts := []controller.Option{controller.WithLogger(a.logger)}
	if a.clock != nil {
		copts = append(copts, controller.WithClock(a.clock))
	}
	a.pages = []views.Page{
		views.NewTasksView(controller.NewTasks(stores, copts...)),
		views.NewProjectsView(controller.NewProjects(stores, copts...)),
		views.NewCalendarView(controller.NewCalendar(stores, copts...)),
		views.NewArchiveView(controller.NewArchive(stores, copts...)),
		views.NewTemplatesView(controller.NewTemplates(stores, copts...)),
	}
	return a
}

type dataChangedMsg struct{}

type clearNoticeMsg struct{ seq int }

type savedViewMsg struct{ err error }

func (a *App) Init() tea.Cmd {
	a.current = a.restoreView()
	return tea.Batch(a.active().Init(), a.waitForChange())
}

// restoreView returns the index of the last active page, or the first page
func (a *App) restoreView() int {
	if a.settings == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	name, err := a.settings.GetSetting(ctx, SettingLastView)
	if err != nil {
		a.logger.Warn("Failed to read last view", "error", err)
		return 0
	}
	for i, p := range a.pages {
		if p.Name() == name {
			return i
		}
	}
	return 0
}

func (a *App) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	ch := a.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dataChangedMsg{}
	}
}

func (a *App) active() views.Page {
	return a.pages[a.current]
}

func (a *App) page(name string) views.Page {
	for _, p := range a.pages {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// pageHeight leaves room for the tab bar and the status bar
func (a *App) pageHeight() int {
	return max(a.height-2, 1)
}

func (a *App) switchTo(i int) tea.Cmd {
	if i < 0 || i >= len(a.pages) || i == a.current {
		return nil
	}
	a.current = i
	return tea.Batch(a.active().Reload(), a.saveView(a.active().Name()))
}

func (a *App) saveView(name string) tea.Cmd {
	if a.settings == nil {
		return nil
	}
	settings := a.settings
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return savedViewMsg{err: settings.SetSetting(ctx, SettingLastView, name)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, p := range a.pages {
			p.SetSize(msg.Width, a.pageHeight())
		}
		return a, nil

	case views.DoneMsg:
		p := a.page(msg.Page)
		if p == nil {
			return a, nil
		}
		_, cmd := p.Update(msg)
		return a, tea.Batch(cmd, a.pollNotice(p))

	case dataChangedMsg:
		a.logger.Debug("Data changed outside the app, reloading", "view", a.active().Name())
		return a, tea.Batch(a.active().Reload(), a.waitForChange())

	case clearNoticeMsg:
		if msg.seq == a.noticeSeq {
			a.notice = nil
		}
		return a, nil

	case savedViewMsg:
		if msg.err != nil {
			a.logger.Warn("Failed to save last view", "error", msg.err)
		}
		return a, nil

	case tea.KeyMsg:
		if !a.active().Capturing() {
			if cmd, handled := a.globalKey(msg); handled {
				return a, cmd
			}
		}
	}

	p := a.active()
	_, cmd := p.Update(msg)
	return a, tea.Batch(cmd, a.pollNotice(p))
}

// globalKey handles quitting, reloading and switching pages
func (a *App) globalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, a.keys.Reload):
		return a.active().Reload(), true
	case key.Matches(msg, a.keys.NextView):
		return a.switchTo((a.current + 1) % len(a.pages)), true
	case key.Matches(msg, a.keys.PrevView):
		return a.switchTo((a.current + len(a.pages) - 1) % len(a.pages)), true
	}
	for i, b := range a.keys.Views {
		if key.Matches(msg, b) {
			return a.switchTo(i), true
		}
	}
	return nil, false
}

// pollNotice moves a pending page notice into the status bar
func (a *App) pollNotice(p views.Page) tea.Cmd {
	n, ok := p.TakeNotice()
	if !ok {
		return nil
	}
	a.notice = &n
	a.noticeSeq++
	seq := a.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

func (a *App) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderTabs(),
		lipgloss.NewStyle().Height(a.pageHeight()).MaxHeight(a.pageHeight()).Render(a.active().View()),
		a.renderStatusBar(),
	)
}

func (a *App) renderTabs() string {
	s := a.styles
	tabs := make([]string, len(a.pages))
	for i, p := range a.pages {
		label := string(rune('1'+i)) + " " + p.Title()
		if i == a.current {
			tabs[i] = s.TabActive.Render(label)
		} else {
			tabs[i] = s.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderStatusBar() string {
	s := a.styles
	if a.notice != nil {
		color := styles.Current.Info
		switch a.notice.Severity {
		case controller.SeveritySuccess:
			color = styles.Current.Success
		case controller.SeverityError:
			color = styles.Current.Error
		}
		return s.StatusBar.Foreground(color).Render(a.notice.Message)
	}
	status := "quill"
	if a.backend != "" {
		status += " • " + a.backend
	}
	return s.StatusBar.Render(status + " • ? help • 1-5 views • q quit")
}
