package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
	"github.com/tgienger/quill/internal/store/memstore"
	"github.com/tgienger/quill/internal/ui/views"
)

var now = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func (f *fakeSettings) GetSetting(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *fakeSettings) SetSetting(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakeSettings) get(key string) string {
	v, _ := f.GetSetting(context.Background(), key)
	return v
}

// drain runs cmd and feeds its messages back into the app. Commands that
// block, such as notice ticks and the change watcher, are abandoned.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(200 * time.Millisecond):
		return
	}
	switch m := msg.(type) {
	case nil, tea.QuitMsg:
	case tea.BatchMsg:
		for _, c := range m {
			drain(t, a, c)
		}
	default:
		_, next := a.Update(m)
		drain(t, a, next)
	}
}

func press(t *testing.T, a *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := a.Update(msg)
		drain(t, a, cmd)
	}
}

func start(t *testing.T, a *App) {
	t.Helper()
	_, _ = a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	drain(t, a, a.Init())
}

func TestAppStartsOnTasks(t *testing.T) {
	a := NewApp(memstore.New(), WithClock(clock), WithBackendName("memory"))
	start(t, a)

	assert.Equal(t, views.PageTasks, a.active().Name())
	out := a.View()
	assert.Contains(t, out, "1 Tasks")
	assert.Contains(t, out, "No tasks. Press 'n' to create one.")
	assert.Contains(t, out, "memory")
}

func TestAppRestoresLastView(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{SettingLastView: views.PageArchive}}
	a := NewApp(memstore.New(), WithClock(clock), WithSettings(settings))
	start(t, a)

	assert.Equal(t, views.PageArchive, a.active().Name())
	assert.Contains(t, a.View(), "Nothing archived yet")
}

func TestAppUnknownLastViewFallsBack(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{SettingLastView: "dashboard"}}
	a := NewApp(memstore.New(), WithClock(clock), WithSettings(settings))
	start(t, a)

	assert.Equal(t, views.PageTasks, a.active().Name())
}

func TestAppSwitchesAndPersistsView(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{}}
	a := NewApp(memstore.New(), WithClock(clock), WithSettings(settings))
	start(t, a)

	press(t, a, "3")
	assert.Equal(t, views.PageCalendar, a.active().Name())
	assert.Equal(t, views.PageCalendar, settings.get(SettingLastView))
	assert.Contains(t, a.View(), "March 2024")

	press(t, a, "L")
	assert.Equal(t, views.PageArchive, a.active().Name())

	press(t, a, "H", "H", "H")
	assert.Equal(t, views.PageTasks, a.active().Name())

	press(t, a, "5")
	assert.Contains(t, a.View(), "Blog Post Template")
}

func TestAppFormCapturesGlobalKeys(t *testing.T) {
	a := NewApp(memstore.New(), WithClock(clock))
	start(t, a)

	press(t, a, "n")
	assert.True(t, a.active().Capturing())

	press(t, a, "2", "q")
	assert.Equal(t, views.PageTasks, a.active().Name(), "digits typed into the form must not switch views")
	assert.Contains(t, a.View(), "New Task")

	press(t, a, "esc")
	assert.False(t, a.active().Capturing())
}

func TestAppReloadsOnOutsideChange(t *testing.T) {
	stores := memstore.New()
	a := NewApp(stores, WithClock(clock))
	start(t, a)

	_, err := stores.Tasks.Create(context.Background(), models.TaskInput{
		Title: "Written elsewhere", Status: models.StatusIdeas, Deadline: models.NewDate(2024, time.March, 20),
	})
	require.NoError(t, err)
	assert.NotContains(t, a.View(), "Written elsewhere")

	_, cmd := a.Update(dataChangedMsg{})
	drain(t, a, cmd)
	assert.Contains(t, a.View(), "Written elsewhere")
}

type brokenTasks struct{ store.TaskStore }

func (brokenTasks) GetAll(context.Context) ([]models.Task, error) {
	return nil, store.Wrap(store.ErrLoad, store.EntityTask, store.OpGetAll, "", errors.New("connection refused"))
}

func TestAppShowsLoadFailure(t *testing.T) {
	stores := memstore.New()
	stores.Tasks = brokenTasks{stores.Tasks}
	a := NewApp(stores, WithClock(clock))
	start(t, a)

	out := a.View()
	assert.Contains(t, out, "Could not load data")
	assert.Contains(t, out, "ctrl+r")
	require.NotNil(t, a.notice)
	assert.Equal(t, "error", a.notice.Severity.String())

	_, _ = a.Update(clearNoticeMsg{seq: a.noticeSeq})
	assert.Nil(t, a.notice)
}
