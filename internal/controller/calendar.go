package controller

import (
	"context"

	"github.com/tgienger/quill/internal/derive"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// UpcomingLimit is how many upcoming deadlines the sidebar lists
const UpcomingLimit = 5

// Calendar is the month view of deadlines
type Calendar struct {
	page

	month    models.Date // first day of the shown month
	selected models.Date
	tasks    []models.Task
	projects []models.Project
}

// CalendarView is a snapshot of the calendar page
type CalendarView struct {
	State
	Month    models.Date
	Days     []derive.CalendarDay
	Leading  int
	Today    models.Date
	Selected models.Date
	// SelectedTasks are the rows due on Selected
	SelectedTasks []TaskRow
	Upcoming      []TaskRow
}

func NewCalendar(stores store.Set, opts ...Option) *Calendar {
	c := &Calendar{page: newPage(stores, opts)}
	c.goToday()
	return c
}

// Load fetches tasks and projects concurrently
func (c *Calendar) Load(ctx context.Context) error {
	gen := c.begin()

	var (
		tasks    []models.Task
		projects []models.Project
	)
	err := loadAll(ctx,
		func(ctx context.Context) (err error) { tasks, err = c.stores.Tasks.GetAll(ctx); return },
		func(ctx context.Context) (err error) { projects, err = c.stores.Projects.GetAll(ctx); return },
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finish(gen, err) || err != nil {
		return err
	}
	c.tasks, c.projects = tasks, projects
	return nil
}

func (c *Calendar) View() CalendarView {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	days, leading := derive.MonthGrid(c.month, c.tasks)
	return CalendarView{
		State:         c.state(),
		Month:         c.month,
		Days:          days,
		Leading:       leading,
		Today:         models.DateOf(now),
		Selected:      c.selected,
		SelectedTasks: taskRows(derive.TasksOn(c.tasks, c.selected), c.projects, now),
		Upcoming:      taskRows(derive.Upcoming(c.tasks, now, UpcomingLimit), c.projects, now),
	}
}

// PrevMonth and NextMonth page the grid; the selection moves to the first
// day of the new month
func (c *Calendar) PrevMonth() { c.shiftMonth(-1) }
func (c *Calendar) NextMonth() { c.shiftMonth(1) }

func (c *Calendar) shiftMonth(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.month = c.month.AddMonths(n)
	c.selected = c.month
}

// Today jumps back to the current month and selects today
func (c *Calendar) Today() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.goToday()
}

func (c *Calendar) goToday() {
	today := models.DateOf(c.now())
	c.selected = today
	c.month = models.NewDate(today.Year(), today.Month(), 1)
}

// Select picks a day, following it into another month if needed
func (c *Calendar) Select(d models.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = d
	c.month = models.NewDate(d.Year(), d.Month(), 1)
}

// MoveSelection moves the selected day by n days
func (c *Calendar) MoveSelection(n int) {
	c.mu.Lock()
	d := c.selected.AddDays(n)
	c.mu.Unlock()
	c.Select(d)
}
