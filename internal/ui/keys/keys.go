package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings shared by every view
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Back  key.Binding
	Tab   key.Binding
	Quit  key.Binding
	Help  key.Binding
	Save  key.Binding

	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Search   key.Binding
	Filter   key.Binding
	Advance  key.Binding
	AddWords key.Binding
	Template key.Binding
	Restore  key.Binding
	Reload   key.Binding

	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding

	NextView key.Binding
	PrevView key.Binding
	Views    []key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Save:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),

		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Advance:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next status")),
		AddWords: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "add words")),
		Template: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "from template")),
		Restore:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		Reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),

		PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
		NextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
		Today:     key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "today")),

		NextView: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "next view")),
		PrevView: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "prev view")),
		Views: []key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tasks")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "projects")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "calendar")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "archive")),
			key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "templates")),
		},
	}
}
