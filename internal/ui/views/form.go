package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/quill/internal/ui/keys"
	"github.com/tgienger/quill/internal/ui/styles"
)

type fieldKind int

const (
	textField fieldKind = iota
	areaField
	choiceField
)

// choice is one option of a choice field
type choice struct {
	label string
	value string
	color lipgloss.Color
}

type field struct {
	label   string
	kind    fieldKind
	input   textinput.Model
	area    textarea.Model
	choices []choice
	index   int
}

// form is a vertical list of fields followed by a save button. Tab moves
// between fields, left and right cycle choices, ctrl+s saves from anywhere.
type form struct {
	title  string
	fields []*field
	focus  int // len(fields) is the save button
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
}

// formResult is what a key press did to the form
type formResult int

const (
	formEditing formResult = iota
	formSubmitted
	formCancelled
)

func newForm(title string, s *styles.Styles, k keys.KeyMap) *form {
	return &form{title: title, styles: s, keys: k}
}

func (f *form) text(label, placeholder string, limit int) *form {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	f.fields = append(f.fields, &field{label: label, kind: textField, input: in})
	return f
}

func (f *form) area(label, placeholder string, limit, height int) *form {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = limit
	ta.SetWidth(50)
	ta.SetHeight(height)
	ta.ShowLineNumbers = false
	f.fields = append(f.fields, &field{label: label, kind: areaField, area: ta})
	return f
}

func (f *form) choice(label string, choices []choice) *form {
	f.fields = append(f.fields, &field{label: label, kind: choiceField, choices: choices})
	return f
}

// start resets focus to the first field
func (f *form) start() tea.Cmd {
	f.focus = 0
	f.updateFocus()
	return textinput.Blink
}

func (f *form) setWidth(width int) {
	f.width = width
	inputWidth := clamp(styles.ContentWidth(width)-10, 20, 50)
	for _, fd := range f.fields {
		if fd.kind == areaField {
			fd.area.SetWidth(inputWidth)
		}
	}
}

func (f *form) value(i int) string {
	fd := f.fields[i]
	switch fd.kind {
	case areaField:
		return fd.area.Value()
	case choiceField:
		if len(fd.choices) == 0 {
			return ""
		}
		return fd.choices[fd.index].value
	}
	return fd.input.Value()
}

func (f *form) set(i int, v string) {
	fd := f.fields[i]
	switch fd.kind {
	case areaField:
		fd.area.SetValue(v)
	case choiceField:
		fd.index = 0
		for j, c := range fd.choices {
			if c.value == v {
				fd.index = j
			}
		}
	default:
		fd.input.SetValue(v)
	}
}

func (f *form) setChoices(i int, choices []choice) {
	f.fields[i].choices = choices
	f.fields[i].index = 0
}

func (f *form) update(msg tea.KeyMsg) (formResult, tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Back):
		return formCancelled, nil

	case key.Matches(msg, f.keys.Save):
		return formSubmitted, nil

	case msg.String() == "shift+tab":
		f.focus = (f.focus + len(f.fields)) % (len(f.fields) + 1)
		f.updateFocus()
		return formEditing, nil

	case key.Matches(msg, f.keys.Tab):
		f.focus = (f.focus + 1) % (len(f.fields) + 1)
		f.updateFocus()
		return formEditing, nil
	}

	if f.focus == len(f.fields) {
		if key.Matches(msg, f.keys.Enter) {
			return formSubmitted, nil
		}
		return formEditing, nil
	}

	fd := f.fields[f.focus]
	switch fd.kind {
	case choiceField:
		n := len(fd.choices)
		switch {
		case n == 0:
		case msg.String() == "left" || msg.String() == "h":
			fd.index = (fd.index + n - 1) % n
		case msg.String() == "right" || msg.String() == "l" || msg.String() == " ":
			fd.index = (fd.index + 1) % n
		case key.Matches(msg, f.keys.Enter):
			f.focus++
			f.updateFocus()
		}
		return formEditing, nil

	case areaField:
		var cmd tea.Cmd
		fd.area, cmd = fd.area.Update(msg)
		return formEditing, cmd
	}

	if key.Matches(msg, f.keys.Enter) {
		f.focus++
		f.updateFocus()
		return formEditing, nil
	}
	var cmd tea.Cmd
	fd.input, cmd = fd.input.Update(msg)
	return formEditing, cmd
}

func (f *form) updateFocus() {
	for i, fd := range f.fields {
		fd.input.Blur()
		fd.area.Blur()
		if i != f.focus {
			continue
		}
		switch fd.kind {
		case textField:
			fd.input.Focus()
		case areaField:
			fd.area.Focus()
		}
	}
}

func (f *form) view(height int) string {
	s := f.styles
	inputWidth := clamp(styles.ContentWidth(f.width)-6, 20, 50)

	rows := []string{s.Title.Render(f.title), ""}
	for i, fd := range f.fields {
		st := s.Input
		if i == f.focus {
			st = s.InputFocused
		}
		rows = append(rows, fd.label+":")
		switch fd.kind {
		case textField:
			rows = append(rows, st.Width(inputWidth).Render(fd.input.View()))
		case areaField:
			rows = append(rows, st.Render(fd.area.View()))
		case choiceField:
			rows = append(rows, st.Width(inputWidth).Render(f.renderChoice(fd, i == f.focus)))
		}
	}

	btn := s.Button
	if f.focus == len(f.fields) {
		btn = s.ButtonFocused
	}
	rows = append(rows, "", btn.Render(" Save "), "",
		s.TitleMuted.Render("Tab: next • ←→: choose • Ctrl+S: save • Esc: cancel"))

	return centered(f.width, height, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (f *form) renderChoice(fd *field, focused bool) string {
	if len(fd.choices) == 0 {
		return f.styles.TitleMuted.Render("none available")
	}
	c := fd.choices[fd.index]
	label := c.label
	if c.color != "" {
		label = lipgloss.NewStyle().Foreground(c.color).Render("●") + " " + label
	}
	if !focused {
		return label
	}
	arrows := f.styles.HelpKey
	return strings.Join([]string{arrows.Render("‹"), label, arrows.Render("›")}, " ")
}
