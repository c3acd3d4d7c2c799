package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"resolve/internal/ui"
)

// form is a stack of labelled text inputs with one focused field.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(title string, labels ...string) form {
	f := form{title: title, labels: labels}
	for _, label := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = label
		in.CharLimit = 200
		f.inputs = append(f.inputs, in)
	}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	i = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focus = i
	f.inputs[i].Focus()
}

func (f *form) setValue(i int, v string) {
	f.inputs[i].SetValue(v)
	f.inputs[i].CursorEnd()
}

func (f *form) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f form) view() string {
	lines := []string{ui.PanelTitle.Render(f.title)}
	for i, in := range f.inputs {
		cursor := "  "
		if i == f.focus {
			cursor = "› "
		}
		lines = append(lines, cursor+ui.Key.Render(f.labels[i]+":")+" "+in.View())
	}
	return ui.Panel.Render(strings.Join(lines, "\n"))
}
