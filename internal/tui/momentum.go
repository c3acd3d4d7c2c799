package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"resolve/internal/engine"
	"resolve/internal/ui"
)

var (
	statusCycle   = []engine.StatusFilter{engine.StatusAll, engine.StatusActive, engine.StatusCompleted}
	sortCycle     = []engine.SortOption{engine.SortNewest, engine.SortOldest, engine.SortPriorityHigh, engine.SortPriorityLow, engine.SortCategory}
	priorityCycle = []engine.Priority{"", engine.PriorityHigh, engine.PriorityMedium, engine.PriorityLow}
	categoryCycle = append([]engine.TodoCategory{""}, engine.TodoCategories...)
)

// next returns the element after cur in list, wrapping around.
func next[T comparable](list []T, cur T) T {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}

func (m Model) visibleTodos() []engine.Todo {
	return m.svc.Momentum().Query(m.filter)
}

func (m Model) selectedTodo() (engine.Todo, bool) {
	list := m.visibleTodos()
	if m.cursor < 0 || m.cursor >= len(list) {
		return engine.Todo{}, false
	}
	return list[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleTodos())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) updateMomentum(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mom := m.svc.Momentum()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visibleTodos())-1 {
			m.cursor++
		}
	case " ", "enter":
		if t, ok := m.selectedTodo(); ok {
			_, err := mom.Toggle(m.ctx, t.ID)
			m.warnIf(err)
			m.clampCursor()
		}
	case "d":
		if t, ok := m.selectedTodo(); ok {
			_, err := mom.Delete(m.ctx, t.ID)
			m.lastLog = "Deleted " + t.Text
			m.warnIf(err)
			m.clampCursor()
		}
	case "D":
		n, err := mom.DeleteCompleted(m.ctx)
		if n == 0 {
			m.lastLog = "No completed tasks to clear."
		} else {
			m.lastLog = fmt.Sprintf("Deleted %d completed task(s).", n)
		}
		m.warnIf(err)
		m.clampCursor()
	case "a":
		m.form = newForm("New task", "Title", "Description", "Priority", "Category", "Due (YYYY-MM-DD)")
		m.form.setValue(2, string(engine.DefaultPriority))
		m.mode = modeAddTodo
		m.notice = nil
	case "/":
		m.form = newForm("Search tasks", "Search")
		m.form.setValue(0, m.filter.Search)
		m.mode = modeSearch
	case "f":
		m.filter.Status = next(statusCycle, statusOrAll(m.filter.Status))
		m.cursor = 0
	case "c":
		m.filter.Category = next(categoryCycle, m.filter.Category)
		m.cursor = 0
	case "p":
		m.filter.Priority = next(priorityCycle, m.filter.Priority)
		m.cursor = 0
	case "s":
		m.filter.Sort = next(sortCycle, m.filter.Sort)
	case "esc":
		m.filter = engine.TodoFilter{Sort: m.filter.Sort}
		m.cursor = 0
	}
	return m, nil
}

func statusOrAll(s engine.StatusFilter) engine.StatusFilter {
	if s == "" {
		return engine.StatusAll
	}
	return s
}

func (m Model) submitTodo() (tea.Model, tea.Cmd) {
	prio, err := engine.ParsePriority(m.form.value(2))
	if err != nil {
		m.showError("Invalid task", err)
		return m, nil
	}
	cat, err := engine.ParseTodoCategory(m.form.value(3))
	if err != nil {
		m.showError("Invalid task", err)
		return m, nil
	}
	t, err := m.svc.Momentum().Add(m.ctx, engine.AddTodoInput{
		Title:       m.form.value(0),
		Description: m.form.value(1),
		Priority:    prio,
		Category:    cat,
		DueDate:     m.form.value(4),
	})
	if err != nil && !engine.IsPersistError(err) {
		m.showError("Invalid task", err)
		return m, nil
	}
	m.mode = modeBrowse
	m.warnIf(err)
	if t != nil {
		m.notice = nil
		m.lastLog = ui.IconPlus + " Added " + t.Text
		m.cursor = 0
	}
	return m, nil
}

func (m Model) renderMomentum() string {
	mom := m.svc.Momentum()
	st := mom.Stats()
	var out []string
	out = append(out, ui.H2.Render("Momentum")+"  "+
		fmt.Sprintf("%d active • %d done • velocity %s", st.Active, st.Completed, ui.Percent(mom.Velocity())))
	out = append(out, ui.Muted.Render(m.filterLine()))
	out = append(out, "")

	list := m.visibleTodos()
	if len(list) == 0 {
		if st.Total == 0 {
			out = append(out, ui.Muted.Render("No tasks yet. Press a to add one."))
		} else {
			out = append(out, ui.Muted.Render("No tasks match the current filters."))
		}
		return strings.Join(out, "\n")
	}
	for i, t := range list {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		text := t.Text
		if t.Completed {
			text = ui.Struck.Render(text)
		}
		line := fmt.Sprintf("%s%s %s  %s", cursor, ui.StatusIcon(t.Completed), text, ui.PriorityText(string(t.Priority)))
		if c := ui.CategoryText(string(t.Category)); c != "" {
			line += " " + c
		}
		if t.DueDate != nil {
			line += " " + ui.Muted.Render("due "+*t.DueDate)
		}
		out = append(out, line)
		if t.Description != "" && i == m.cursor {
			out = append(out, "     "+ui.Muted.Render(t.Description))
		}
	}
	return strings.Join(out, "\n")
}

func (m Model) filterLine() string {
	f := m.filter
	parts := []string{"status:" + string(statusOrAll(f.Status)), "sort:" + string(f.Sort)}
	if f.Category != "" {
		parts = append(parts, "category:"+string(f.Category))
	}
	if f.Priority != "" {
		parts = append(parts, "priority:"+string(f.Priority))
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", f.Search))
	}
	return strings.Join(parts, "  ")
}
