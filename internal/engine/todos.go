package engine

import (
	"context"
	"math"
	"strings"
	"time"
)

type Todo struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Description string       `json:"description,omitempty"`
	Category    TodoCategory `json:"category,omitempty"`
	Completed   bool         `json:"completed"`
	Priority    Priority     `json:"priority"`
	DueDate     *string      `json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type AddTodoInput struct {
	Title       string
	Description string       `validate:"max=2000"`
	Priority    Priority     `validate:"omitempty,oneof=High Medium Low"`
	Category    TodoCategory `validate:"omitempty,oneof=Work Personal Health Learning Shopping Other"`
	DueDate     string       `validate:"omitempty,datetime=2006-01-02"`
}

type TodoStats struct {
	Total     int
	Active    int
	Completed int
}

// Momentum owns the daily to-do list. Every mutation is persisted
// immediately; stored order is insertion order (newest first).
type Momentum struct {
	svc   *Service
	todos []Todo
}

// All returns a copy of the stored list.
func (m *Momentum) All() []Todo {
	out := make([]Todo, len(m.todos))
	copy(out, m.todos)
	return out
}

// Add prepends a new todo. An empty title is a silent no-op: (nil, nil).
func (m *Momentum) Add(ctx context.Context, in AddTodoInput) (*Todo, error) {
	title, ok := normalizeTitle(in.Title)
	if !ok {
		return nil, nil
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}
	prio := in.Priority
	if prio == "" {
		prio = DefaultPriority
	}

	t := Todo{
		ID:          m.svc.newID(),
		Text:        title,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Priority:    prio,
		CreatedAt:   m.svc.now().UTC().Truncate(time.Millisecond),
	}
	if in.DueDate != "" {
		d := in.DueDate
		t.DueDate = &d
	}

	m.todos = append([]Todo{t}, m.todos...)
	m.svc.log.DebugContext(ctx, "todo added", "id", t.ID, "category", t.Category)
	return &t, m.save(ctx)
}

// Toggle flips Completed on the matching todo. Unknown ids are a no-op.
func (m *Momentum) Toggle(ctx context.Context, id string) (*Todo, error) {
	i := m.index(id)
	if i < 0 {
		return nil, nil
	}
	m.todos[i].Completed = !m.todos[i].Completed
	t := m.todos[i]
	return &t, m.save(ctx)
}

// SetDueDate sets or (with an empty date) clears the due date.
func (m *Momentum) SetDueDate(ctx context.Context, id string, date string) error {
	if err := checkInput(struct {
		DueDate string `validate:"omitempty,datetime=2006-01-02"`
	}{date}); err != nil {
		return err
	}
	i := m.index(id)
	if i < 0 {
		return ErrTodoNotFound
	}
	if date == "" {
		m.todos[i].DueDate = nil
	} else {
		m.todos[i].DueDate = &date
	}
	return m.save(ctx)
}

// Delete removes the matching todo and reports whether one was removed.
func (m *Momentum) Delete(ctx context.Context, id string) (bool, error) {
	i := m.index(id)
	if i < 0 {
		return false, nil
	}
	m.todos = append(m.todos[:i:i], m.todos[i+1:]...)
	return true, m.save(ctx)
}

// DeleteCompleted removes every completed todo in one write and returns the count.
func (m *Momentum) DeleteCompleted(ctx context.Context) (int, error) {
	kept := make([]Todo, 0, len(m.todos))
	for _, t := range m.todos {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(m.todos) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	m.todos = kept
	return removed, m.save(ctx)
}

// Query returns a filtered, sorted view; the stored list is not touched.
func (m *Momentum) Query(f TodoFilter) []Todo {
	return QueryTodos(m.todos, f)
}

// Find resolves a full id or unique id prefix.
func (m *Momentum) Find(prefix string) (*Todo, error) {
	i, err := matchID(m.todos, func(t Todo) string { return t.ID }, prefix, ErrTodoNotFound)
	if err != nil {
		return nil, err
	}
	t := m.todos[i]
	return &t, nil
}

func (m *Momentum) Stats() TodoStats {
	st := TodoStats{Total: len(m.todos)}
	for _, t := range m.todos {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	return st
}

// Velocity is the rounded percentage of completed todos, 0 for an empty list.
func (m *Momentum) Velocity() int {
	st := m.Stats()
	if st.Total == 0 {
		return 0
	}
	return int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
}

func (m *Momentum) index(id string) int {
	for i := range m.todos {
		if m.todos[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Momentum) save(ctx context.Context) error {
	return m.svc.persist(ctx, KeyTodos, m.todos)
}

// normalizeTodos repairs documents written by older versions: unknown
// priorities become Medium and unknown categories are dropped.
func normalizeTodos(in []Todo) []Todo {
	out := make([]Todo, 0, len(in))
	for _, t := range in {
		if t.ID == "" {
			continue
		}
		if !t.Priority.IsValid() {
			t.Priority = DefaultPriority
		}
		if t.Category != "" && !t.Category.IsValid() {
			t.Category = ""
		}
		out = append(out, t)
	}
	return out
}
