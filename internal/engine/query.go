package engine

import (
	"sort"
	"strings"
)

// TodoFilter describes a derived Momentum view. Zero values mean "all".
type TodoFilter struct {
	Search   string
	Status   StatusFilter
	Category TodoCategory
	Priority Priority
	Sort     SortOption
}

// QueryTodos filters and sorts a copy of list. Search is a case-insensitive
// substring match against text or description.
func QueryTodos(list []Todo, f TodoFilter) []Todo {
	q := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Todo, 0, len(list))
	for _, t := range list {
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Text), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		switch f.Status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		out = append(out, t)
	}

	sortTodos(out, f.Sort)
	return out
}

func sortTodos(list []Todo, by SortOption) {
	var less func(a, b Todo) bool
	switch by {
	case SortOldest:
		less = func(a, b Todo) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortPriorityHigh:
		less = func(a, b Todo) bool { return a.Priority.rank() < b.Priority.rank() }
	case SortPriorityLow:
		less = func(a, b Todo) bool { return a.Priority.rank() > b.Priority.rank() }
	case SortCategory:
		less = func(a, b Todo) bool { return a.Category.OrOther() < b.Category.OrOther() }
	default:
		less = func(a, b Todo) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}
