package engine

import (
	"fmt"
	"strings"
)

// ParsePriority parses user input to a Priority.
// Accepts full names and h/m/l shorthands. Empty input returns DefaultPriority.
func ParsePriority(input string) (Priority, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "":
		return DefaultPriority, nil
	case "high", "h":
		return PriorityHigh, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("invalid priority: %q", input)
	}
}

// ParseTodoCategory matches case-insensitively. Empty input means "no category".
func ParseTodoCategory(input string) (TodoCategory, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}
	for _, c := range TodoCategories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category: %q", input)
}

// ParseResolutionCategory matches case-insensitively; empty input yields the default.
func ParseResolutionCategory(input string) (ResolutionCategory, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return DefaultResolutionCategory, nil
	}
	for _, c := range ResolutionCategories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category: %q", input)
}

func ParseStatusFilter(input string) (StatusFilter, error) {
	s := StatusFilter(strings.TrimSpace(strings.ToLower(input)))
	switch s {
	case "":
		return StatusAll, nil
	case StatusAll, StatusActive, StatusCompleted:
		return s, nil
	default:
		return "", fmt.Errorf("invalid status filter: %q", input)
	}
}

func ParseSortOption(input string) (SortOption, error) {
	s := SortOption(strings.TrimSpace(strings.ToLower(input)))
	if s == "" {
		return SortNewest, nil
	}
	if !s.IsValid() {
		return "", fmt.Errorf("invalid sort: %q", input)
	}
	return s, nil
}
