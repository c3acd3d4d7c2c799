package engine

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// rank orders priorities High < Medium < Low.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// DefaultPriority is used when user input is missing/invalid.
const DefaultPriority Priority = PriorityMedium

// TodoCategory tags Momentum tasks.
type TodoCategory string

const (
	TodoWork     TodoCategory = "Work"
	TodoPersonal TodoCategory = "Personal"
	TodoHealth   TodoCategory = "Health"
	TodoLearning TodoCategory = "Learning"
	TodoShopping TodoCategory = "Shopping"
	TodoOther    TodoCategory = "Other"
)

var TodoCategories = []TodoCategory{TodoWork, TodoPersonal, TodoHealth, TodoLearning, TodoShopping, TodoOther}

func (c TodoCategory) IsValid() bool {
	for _, v := range TodoCategories {
		if c == v {
			return true
		}
	}
	return false
}

// OrOther maps a missing category to Other for display and sorting.
func (c TodoCategory) OrOther() TodoCategory {
	if c == "" {
		return TodoOther
	}
	return c
}

// ResolutionCategory is the single category set used by Vault goals.
type ResolutionCategory string

const (
	ResolutionPersonal ResolutionCategory = "Personal"
	ResolutionCoding   ResolutionCategory = "Coding"
	ResolutionFinance  ResolutionCategory = "Finance"
	ResolutionHealth   ResolutionCategory = "Health"
	ResolutionCareer   ResolutionCategory = "Career"
)

var ResolutionCategories = []ResolutionCategory{ResolutionPersonal, ResolutionCoding, ResolutionFinance, ResolutionHealth, ResolutionCareer}

func (c ResolutionCategory) IsValid() bool {
	for _, v := range ResolutionCategories {
		if c == v {
			return true
		}
	}
	return false
}

const DefaultResolutionCategory ResolutionCategory = ResolutionPersonal

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

type SortOption string

const (
	SortNewest       SortOption = "newest"
	SortOldest       SortOption = "oldest"
	SortPriorityHigh SortOption = "priority-high"
	SortPriorityLow  SortOption = "priority-low"
	SortCategory     SortOption = "category"
)

func (s SortOption) IsValid() bool {
	switch s {
	case SortNewest, SortOldest, SortPriorityHigh, SortPriorityLow, SortCategory:
		return true
	default:
		return false
	}
}
