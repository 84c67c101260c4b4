package timer

import "slices"

const (
	// CategoryOther is the bucket for timers whose category is not known.
	CategoryOther = "Other"
	// CategoryAll is the pseudo-category used by filters.
	CategoryAll = "All"
)

// DefaultCategories returns a fresh copy of the built-in category list.
func DefaultCategories() []string {
	return []string{"Workout", "Study", "Break", CategoryOther}
}

// Classify maps a timer category onto the known list. A category that is in
// known is returned as is; anything else, including the empty string, lands
// in CategoryOther.
func Classify(category string, known []string) string {
	if category != "" && slices.Contains(known, category) {
		return category
	}
	return CategoryOther
}

// IsKnownCategory reports whether category is one of known.
func IsKnownCategory(category string, known []string) bool {
	return slices.Contains(known, category)
}

// Group is one category partition of the timer list.
type Group struct {
	Name      string
	Timers    []Timer
	Running   int
	Completed int
}

// GroupByCategory partitions timers by their classified category. Groups
// follow the order of known, with Other appended when it is needed but not
// listed. Empty groups are omitted.
func GroupByCategory(timers []Timer, known []string) []Group {
	order := slices.Clone(known)
	if !slices.Contains(order, CategoryOther) {
		order = append(order, CategoryOther)
	}
	index := make(map[string]int, len(order))
	groups := make([]Group, len(order))
	for i, name := range order {
		index[name] = i
		groups[i].Name = name
	}

	for _, t := range timers {
		g := &groups[index[Classify(t.Category, known)]]
		g.Timers = append(g.Timers, t)
		switch t.Status {
		case StatusRunning:
			g.Running++
		case StatusCompleted:
			g.Completed++
		}
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Timers) > 0 {
			out = append(out, g)
		}
	}
	return out
}
