package item

import (
	"fmt"
	"strings"
)

// Type is the kind of work an item represents. It drives iconography only.
type Type string

// Type constants.
const (
	TypePBI        Type = "pbi"
	TypeBug        Type = "bug"
	TypeChore      Type = "chore"
	TypeImpediment Type = "impediment"
	TypeFeature    Type = "feature"
	TypeTask       Type = "task"
)

// DefaultType is used when a new item does not name one.
const DefaultType = TypePBI

var validTypes = []Type{TypePBI, TypeBug, TypeChore, TypeImpediment, TypeFeature, TypeTask}

// Types returns all known item types.
func Types() []Type {
	out := make([]Type, len(validTypes))
	copy(out, validTypes)

	return out
}

// ParseType validates an item type. Matching is case-insensitive so that
// "PBI" from older exports is accepted.
func ParseType(value string) (Type, error) {
	lowered := Type(strings.ToLower(value))

	for _, t := range validTypes {
		if t == lowered {
			return t, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrInvalidType, value)
}

// Priority is a display-only urgency level.
type Priority string

// Priority constants, lowest first.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// DefaultPriority is assigned to new items.
const DefaultPriority = PriorityMedium

// Rank orders priorities from 1 (low) to 4 (critical). Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}

	return 0
}

// ParsePriority validates a priority string.
func ParsePriority(value string) (Priority, error) {
	priority := Priority(strings.ToLower(value))
	if priority.Rank() == 0 {
		return "", fmt.Errorf("%w: %s", ErrInvalidPriority, value)
	}

	return priority, nil
}
