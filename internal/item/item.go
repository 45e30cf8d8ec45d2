// Package item defines the work items that the query and aggregation
// engines operate on.
//
// Everything here is a value type. Functions that filter or copy
// collections never modify their input slices.
package item

import (
	"fmt"
	"strings"
	"time"
)

// User is the person an item is assigned to.
type User struct {
	ID       string `json:"id" yaml:"id"`
	FullName string `json:"full_name" yaml:"full_name"`
	Avatar   string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

// Item is a unit of tracked work.
type Item struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Type        Type      `json:"type" yaml:"type"`
	Status      Status    `json:"status" yaml:"status"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	Estimate    *float64  `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	Assignee    User      `json:"assignee" yaml:"assignee"`
	DateCreated time.Time `json:"date_created" yaml:"date_created"`
}

// Validate checks the fields the engines rely on.
func (it *Item) Validate() error {
	if it.ID == "" {
		return ErrIDRequired
	}

	if strings.TrimSpace(it.Title) == "" {
		return fmt.Errorf("%s: %w", it.ID, ErrTitleRequired)
	}

	if !it.Status.Valid() {
		return fmt.Errorf("%s: %w: %q", it.ID, ErrInvalidStatus, it.Status)
	}

	if _, err := ParseType(string(it.Type)); err != nil {
		return fmt.Errorf("%s: %w", it.ID, err)
	}

	if it.Priority.Rank() == 0 {
		return fmt.Errorf("%s: %w: %q", it.ID, ErrInvalidPriority, it.Priority)
	}

	if it.DateCreated.IsZero() {
		return fmt.Errorf("%s: %w", it.ID, ErrCreatedMissing)
	}

	return nil
}

// Normalize canonicalises the case of Type and Priority so that values
// from hand-edited files compare equal to the constants.
func (it *Item) Normalize() {
	it.Type = Type(strings.ToLower(string(it.Type)))
	it.Priority = Priority(strings.ToLower(string(it.Priority)))
}

// ValidateAll validates every item and checks that IDs are unique.
func ValidateAll(items []Item) error {
	seen := make(map[string]struct{}, len(items))

	for i := range items {
		err := items[i].Validate()
		if err != nil {
			return err
		}

		if _, dup := seen[items[i].ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, items[i].ID)
		}

		seen[items[i].ID] = struct{}{}
	}

	return nil
}

// Predicate reports whether an item belongs to a view.
type Predicate func(it *Item) bool

// All matches every item.
func All(*Item) bool { return true }

// And combines predicates; an empty list matches everything.
func And(preds ...Predicate) Predicate {
	return func(it *Item) bool {
		for _, pred := range preds {
			if !pred(it) {
				return false
			}
		}

		return true
	}
}

// Select returns the items matching pred, in input order, as a new slice.
func Select(items []Item, pred Predicate) []Item {
	out := make([]Item, 0, len(items))

	for i := range items {
		if pred(&items[i]) {
			out = append(out, items[i])
		}
	}

	return out
}

// Filter constrains a collection by assignee and creation date.
// Zero-value fields mean "no constraint" for that dimension.
// Both date bounds are inclusive.
type Filter struct {
	UserID    string
	DateStart *time.Time
	DateEnd   *time.Time
}

// Inverted reports whether both bounds are set and start is after end.
func (f Filter) Inverted() bool {
	return f.DateStart != nil && f.DateEnd != nil && f.DateStart.After(*f.DateEnd)
}

// Match reports whether it satisfies every constraint of f.
func (f Filter) Match(it *Item) bool {
	if f.UserID != "" && it.Assignee.ID != f.UserID {
		return false
	}

	if f.DateStart != nil && it.DateCreated.Before(*f.DateStart) {
		return false
	}

	if f.DateEnd != nil && it.DateCreated.After(*f.DateEnd) {
		return false
	}

	return true
}

// TimePtr returns a pointer to a copy of t, for building filters inline.
func TimePtr(t time.Time) *time.Time {
	return &t
}
