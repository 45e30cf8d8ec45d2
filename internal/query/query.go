// Package query orders and paginates item collections for the list view.
//
// [Apply] is a pure function. It never filters; callers narrow the
// collection first (with a preset predicate or [Search]) so that
// [Result.Total] reflects the filtered size shown by pagination controls.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/calvinalkan/backlog/internal/item"
)

// ErrInvalidDescriptor reports unusable pagination or sort parameters.
// Invalid values are rejected rather than clamped.
var ErrInvalidDescriptor = errors.New("invalid view descriptor")

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortKey is one comparator in a multi-key sort.
type SortKey struct {
	Field Field
	Dir   Direction
}

func (k SortKey) String() string {
	if k.Dir == Desc {
		return "-" + string(k.Field)
	}

	return string(k.Field)
}

// View describes the window and ordering of a list page.
// An empty Sort preserves input order.
type View struct {
	Skip int
	Take int
	Sort []SortKey
}

// Result is one page of a collection plus the collection size.
type Result struct {
	Page  []item.Item
	Total int
}

// Apply stable-sorts items by view.Sort and returns the window
// [Skip, Skip+Take). A window starting past the end yields an empty page.
func Apply(items []item.Item, view View) (Result, error) {
	err := view.validate()
	if err != nil {
		return Result{}, err
	}

	ordered := items
	if len(view.Sort) > 0 {
		ordered = slices.Clone(items)
		slices.SortStableFunc(ordered, comparator(view.Sort))
	}

	total := len(ordered)

	if view.Skip >= total {
		return Result{Page: []item.Item{}, Total: total}, nil
	}

	end := total
	if view.Take < total-view.Skip {
		end = view.Skip + view.Take
	}

	page := make([]item.Item, end-view.Skip)
	copy(page, ordered[view.Skip:end])

	return Result{Page: page, Total: total}, nil
}

func (v View) validate() error {
	if v.Skip < 0 {
		return fmt.Errorf("%w: skip must be non-negative, got %d", ErrInvalidDescriptor, v.Skip)
	}

	if v.Take <= 0 {
		return fmt.Errorf("%w: take must be positive, got %d", ErrInvalidDescriptor, v.Take)
	}

	for _, key := range v.Sort {
		if key.Dir != Asc && key.Dir != Desc {
			return fmt.Errorf("%w: direction %q for %s", ErrInvalidDescriptor, key.Dir, key.Field)
		}
	}

	return nil
}

// comparator applies keys left to right. Missing values sort last in
// either direction.
func comparator(keys []SortKey) func(a, b item.Item) int {
	return func(a, b item.Item) int {
		for _, key := range keys {
			order, hasA, hasB := compareField(key.Field, &a, &b)

			switch {
			case !hasA && !hasB:
				continue
			case !hasA:
				return 1
			case !hasB:
				return -1
			}

			if key.Dir == Desc {
				order = -order
			}

			if order != 0 {
				return order
			}
		}

		return 0
	}
}

// Page builds the view for the 1-based page number n of the given size.
func Page(n, size int, sort []SortKey) (View, error) {
	if n < 1 {
		return View{}, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidDescriptor, n)
	}

	if size <= 0 {
		return View{}, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidDescriptor, size)
	}

	return View{Skip: (n - 1) * size, Take: size, Sort: sort}, nil
}

// ParseSort parses a comma separated sort list such as "priority,-dateCreated".
// A leading '-' sorts descending; "field:asc" and "field:desc" are accepted too.
// An empty string yields no keys.
func ParseSort(spec string) ([]SortKey, error) {
	keys := make([]SortKey, 0)

	for part := range strings.SplitSeq(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		dir := Asc

		switch {
		case strings.HasPrefix(part, "-"):
			dir = Desc
			part = part[1:]
		case strings.HasPrefix(part, "+"):
			part = part[1:]
		}

		if name, suffix, ok := strings.Cut(part, ":"); ok {
			switch strings.ToLower(suffix) {
			case "asc":
				dir = Asc
			case "desc":
				dir = Desc
			default:
				return nil, fmt.Errorf("%w: direction %q", ErrInvalidDescriptor, suffix)
			}

			part = name
		}

		field, ok := lookupField(part)
		if !ok {
			return nil, fmt.Errorf("%w: unknown sort field %q", ErrInvalidDescriptor, part)
		}

		keys = append(keys, SortKey{Field: field, Dir: dir})
	}

	return keys, nil
}

// FormatSort renders keys in the syntax accepted by [ParseSort].
func FormatSort(keys []SortKey) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key.String())
	}

	return strings.Join(parts, ",")
}

// Search returns the items whose title or description contains text,
// ignoring case. Empty text matches everything.
func Search(items []item.Item, text string) []item.Item {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return item.Select(items, item.All)
	}

	return item.Select(items, func(it *item.Item) bool {
		return strings.Contains(strings.ToLower(it.Title), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle)
	})
}
