// Package preset maps named list views to item predicates.
//
// Resolution is stateless: identity-dependent presets such as [Mine]
// take the current user from the caller instead of looking it up.
// Unknown names are an error, and choosing a fallback is left to the
// call site.
package preset

import (
	"errors"
	"fmt"

	"github.com/calvinalkan/backlog/internal/item"
)

// Name identifies a preset view.
type Name string

// Known presets.
const (
	Open   Name = "open"
	Closed Name = "closed"
	Mine   Name = "mine"
)

// Default is the preset callers fall back to when none is given.
const Default = Open

// ErrInvalidPreset is returned for names outside [Names], and for [Mine]
// without a current user.
var ErrInvalidPreset = errors.New("invalid preset")

// Names returns the recognised presets.
func Names() []Name {
	return []Name{Open, Closed, Mine}
}

// Resolve returns the predicate for name. currentUserID is only consulted
// by [Mine].
func Resolve(name Name, currentUserID string) (item.Predicate, error) {
	switch name {
	case Open:
		return func(it *item.Item) bool { return it.Status.IsOpen() }, nil
	case Closed:
		return func(it *item.Item) bool { return it.Status.IsClosed() }, nil
	case Mine:
		if currentUserID == "" {
			return nil, fmt.Errorf("%w: %s requires a current user", ErrInvalidPreset, name)
		}

		return func(it *item.Item) bool { return it.Assignee.ID == currentUserID }, nil
	}

	if name == "" {
		return nil, fmt.Errorf("%w: (empty)", ErrInvalidPreset)
	}

	return nil, fmt.Errorf("%w: %s", ErrInvalidPreset, name)
}
