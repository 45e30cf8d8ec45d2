// Package view holds the state behind the list and dashboard views and
// re-runs the pure engines whenever that state changes.
//
// Controllers own all mutable state. Each Refresh fetches a fresh
// collection and transforms it; when refreshes overlap, the result of the
// most recently issued one is kept. A failed fetch leaves the previous
// result in place.
//
// Controllers are safe for concurrent use.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/preset"
	"github.com/calvinalkan/backlog/internal/store"
)

// ErrDataUnavailable is reported when the fetcher fails. It is the same
// sentinel the store uses, so errors.Is works across both packages.
var ErrDataUnavailable = store.ErrDataUnavailable

// PresetFetcher loads the items behind a list preset.
type PresetFetcher interface {
	FetchByPreset(ctx context.Context, name preset.Name, currentUserID string) ([]item.Item, error)
}

// FilterFetcher loads the items matching a dashboard filter.
type FilterFetcher interface {
	FetchByFilter(ctx context.Context, filter item.Filter) ([]item.Item, error)
}

func fetchError(err error) error {
	if errors.Is(err, ErrDataUnavailable) || errors.Is(err, preset.ErrInvalidPreset) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return logger
}
