package view

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/preset"
	"github.com/calvinalkan/backlog/internal/query"
)

// ListState is the input of the list view.
type ListState struct {
	Preset      preset.Name
	CurrentUser string
	Search      string
	View        query.View
}

func (s ListState) clone() ListState {
	s.View.Sort = slices.Clone(s.View.Sort)

	return s
}

// ListSnapshot is the last applied list result together with the state
// that produced it.
type ListSnapshot struct {
	State  ListState
	Page   []item.Item
	Total  int
	Loaded bool
}

// List drives the paginated item list.
type List struct {
	fetcher PresetFetcher
	logger  *slog.Logger

	mu     sync.Mutex
	state  ListState
	result ListSnapshot
	seq    sequence
}

// NewList returns a list controller starting at initial. The initial preset
// must resolve; callers pick a fallback when it does not.
func NewList(fetcher PresetFetcher, initial ListState, logger *slog.Logger) (*List, error) {
	_, err := preset.Resolve(initial.Preset, initial.CurrentUser)
	if err != nil {
		return nil, err
	}

	return &List{
		fetcher: fetcher,
		logger:  orDiscard(logger),
		state:   initial.clone(),
	}, nil
}

// State returns the current input state.
func (l *List) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state.clone()
}

// Snapshot returns the last applied result.
func (l *List) Snapshot() ListSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := l.result
	snap.State = snap.State.clone()
	snap.Page = slices.Clone(snap.Page)

	return snap
}

// SetPreset switches presets and returns to the first page. An unknown
// preset leaves the state unchanged.
func (l *List) SetPreset(name preset.Name) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := preset.Resolve(name, l.state.CurrentUser)
	if err != nil {
		return err
	}

	l.state.Preset = name
	l.state.View.Skip = 0

	return nil
}

// SetSearch sets the free-text filter and returns to the first page.
func (l *List) SetSearch(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.Search = text
	l.state.View.Skip = 0
}

// SetSort replaces the sort keys; the current window is kept.
func (l *List) SetSort(keys []query.SortKey) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.View.Sort = slices.Clone(keys)
}

// SetPage moves to the 1-based page n using the current page size.
func (l *List) SetPage(n int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, err := query.Page(n, l.state.View.Take, l.state.View.Sort)
	if err != nil {
		return err
	}

	l.state.View = v

	return nil
}

// SetWindow sets skip and take directly. Validation happens on Refresh.
func (l *List) SetWindow(skip, take int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.View.Skip = skip
	l.state.View.Take = take
}

// begin snapshots the state and issues its ticket under one lock, so a
// later ticket always carries later state.
func (l *List) begin() (ListState, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state.clone(), l.seq.next()
}

// Refresh fetches the preset's items and recomputes the page for the
// current state. On error the previous snapshot is kept.
func (l *List) Refresh(ctx context.Context) (ListSnapshot, error) {
	state, ticket := l.begin()

	items, err := l.fetcher.FetchByPreset(ctx, state.Preset, state.CurrentUser)
	if err != nil {
		return l.Snapshot(), fmt.Errorf("refresh list: %w", fetchError(err))
	}

	res, err := query.Apply(query.Search(items, state.Search), state.View)
	if err != nil {
		return l.Snapshot(), fmt.Errorf("refresh list: %w", err)
	}

	l.mu.Lock()

	if l.seq.accept(ticket) {
		l.result = ListSnapshot{State: state, Page: res.Page, Total: res.Total, Loaded: true}
	} else {
		l.logger.Debug("discarding superseded list result", "ticket", ticket, "preset", state.Preset)
	}

	l.mu.Unlock()

	return l.Snapshot(), nil
}
