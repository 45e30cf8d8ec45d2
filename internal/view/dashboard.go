package view

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/calvinalkan/backlog/internal/aggregate"
	"github.com/calvinalkan/backlog/internal/item"
)

// DashboardSnapshot is the last applied summary and the filter behind it.
type DashboardSnapshot struct {
	Filter  item.Filter
	Summary aggregate.Summary
	Loaded  bool
}

// Dashboard drives the statistics view.
type Dashboard struct {
	fetcher FilterFetcher
	logger  *slog.Logger

	mu     sync.Mutex
	filter item.Filter
	result DashboardSnapshot
	seq    sequence
}

// NewDashboard returns a dashboard controller with the given filter.
func NewDashboard(fetcher FilterFetcher, initial item.Filter, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		fetcher: fetcher,
		logger:  orDiscard(logger),
		filter:  cloneFilter(initial),
	}
}

func cloneFilter(f item.Filter) item.Filter {
	if f.DateStart != nil {
		f.DateStart = item.TimePtr(*f.DateStart)
	}

	if f.DateEnd != nil {
		f.DateEnd = item.TimePtr(*f.DateEnd)
	}

	return f
}

// Filter returns the current filter.
func (d *Dashboard) Filter() item.Filter {
	d.mu.Lock()
	defer d.mu.Unlock()

	return cloneFilter(d.filter)
}

// Snapshot returns the last applied summary.
func (d *Dashboard) Snapshot() DashboardSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := d.result
	snap.Filter = cloneFilter(snap.Filter)
	snap.Summary.Series = slices.Clone(snap.Summary.Series)

	return snap
}

// SetUser restricts the dashboard to one assignee; empty clears it.
func (d *Dashboard) SetUser(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.filter.UserID = userID
}

// SetRange sets the inclusive date bounds; nil clears a bound. An inverted
// range is accepted and summarises to an empty series.
func (d *Dashboard) SetRange(start, end *time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.filter.DateStart = nil
	d.filter.DateEnd = nil

	if start != nil {
		d.filter.DateStart = item.TimePtr(*start)
	}

	if end != nil {
		d.filter.DateEnd = item.TimePtr(*end)
	}
}

// SetLastMonths sets the range to the months before now, keeping the user.
func (d *Dashboard) SetLastMonths(now time.Time, months int) error {
	rng, err := aggregate.LastMonths(now, months)
	if err != nil {
		return err
	}

	d.SetRange(rng.DateStart, rng.DateEnd)

	return nil
}

// begin snapshots the filter and issues its ticket under one lock.
func (d *Dashboard) begin() (item.Filter, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return cloneFilter(d.filter), d.seq.next()
}

// Refresh fetches the items for the current filter and recomputes the
// summary. On error the previous snapshot is kept.
func (d *Dashboard) Refresh(ctx context.Context) (DashboardSnapshot, error) {
	filter, ticket := d.begin()

	items, err := d.fetcher.FetchByFilter(ctx, filter)
	if err != nil {
		return d.Snapshot(), fmt.Errorf("refresh dashboard: %w", fetchError(err))
	}

	summary := aggregate.Summarize(items, filter)

	d.mu.Lock()

	if d.seq.accept(ticket) {
		d.result = DashboardSnapshot{Filter: filter, Summary: summary, Loaded: true}
	} else {
		d.logger.Debug("discarding superseded dashboard result", "ticket", ticket)
	}

	d.mu.Unlock()

	return d.Snapshot(), nil
}
