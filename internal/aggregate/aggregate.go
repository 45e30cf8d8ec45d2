// Package aggregate computes dashboard statistics over item collections.
//
// [Summarize] filters by assignee and creation date, counts items by status
// family and buckets them by calendar month (UTC). It is deliberately
// permissive: an inverted date range produces an empty series and counts
// over whatever matched, never an error.
package aggregate

import (
	"errors"
	"fmt"
	"time"

	"github.com/calvinalkan/backlog/internal/item"
)

// ErrInvalidRange reports a non-positive month count for [LastMonths].
var ErrInvalidRange = errors.New("invalid date range")

// StatusCounts holds the dashboard rollup. ActiveItemsCount is tracked
// separately from OpenItemsCount even though both count the open family
// today.
type StatusCounts struct {
	ActiveItemsCount int     `json:"active_items_count"`
	ClosedItemsCount int     `json:"closed_items_count"`
	OpenItemsCount   int     `json:"open_items_count"`
	CloseRate        float64 `json:"close_rate"`
}

// Bucket counts the items created in one calendar month.
type Bucket struct {
	Start       time.Time `json:"start"`
	OpenCount   int       `json:"open_count"`
	ClosedCount int       `json:"closed_count"`
}

// Label formats the bucket month as "2006-01".
func (b Bucket) Label() string {
	return b.Start.Format("2006-01")
}

// Summary is the result of [Summarize].
type Summary struct {
	Counts StatusCounts `json:"counts"`
	Series []Bucket     `json:"series"`
}

// Summarize computes counts and the monthly series for the items matching
// filter. The input slice is not modified.
func Summarize(items []item.Item, filter item.Filter) Summary {
	matched := item.Select(items, filter.Match)

	return Summary{
		Counts: countStatuses(matched),
		Series: buildSeries(matched, filter),
	}
}

func countStatuses(items []item.Item) StatusCounts {
	var counts StatusCounts

	for i := range items {
		switch items[i].Status.Family() {
		case item.FamilyOpen:
			counts.OpenItemsCount++
			counts.ActiveItemsCount++
		case item.FamilyClosed:
			counts.ClosedItemsCount++
		case item.FamilyNone:
		}
	}

	counted := counts.OpenItemsCount + counts.ClosedItemsCount
	if counted > 0 {
		counts.CloseRate = float64(counts.ClosedItemsCount) / float64(counted)
	}

	return counts
}

func buildSeries(items []item.Item, filter item.Filter) []Bucket {
	first, last, ok := seriesRange(items, filter)
	if !ok {
		return []Bucket{}
	}

	firstMonth := monthStart(first)
	lastMonth := monthStart(last)

	series := make([]Bucket, 0, monthIndex(firstMonth, lastMonth)+1)
	for month := firstMonth; !month.After(lastMonth); month = month.AddDate(0, 1, 0) {
		series = append(series, Bucket{Start: month})
	}

	for i := range items {
		idx := monthIndex(firstMonth, items[i].DateCreated)
		if idx < 0 || idx >= len(series) {
			continue
		}

		switch items[i].Status.Family() {
		case item.FamilyOpen:
			series[idx].OpenCount++
		case item.FamilyClosed:
			series[idx].ClosedCount++
		case item.FamilyNone:
		}
	}

	return series
}

// seriesRange picks the span the series covers. With both bounds set the
// span is exactly the bounds; otherwise it stretches from the earliest to
// the latest matched item, widened by whichever bound is given.
func seriesRange(items []item.Item, filter item.Filter) (time.Time, time.Time, bool) {
	if filter.Inverted() {
		return time.Time{}, time.Time{}, false
	}

	if filter.DateStart != nil && filter.DateEnd != nil {
		return *filter.DateStart, *filter.DateEnd, true
	}

	if len(items) == 0 {
		return time.Time{}, time.Time{}, false
	}

	first, last := items[0].DateCreated, items[0].DateCreated

	for i := range items[1:] {
		created := items[i+1].DateCreated
		if created.Before(first) {
			first = created
		}

		if created.After(last) {
			last = created
		}
	}

	if filter.DateStart != nil && filter.DateStart.Before(first) {
		first = *filter.DateStart
	}

	if filter.DateEnd != nil && filter.DateEnd.After(last) {
		last = *filter.DateEnd
	}

	return first, last, true
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthIndex returns how many calendar months t lies after the month of base.
func monthIndex(base, t time.Time) int {
	base, t = base.UTC(), t.UTC()

	return (t.Year()-base.Year())*12 + int(t.Month()) - int(base.Month())
}

// LastMonths returns the filter covering the months before now, the range
// behind the dashboard month-range shortcuts.
// The user constraint is left empty.
func LastMonths(now time.Time, months int) (item.Filter, error) {
	if months <= 0 {
		return item.Filter{}, fmt.Errorf("%w: months must be positive, got %d", ErrInvalidRange, months)
	}

	start := now.AddDate(0, -months, 0)

	return item.Filter{DateStart: &start, DateEnd: &now}, nil
}
