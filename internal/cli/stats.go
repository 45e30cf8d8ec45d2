package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/backlog/internal/aggregate"
	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/view"
)

const dateFlagLayout = "2006-01-02"

var (
	errInvalidDate       = errors.New("invalid date (want YYYY-MM-DD)")
	errConflictingRanges = errors.New("--months cannot be combined with --since or --until")
)

// StatsCmd returns the stats command.
func StatsCmd(a *app) *Command {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.StringP("user", "u", "", "Only items assigned to user ID")
	fs.String("since", "", "Only items created on or after `date` (YYYY-MM-DD)")
	fs.String("until", "", "Only items created on or before `date` (YYYY-MM-DD)")
	fs.Int("months", 0, "Only items created in the last N months")
	fs.Bool("json", false, "Print the summary as JSON")

	return &Command{
		Flags: fs,
		Usage: "stats [flags]",
		Short: "Show open/closed counts and a monthly series",
		Long: `Summarise items by status family and by creation month.

Months are calendar months in UTC. When --since is after --until the
series is empty.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execStats(ctx, io, a, fs)
		},
	}
}

func execStats(ctx context.Context, io *IO, a *app, fs *flag.FlagSet) error {
	filter, err := filterFromFlags(a, fs)
	if err != nil {
		return err
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	snap, err := view.NewDashboard(st, filter, a.logger).Refresh(ctx)
	if err != nil {
		return err
	}

	asJSON, _ := fs.GetBool("json")
	if asJSON {
		enc := json.NewEncoder(io.Out())
		enc.SetIndent("", "  ")

		return enc.Encode(snap.Summary)
	}

	printSummary(io, snap.Summary)

	return nil
}

func filterFromFlags(a *app, fs *flag.FlagSet) (item.Filter, error) {
	var filter item.Filter

	filter.UserID, _ = fs.GetString("user")

	if fs.Changed("months") {
		if fs.Changed("since") || fs.Changed("until") {
			return item.Filter{}, errConflictingRanges
		}

		months, _ := fs.GetInt("months")

		rng, err := aggregate.LastMonths(a.now(), months)
		if err != nil {
			return item.Filter{}, err
		}

		rng.UserID = filter.UserID

		return rng, nil
	}

	since, _ := fs.GetString("since")
	if since != "" {
		t, err := parseDateFlag(since)
		if err != nil {
			return item.Filter{}, err
		}

		filter.DateStart = &t
	}

	until, _ := fs.GetString("until")
	if until != "" {
		t, err := parseDateFlag(until)
		if err != nil {
			return item.Filter{}, err
		}

		// Inclusive of the whole day.
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.DateEnd = &end
	}

	return filter, nil
}

func parseDateFlag(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateFlagLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", errInvalidDate, value)
	}

	return t, nil
}

func printSummary(io *IO, s aggregate.Summary) {
	c := s.Counts
	io.Printf("open=%d closed=%d active=%d close_rate=%.1f%%\n",
		c.OpenItemsCount, c.ClosedItemsCount, c.ActiveItemsCount, c.CloseRate*100)

	for _, b := range s.Series {
		io.Printf("%s  open=%d closed=%d\n", b.Label(), b.OpenCount, b.ClosedCount)
	}
}
