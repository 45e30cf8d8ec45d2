package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/preset"
	"github.com/calvinalkan/backlog/internal/query"
	"github.com/calvinalkan/backlog/internal/view"
)

var errConflictingWindow = errors.New("--page cannot be combined with --skip")

// LsCmd returns the ls command.
func LsCmd(a *app) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.StringP("preset", "p", "", "Preset: open|closed|mine (default from config)")
	fs.StringP("sort", "s", "", "Sort keys, e.g. -priority,dateCreated")
	fs.Int("skip", 0, "Skip first N items")
	fs.Int("take", 0, "Items per page (default from config)")
	fs.Int("page", 0, "1-based page number")
	fs.String("search", "", "Only items whose title or description contains text")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List items of a preset, one page at a time",
		Long: `List the items of a preset, sorted and paged.

An unknown preset is reported as a warning and the configured
default_preset is listed instead.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execLs(ctx, io, a, fs)
		},
	}
}

func execLs(ctx context.Context, io *IO, a *app, fs *flag.FlagSet) error {
	state, err := listStateFromFlags(a, fs)
	if err != nil {
		return err
	}

	name, _ := fs.GetString("preset")
	if fs.Changed("preset") {
		state.Preset = resolvePresetOrDefault(io, a, preset.Name(name))
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	list, err := view.NewList(st, state, a.logger)
	if err != nil {
		return err
	}

	snap, err := list.Refresh(ctx)
	if err != nil {
		return err
	}

	printPage(io, snap)

	return nil
}

func listStateFromFlags(a *app, fs *flag.FlagSet) (view.ListState, error) {
	state := view.ListState{
		Preset:      a.cfg.DefaultPreset,
		CurrentUser: a.cfg.User,
		View:        query.View{Take: a.cfg.PageSize},
	}

	state.Search, _ = fs.GetString("search")

	spec, _ := fs.GetString("sort")
	if spec != "" {
		keys, err := query.ParseSort(spec)
		if err != nil {
			return view.ListState{}, err
		}

		state.View.Sort = keys
	}

	if fs.Changed("take") {
		state.View.Take, _ = fs.GetInt("take")
	}

	state.View.Skip, _ = fs.GetInt("skip")

	if fs.Changed("page") {
		if fs.Changed("skip") {
			return view.ListState{}, errConflictingWindow
		}

		page, _ := fs.GetInt("page")

		v, err := query.Page(page, state.View.Take, state.View.Sort)
		if err != nil {
			return view.ListState{}, err
		}

		state.View = v
	}

	return state, nil
}

// resolvePresetOrDefault returns name when it resolves for the configured
// user, and otherwise warns and falls back to the configured default.
func resolvePresetOrDefault(io *IO, a *app, name preset.Name) preset.Name {
	_, err := preset.Resolve(name, a.cfg.User)
	if err == nil {
		return name
	}

	io.Warn(err.Error(), fmt.Sprintf("showing %q instead", a.cfg.DefaultPreset))

	return a.cfg.DefaultPreset
}

func printPage(io *IO, snap view.ListSnapshot) {
	for i := range snap.Page {
		io.Println(formatItemLine(&snap.Page[i]))
	}

	io.Println(pageFooter(snap))
}

func pageFooter(snap view.ListSnapshot) string {
	if len(snap.Page) == 0 {
		return fmt.Sprintf("# showing 0 of %d", snap.Total)
	}

	first := snap.State.View.Skip + 1
	last := snap.State.View.Skip + len(snap.Page)

	return fmt.Sprintf("# showing %d-%d of %d", first, last, snap.Total)
}

func formatItemLine(it *item.Item) string {
	line := fmt.Sprintf("%s [%s] %s - %s", it.ID, it.Status, it.Priority, it.Title)

	if name := assigneeName(it.Assignee); name != "" {
		line += " (" + name + ")"
	}

	return line
}

func assigneeName(u item.User) string {
	if u.FullName != "" {
		return u.FullName
	}

	return u.ID
}
