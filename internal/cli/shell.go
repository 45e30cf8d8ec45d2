package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/preset"
	"github.com/calvinalkan/backlog/internal/query"
	"github.com/calvinalkan/backlog/internal/view"
)

var errUsage = errors.New("usage")

// ShellCmd returns the shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Browse the list and dashboard interactively",
		Long:  "Start an interactive session. Type 'help' at the prompt for commands.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			list, err := view.NewList(st, view.ListState{
				Preset:      a.cfg.DefaultPreset,
				CurrentUser: a.cfg.User,
				View:        query.View{Take: a.cfg.PageSize},
			}, a.logger)
			if err != nil {
				return err
			}

			sh := &shell{
				io:   io,
				list: list,
				dash: view.NewDashboard(st, item.Filter{}, a.logger),
				now:  a.now,
			}

			line := liner.NewLiner()
			defer line.Close()

			line.SetCtrlCAborts(true)
			line.SetCompleter(sh.complete)

			history := historyFile(a.env)
			if f, openErr := os.Open(history); openErr == nil {
				_, _ = line.ReadHistory(f)
				_ = f.Close()
			}

			err = sh.run(ctx, line)

			if history != "" {
				if f, createErr := os.Create(history); createErr == nil {
					_, _ = line.WriteHistory(f)
					_ = f.Close()
				}
			}

			return err
		},
	}
}

func historyFile(env map[string]string) string {
	home := env["HOME"]
	if home == "" {
		return ""
	}

	return filepath.Join(home, ".bl_history")
}

// prompter is the part of *liner.State the loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type shell struct {
	io   *IO
	list *view.List
	dash *view.Dashboard
	now  func() time.Time
}

var shellCommands = []string{
	"ls", "preset", "sort", "page", "next", "prev", "search",
	"stats", "user", "range", "months", "help", "exit", "quit", "q",
}

func (s *shell) complete(line string) []string {
	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range shellCommands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (s *shell) run(ctx context.Context, p prompter) error {
	s.io.Println("bl shell - type 'help' for commands")

	err := s.showList(ctx)
	if err != nil {
		s.io.Println("error:", err)
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, err := p.Prompt("bl> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		p.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		if cmd == "exit" || cmd == "quit" || cmd == "q" {
			return nil
		}

		err = s.dispatch(ctx, cmd, args)
		if err != nil {
			s.io.Println("error:", err)
		}
	}
}

func (s *shell) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		s.printHelp()

		return nil
	case "ls", "list":
		// fall through to the refresh below
	case "preset":
		if len(args) != 1 {
			return fmt.Errorf("%w: preset <open|closed|mine>", errUsage)
		}

		err := s.list.SetPreset(preset.Name(args[0]))
		if err != nil {
			return err
		}
	case "sort":
		keys, err := query.ParseSort(strings.Join(args, ","))
		if err != nil {
			return err
		}

		s.list.SetSort(keys)
	case "page":
		if len(args) != 1 {
			return fmt.Errorf("%w: page <n>", errUsage)
		}

		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: page <n>", errUsage)
		}

		err = s.list.SetPage(n)
		if err != nil {
			return err
		}
	case "next", "prev":
		err := s.step(cmd == "next")
		if err != nil {
			return err
		}
	case "search":
		s.list.SetSearch(strings.Join(args, " "))
	case "stats":
		return s.showStats(ctx)
	case "user":
		userID := ""
		if len(args) > 0 {
			userID = args[0]
		}

		s.dash.SetUser(userID)

		return s.showStats(ctx)
	case "range":
		return s.setRange(ctx, args)
	case "months":
		if len(args) != 1 {
			return fmt.Errorf("%w: months <n>", errUsage)
		}

		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: months <n>", errUsage)
		}

		err = s.dash.SetLastMonths(s.now(), n)
		if err != nil {
			return err
		}

		return s.showStats(ctx)
	default:
		return fmt.Errorf("unknown command %q (type 'help' for commands)", cmd)
	}

	return s.showList(ctx)
}

// step moves one page forward or back. Moving back from the first page
// stays there.
func (s *shell) step(forward bool) error {
	v := s.list.State().View
	page := v.Skip/max(v.Take, 1) + 1

	if forward {
		page++
	} else if page > 1 {
		page--
	}

	return s.list.SetPage(page)
}

func (s *shell) setRange(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: range <since|-> <until|->", errUsage)
	}

	var bounds [2]*time.Time

	for i, arg := range args {
		if arg == "-" {
			continue
		}

		t, err := parseDateFlag(arg)
		if err != nil {
			return err
		}

		if i == 1 {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}

		bounds[i] = &t
	}

	s.dash.SetRange(bounds[0], bounds[1])

	return s.showStats(ctx)
}

func (s *shell) showList(ctx context.Context) error {
	snap, err := s.list.Refresh(ctx)
	if err != nil {
		return err
	}

	s.io.Printf("# preset=%s sort=%s search=%q\n",
		snap.State.Preset, query.FormatSort(snap.State.View.Sort), snap.State.Search)
	printPage(s.io, snap)

	return nil
}

func (s *shell) showStats(ctx context.Context) error {
	snap, err := s.dash.Refresh(ctx)
	if err != nil {
		return err
	}

	if snap.Filter.UserID != "" {
		s.io.Printf("# user=%s\n", snap.Filter.UserID)
	}

	printSummary(s.io, snap.Summary)

	return nil
}

func (s *shell) printHelp() {
	s.io.Println("Commands:")
	s.io.Println("  ls                        Refresh and show the current page")
	s.io.Println("  preset <open|closed|mine> Switch preset (back to page 1)")
	s.io.Println("  sort <keys>               Sort, e.g. 'sort -priority title'")
	s.io.Println("  page <n> | next | prev    Move between pages")
	s.io.Println("  search [text]             Filter by title/description; empty clears")
	s.io.Println("  stats                     Show the dashboard")
	s.io.Println("  user [id]                 Dashboard for one user; empty clears")
	s.io.Println("  range <since> <until>     Dashboard date range (YYYY-MM-DD or -)")
	s.io.Println("  months <n>                Dashboard for the last n months")
	s.io.Println("  help                      Show this help")
	s.io.Println("  exit / quit / q           Exit")
}
