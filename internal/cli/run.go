// Package cli implements the bl command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/backlog/internal/config"
	"github.com/calvinalkan/backlog/internal/store"
)

// app carries what commands share: resolved config, logger and the
// lazily opened store.
type app struct {
	cfg    config.Config
	env    map[string]string
	stdin  io.Reader
	logger *slog.Logger
	now    func() time.Time
	store  *store.Store
}

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	st, err := store.Open(ctx, a.cfg.DBAbs)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a.logger.Debug("opened store", "path", st.Path())
	a.store = st

	return st, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}

	err := a.store.Close()
	a.store = nil

	return err
}

func commands(a *app) []*Command {
	return []*Command{
		LsCmd(a),
		StatsCmd(a),
		AddCmd(a),
		ShowCmd(a),
		StartCmd(a),
		CloseCmd(a),
		ReopenCmd(a),
		UsersCmd(a),
		ImportCmd(a),
		ExportCmd(a),
		ShellCmd(a),
		PrintConfigCmd(a),
	}
}

func globalFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("bl", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(&strings.Builder{})
	fs.StringP("cwd", "C", "", "Run as if bl was started in `dir`")
	fs.StringP("config", "c", "", "Use config `file` instead of .bl.json")
	fs.String("db", "", "Use the database at `path`")
	fs.BoolP("verbose", "v", false, "Log diagnostics to stderr")
	fs.BoolP("help", "h", false, "Show help")

	return fs
}

// Run is the main entry point. Returns exit code.
//
// A signal received on sigCh cancels the running command's context.
// sigCh may be nil.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := globalFlagSet()

	a := &app{env: env, stdin: stdin, now: time.Now}
	cmds := commands(a)

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, cmds)

		return 1
	}

	rest := globals.Args()
	help, _ := globals.GetBool("help")

	if help || len(rest) == 0 {
		printUsage(out, globals, cmds)

		return 0
	}

	verbose, _ := globals.GetBool("verbose")

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	a.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	input := config.LoadInput{Env: env}
	input.WorkDirOverride, _ = globals.GetString("cwd")
	input.ConfigPath, _ = globals.GetString("config")

	if globals.Changed("db") {
		db, _ := globals.GetString("db")
		input.DBOverride = &db
	}

	a.cfg, err = config.Load(input)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, cmds)

		return 1
	}

	var cmd *Command

	for _, c := range cmds {
		if c.Name() == rest[0] {
			cmd = c

			break
		}
	}

	if cmd == nil {
		fprintln(errOut, "error: unknown command:", rest[0])
		printUsage(errOut, globals, cmds)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case sig := <-sigCh:
				a.logger.Debug("cancelling on signal", "signal", sig.String())
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	code := cmd.Run(ctx, NewIO(out, errOut), rest[1:])

	closeErr := a.close()
	if closeErr != nil {
		fprintln(errOut, "error: close store:", closeErr)

		return 1
	}

	if errors.Is(ctx.Err(), context.Canceled) && code == 0 {
		return 130
	}

	return code
}

func printUsage(w io.Writer, globals *flag.FlagSet, cmds []*Command) {
	fprintln(w, "bl - browse and summarise a backlog of work items")
	fprintln(w)
	fprintln(w, "Usage: bl [global flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Global flags:")
	fprintln(w, globals.FlagUsages())
	fprintln(w, "Commands:")

	for _, c := range cmds {
		fprintln(w, c.HelpLine())
	}

	fprintln(w)
	fprintln(w, "Run 'bl <command> --help' for command flags.")
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
