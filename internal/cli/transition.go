package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/backlog/internal/item"
)

// StartCmd returns the start command.
func StartCmd(a *app) *Command {
	return transitionCmd(a, "start", "Mark an item in progress", item.StatusInProgress, "Started")
}

// CloseCmd returns the close command.
func CloseCmd(a *app) *Command {
	return transitionCmd(a, "close", "Close an item", item.StatusClosed, "Closed")
}

// ReopenCmd returns the reopen command.
func ReopenCmd(a *app) *Command {
	return transitionCmd(a, "reopen", "Reopen a closed item", item.StatusReopened, "Reopened")
}

func transitionCmd(a *app, name, short string, to item.Status, verb string) *Command {
	return &Command{
		Flags: flag.NewFlagSet(name, flag.ContinueOnError),
		Usage: name + " <id>",
		Short: short,
		Args:  1,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			updated, err := st.Transition(ctx, args[0], to)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			io.Println(verb, updated.ID)

			return nil
		},
	}
}
