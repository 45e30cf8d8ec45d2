package cli

import (
	"context"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/backlog/internal/item"
)

const displayDateLayout = "Jan 2, 2006"

// ShowCmd returns the show command.
func ShowCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <id>",
		Short: "Show item details",
		Args:  1,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			it, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}

			printItem(io, &it)

			return nil
		},
	}
}

func printItem(io *IO, it *item.Item) {
	io.Println("id:", it.ID)
	io.Println("title:", it.Title)
	io.Println("type:", it.Type)
	io.Println("status:", it.Status)
	io.Println("priority:", it.Priority)

	if it.Estimate != nil {
		io.Println("estimate:", strconv.FormatFloat(*it.Estimate, 'f', -1, 64))
	}

	if it.Assignee.ID != "" {
		io.Printf("assignee: %s (%s)\n", assigneeName(it.Assignee), it.Assignee.ID)
	}

	io.Println("created:", it.DateCreated.UTC().Format(displayDateLayout))

	if it.Description != "" {
		io.Println()
		io.Println(it.Description)
	}
}
