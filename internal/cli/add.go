package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/store"
)

var (
	errEmptyValue       = errors.New("empty value not allowed")
	errAssigneeNameOnly = errors.New("--assignee-name requires --assignee")
	errNegativeEstimate = errors.New("--estimate must not be negative")
)

// AddCmd returns the add command.
func AddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("title", "t", "", "Title (required)")
	fs.StringP("description", "d", "", "Description text")
	fs.String("type", string(item.DefaultType), "Type: pbi|bug|chore|impediment|feature|task")
	fs.StringP("priority", "p", string(item.DefaultPriority), "Priority: low|medium|high|critical")
	fs.Float64("estimate", 0, "Estimate in points")
	fs.StringP("assignee", "a", "", "Assignee user ID")
	fs.String("assignee-name", "", "Assignee full name")

	return &Command{
		Flags: fs,
		Usage: "add -t <title> [flags]",
		Short: "Add an open item, prints ID",
		Long:  "Add a new open item. Prints the new item ID on success.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execAdd(ctx, io, a, fs)
		},
	}
}

func execAdd(ctx context.Context, io *IO, a *app, fs *flag.FlagSet) error {
	for _, name := range []string{"description", "type", "priority", "assignee", "assignee-name"} {
		v, _ := fs.GetString(name)
		if fs.Changed(name) && v == "" {
			return fmt.Errorf("%w: --%s", errEmptyValue, name)
		}
	}

	var n store.NewItem

	n.Title, _ = fs.GetString("title")
	n.Description, _ = fs.GetString("description")
	n.Type, _ = fs.GetString("type")
	n.Priority, _ = fs.GetString("priority")
	n.Assignee.ID, _ = fs.GetString("assignee")
	n.Assignee.FullName, _ = fs.GetString("assignee-name")

	if n.Assignee.ID == "" && n.Assignee.FullName != "" {
		return errAssigneeNameOnly
	}

	if fs.Changed("estimate") {
		estimate, _ := fs.GetFloat64("estimate")
		if estimate < 0 {
			return errNegativeEstimate
		}

		n.Estimate = &estimate
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	created, err := st.Add(ctx, n, a.now())
	if err != nil {
		return err
	}

	a.logger.Debug("added item", "id", created.ID, "type", created.Type)
	io.Println(created.ID)

	return nil
}
