package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// UsersCmd returns the users command.
func UsersCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("users", flag.ContinueOnError),
		Usage: "users",
		Short: "List users with assigned items",
		Long:  "List the users that have at least one assigned item. Use an ID with 'stats --user'.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			users, err := st.Users(ctx)
			if err != nil {
				return err
			}

			for _, u := range users {
				io.Printf("%s\t%s\n", u.ID, u.FullName)
			}

			return nil
		},
	}
}
