package cli

import (
	"context"
	"strconv"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			cfg := a.cfg

			io.Println("effective_cwd=" + cfg.EffectiveCwd)
			io.Println("db=" + cfg.DBAbs)
			io.Println("default_preset=" + string(cfg.DefaultPreset))
			io.Println("page_size=" + strconv.Itoa(cfg.PageSize))

			if cfg.User != "" {
				io.Println("user=" + cfg.User)
			}

			io.Println("")
			io.Println("# sources")

			if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
				io.Println("(defaults only)")

				return nil
			}

			if cfg.Sources.Global != "" {
				io.Println("global_config=" + cfg.Sources.Global)
			}

			if cfg.Sources.Project != "" {
				io.Println("project_config=" + cfg.Sources.Project)
			}

			return nil
		},
	}
}
