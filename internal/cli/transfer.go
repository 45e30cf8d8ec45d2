package cli

import (
	"context"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/itemfile"
	"github.com/calvinalkan/backlog/internal/preset"
)

// ImportCmd returns the import command.
func ImportCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("import", flag.ContinueOnError),
		Usage: "import <file>",
		Short: "Import items from JSON, JSONC or YAML",
		Long: `Import items from a document of the form {"items": [...]}.

Items are upserted by ID. Nothing is written if any item is invalid.`,
		Args: 1,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			items, err := itemfile.Read(absPath(a, args[0]))
			if err != nil {
				return err
			}

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			err = st.PutAll(ctx, items)
			if err != nil {
				return err
			}

			io.Printf("imported %d items\n", len(items))

			return nil
		},
	}
}

// ExportCmd returns the export command.
func ExportCmd(a *app) *Command {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.StringP("preset", "p", "", "Only export items of this preset")

	return &Command{
		Flags: fs,
		Usage: "export <file> [flags]",
		Short: "Export items to JSON or YAML",
		Long:  "Export items to a file; the format follows the extension. The file is replaced atomically.",
		Args:  1,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			var items []item.Item

			name, _ := fs.GetString("preset")
			if fs.Changed("preset") {
				items, err = st.FetchByPreset(ctx, preset.Name(name), a.cfg.User)
			} else {
				items, err = st.FetchAll(ctx)
			}

			if err != nil {
				return err
			}

			path := absPath(a, args[0])

			err = itemfile.Write(path, items)
			if err != nil {
				return err
			}

			io.Printf("exported %d items to %s\n", len(items), path)

			return nil
		},
	}
}

func absPath(a *app, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(a.cfg.EffectiveCwd, path)
}
