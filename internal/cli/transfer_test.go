package cli_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/backlog/internal/cli"
)

func Test_Export_Round_Trips_Imported_Items_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.Seed(backlog())

			stdout := c.MustRun("export", name)
			cli.AssertContains(t, stdout, "exported 5 items")

			if diff := cmp.Diff(backlog(), c.ReadItems(name)); diff != "" {
				t.Errorf("exported items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Export_Preset_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Seed(backlog())

	c.MustRun("export", "closed.yml", "--preset", "closed")

	got := c.ReadItems("closed.yml")
	ids := make([]string, 0, len(got))

	for _, it := range got {
		ids = append(ids, it.ID)
	}

	if diff := cmp.Diff([]string{"a2", "a5"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	stderr := c.MustFail("export", "x.json", "--preset", "someday")
	cli.AssertContains(t, stderr, "invalid preset")
}

func Test_Import_JSONC_Upserts_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Seed(backlog())

	c.WriteFile("update.jsonc", `{
		// rename a1 and close it
		"items": [
			{
				"id": "a1",
				"title": "Write better docs",
				"type": "PBI",
				"status": "closed",
				"priority": "low",
				"assignee": {"id": "ann", "full_name": "Ann Lee"},
				"date_created": "2024-01-05T09:30:00Z",
			},
		],
	}`)

	cli.AssertContains(t, c.MustRun("import", "update.jsonc"), "imported 1 items")

	stdout := c.MustRun("ls", "--preset", "closed")
	cli.AssertContains(t, stdout, "a1 [closed] low - Write better docs (Ann Lee)")
	cli.AssertContains(t, stdout, "# showing 1-3 of 3")
}

func Test_Import_Rejects_Invalid_File_Without_Writing_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		file       string
		content    string
		wantStderr string
	}{
		{
			name:       "bad status",
			file:       "bad.json",
			content:    `{"items": [{"id": "n1", "title": "ok", "type": "bug", "status": "done", "priority": "low", "date_created": "2024-01-01T00:00:00Z"}]}`,
			wantStderr: "invalid status",
		},
		{
			name: "duplicate ids",
			file: "dup.yaml",
			content: `items:
  - {id: n1, title: one, type: bug, status: open, priority: low, date_created: 2024-01-01T00:00:00Z}
  - {id: n1, title: two, type: bug, status: open, priority: low, date_created: 2024-01-02T00:00:00Z}
`,
			wantStderr: "duplicate item ID",
		},
		{
			name:       "unsupported extension",
			file:       "items.csv",
			content:    "id,title\n",
			wantStderr: "unsupported file format",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.WriteFile(tt.file, tt.content)

			stderr := c.MustFail("import", tt.file)
			cli.AssertContains(t, stderr, tt.wantStderr)

			if got, want := c.MustRun("ls"), "# showing 0 of 0"; got != want {
				t.Errorf("stdout=%q, want=%q", got, want)
			}
		})
	}
}

func Test_Users_Lists_Assignees_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Seed(backlog())

	if diff := cmp.Diff("ann\tAnn Lee\nbob\tBob Roy", c.MustRun("users")); diff != "" {
		t.Errorf("users mismatch (-want +got):\n%s", diff)
	}
}
