package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/preset"
	"github.com/calvinalkan/backlog/internal/query"
	"github.com/calvinalkan/backlog/internal/store"
	"github.com/calvinalkan/backlog/internal/view"
)

// scripted replays input lines, then reports EOF.
type scripted struct {
	lines   []string
	history []string
}

func (s *scripted) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}

	line := s.lines[0]
	s.lines = s.lines[1:]

	return line, nil
}

func (s *scripted) AppendHistory(line string) { s.history = append(s.history, line) }

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()

	st, err := store.Open(t.Context(), filepath.Join(t.TempDir(), "items.sqlite"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = st.Close() })

	at := func(m time.Month) time.Time { return time.Date(2024, m, 10, 0, 0, 0, 0, time.UTC) }
	ann := item.User{ID: "ann", FullName: "Ann Lee"}

	require.NoError(t, st.PutAll(t.Context(), []item.Item{
		{ID: "s1", Title: "Alpha", Type: item.TypeTask, Status: item.StatusOpen, Priority: item.PriorityLow, Assignee: ann, DateCreated: at(time.January)},
		{ID: "s2", Title: "Beta", Type: item.TypeTask, Status: item.StatusOpen, Priority: item.PriorityHigh, DateCreated: at(time.February)},
		{ID: "s3", Title: "Gamma", Type: item.TypeTask, Status: item.StatusClosed, Priority: item.PriorityMedium, Assignee: ann, DateCreated: at(time.March)},
	}))

	list, err := view.NewList(st, view.ListState{Preset: preset.Open, View: query.View{Take: 1}}, nil)
	require.NoError(t, err)

	var out bytes.Buffer

	return &shell{
		io:   NewIO(&out, io.Discard),
		list: list,
		dash: view.NewDashboard(st, item.Filter{}, nil),
		now:  func() time.Time { return time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC) },
	}, &out
}

func Test_Shell_Drives_List_And_Dashboard(t *testing.T) {
	t.Parallel()

	sh, out := newTestShell(t)
	input := &scripted{lines: []string{
		"next",
		"prev",
		"prev",
		"sort -priority",
		"preset closed",
		"preset someday",
		"search amm",
		"stats",
		"user ann",
		"months 1",
		"range 2024-02-01 -",
		"bogus",
		"",
		"quit",
		"ls",
	}}

	require.NoError(t, sh.run(context.Background(), input))

	got := out.String()
	require.Contains(t, got, "s1 [open] low - Alpha (Ann Lee)\n# showing 1-1 of 2")
	require.Contains(t, got, "s2 [open] high - Beta\n# showing 2-2 of 2")
	require.Contains(t, got, "# preset=open sort=-priority")
	require.Contains(t, got, "# preset=closed sort=-priority")
	require.Contains(t, got, "error: invalid preset: someday")
	require.Contains(t, got, `search="amm"`)
	require.Contains(t, got, "s3 [closed] medium - Gamma (Ann Lee)")
	require.Contains(t, got, "open=2 closed=1 active=2 close_rate=33.3%")
	require.Contains(t, got, "# user=ann\nopen=1 closed=1")
	require.Contains(t, got, "open=0 closed=1 active=0 close_rate=100.0%\n2024-02  open=0 closed=0\n2024-03  open=0 closed=1")
	require.Contains(t, got, `error: unknown command "bogus"`)

	require.NotContains(t, input.history, "")
	require.Equal(t, []string{"ls"}, input.lines, "quit stops the loop")
	require.Equal(t, preset.Closed, sh.list.State().Preset)
}

func Test_Shell_Stops_On_Cancelled_Context(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sh.run(ctx, &scripted{lines: []string{"ls"}})
	require.ErrorIs(t, err, context.Canceled)
}

func Test_Shell_Completes_Commands(t *testing.T) {
	t.Parallel()

	sh := &shell{}

	require.Equal(t, []string{"preset", "prev"}, sh.complete("pr"))
	require.Empty(t, sh.complete("zzz"))
	require.True(t, strings.HasPrefix(sh.complete("S")[0], "s"))
}
