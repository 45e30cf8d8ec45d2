package itemfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/itemfile"
)

const jsoncDoc = `{
	// exported from the web backlog
	"items": [
		{
			"id": "1",
			"title": "Login page",
			"description": "",
			"type": "PBI",
			"status": "open",
			"priority": "high",
			"estimate": 3,
			"assignee": {"id": "ann", "full_name": "Ann"},
			"date_created": "2024-01-05T10:00:00Z",
		},
	],
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

func TestReadJSONC(t *testing.T) {
	t.Parallel()

	got, err := itemfile.Read(writeFile(t, "items.jsonc", jsoncDoc))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	est := 3.0
	want := []item.Item{{
		ID:          "1",
		Title:       "Login page",
		Type:        item.TypePBI,
		Status:      item.StatusOpen,
		Priority:    item.PriorityHigh,
		Estimate:    &est,
		Assignee:    item.User{ID: "ann", FullName: "Ann"},
		DateCreated: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
	}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRejectsInvalidItems(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{
			name:    "bad status",
			file:    "a.json",
			content: `{"items":[{"id":"1","title":"t","type":"bug","status":"done","priority":"low","date_created":"2024-01-01T00:00:00Z"}]}`,
			want:    item.ErrInvalidStatus,
		},
		{
			name:    "missing date",
			file:    "a.yaml",
			content: "items:\n  - id: \"1\"\n    title: t\n    type: bug\n    status: open\n    priority: low\n",
			want:    item.ErrCreatedMissing,
		},
		{
			name:    "duplicate id",
			file:    "a.yml",
			content: "items:\n  - {id: x, title: t, type: bug, status: open, priority: low, date_created: 2024-01-01T00:00:00Z}\n  - {id: x, title: u, type: bug, status: open, priority: low, date_created: 2024-01-01T00:00:00Z}\n",
			want:    item.ErrDuplicateID,
		},
		{
			name:    "unsupported extension",
			file:    "a.csv",
			content: "id,title\n",
			want:    itemfile.ErrUnsupportedFormat,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := itemfile.Read(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteThenReadPreservesItems(t *testing.T) {
	t.Parallel()

	est := 1.5
	items := []item.Item{
		{
			ID: "a", Title: "One", Description: "multi\nline", Type: item.TypeBug, Status: item.StatusClosed,
			Priority: item.PriorityCritical, Estimate: &est, Assignee: item.User{ID: "u", FullName: "U", Avatar: "u.png"},
			DateCreated: time.Date(2023, 12, 31, 23, 59, 59, 500, time.UTC),
		},
		{
			ID: "b", Title: "Two", Type: item.TypeChore, Status: item.StatusOpen, Priority: item.PriorityLow,
			DateCreated: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(t.TempDir(), name)

		err := itemfile.Write(path, items)
		if err != nil {
			t.Fatalf("%s: write: %v", name, err)
		}

		got, err := itemfile.Read(path)
		if err != nil {
			t.Fatalf("%s: read: %v", name, err)
		}

		if diff := cmp.Diff(items, got); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestWriteEmptyCollection(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")

	err := itemfile.Write(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "{\n  \"items\": []\n}\n" {
		t.Errorf("unexpected content %q", data)
	}
}
