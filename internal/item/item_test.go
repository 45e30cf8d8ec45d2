package item_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/backlog/internal/item"
)

func TestStatusFamilyIsTotal(t *testing.T) {
	t.Parallel()

	for _, status := range item.Statuses() {
		if status.Family() == item.FamilyNone {
			t.Errorf("status %q has no family", status)
		}

		if status.IsOpen() == status.IsClosed() {
			t.Errorf("status %q must be exactly one of open/closed", status)
		}
	}

	if item.Status("blocked").Family() != item.FamilyNone {
		t.Error("unknown status should not be classified")
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		in      string
		want    item.Status
		wantErr bool
	}{
		{in: "open", want: item.StatusOpen},
		{in: "in_progress", want: item.StatusInProgress},
		{in: "reopened", want: item.StatusReopened},
		{in: "closed", want: item.StatusClosed},
		{in: "", wantErr: true},
		{in: "Open", wantErr: true},
		{in: "done", wantErr: true},
	} {
		got, err := item.ParseStatus(tt.in)
		if tt.wantErr {
			if !errors.Is(err, item.ErrInvalidStatus) {
				t.Errorf("ParseStatus(%q) err = %v, want ErrInvalidStatus", tt.in, err)
			}

			continue
		}

		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", tt.in, err)
		}

		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTypeAndPriority(t *testing.T) {
	t.Parallel()

	typ, err := item.ParseType("PBI")
	if err != nil || typ != item.TypePBI {
		t.Fatalf("ParseType(PBI) = %q, %v", typ, err)
	}

	_, err = item.ParseType("epic")
	if !errors.Is(err, item.ErrInvalidType) {
		t.Fatalf("ParseType(epic) err = %v", err)
	}

	prio, err := item.ParsePriority("High")
	if err != nil || prio != item.PriorityHigh {
		t.Fatalf("ParsePriority(High) = %q, %v", prio, err)
	}

	_, err = item.ParsePriority("urgent")
	if !errors.Is(err, item.ErrInvalidPriority) {
		t.Fatalf("ParsePriority(urgent) err = %v", err)
	}

	if item.PriorityLow.Rank() >= item.PriorityCritical.Rank() {
		t.Error("priority ranks out of order")
	}
}

func validItem(id string) item.Item {
	return item.Item{
		ID:          id,
		Title:       "Title " + id,
		Type:        item.TypeBug,
		Status:      item.StatusOpen,
		Priority:    item.PriorityLow,
		DateCreated: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateAll(t *testing.T) {
	t.Parallel()

	noTitle := validItem("b")
	noTitle.Title = "  "

	noDate := validItem("c")
	noDate.DateCreated = time.Time{}

	badStatus := validItem("d")
	badStatus.Status = "blocked"

	for _, tt := range []struct {
		name  string
		items []item.Item
		want  error
	}{
		{name: "ok", items: []item.Item{validItem("a"), validItem("b")}},
		{name: "duplicate", items: []item.Item{validItem("a"), validItem("a")}, want: item.ErrDuplicateID},
		{name: "missing title", items: []item.Item{noTitle}, want: item.ErrTitleRequired},
		{name: "missing date", items: []item.Item{noDate}, want: item.ErrCreatedMissing},
		{name: "bad status", items: []item.Item{badStatus}, want: item.ErrInvalidStatus},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := item.ValidateAll(tt.items)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				return
			}

			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFilterMatch(t *testing.T) {
	t.Parallel()

	it := validItem("a")
	it.Assignee = item.User{ID: "u1", FullName: "Ann"}
	day := it.DateCreated

	for _, tt := range []struct {
		name   string
		filter item.Filter
		want   bool
	}{
		{name: "empty", filter: item.Filter{}, want: true},
		{name: "user match", filter: item.Filter{UserID: "u1"}, want: true},
		{name: "user mismatch", filter: item.Filter{UserID: "u2"}, want: false},
		{name: "start inclusive", filter: item.Filter{DateStart: item.TimePtr(day)}, want: true},
		{name: "end inclusive", filter: item.Filter{DateEnd: item.TimePtr(day)}, want: true},
		{name: "before start", filter: item.Filter{DateStart: item.TimePtr(day.Add(time.Second))}, want: false},
		{name: "after end", filter: item.Filter{DateEnd: item.TimePtr(day.Add(-time.Second))}, want: false},
	} {
		if got := tt.filter.Match(&it); got != tt.want {
			t.Errorf("%s: Match = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSelectKeepsOrderAndInput(t *testing.T) {
	t.Parallel()

	items := []item.Item{validItem("a"), validItem("b"), validItem("c")}
	items[1].Status = item.StatusClosed

	before := make([]item.Item, len(items))
	copy(before, items)

	got := item.Select(items, func(it *item.Item) bool { return it.Status.IsOpen() })

	ids := make([]string, 0, len(got))
	for _, it := range got {
		ids = append(ids, it.ID)
	}

	if diff := cmp.Diff([]string{"a", "c"}, ids); diff != "" {
		t.Errorf("selected ids mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(before, items); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}
