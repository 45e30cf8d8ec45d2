package cli_test

import (
	"time"

	"github.com/calvinalkan/backlog/internal/item"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 9, 30, 0, 0, time.UTC)
}

// backlog is a small mixed backlog spanning Jan-Mar 2024.
func backlog() []item.Item {
	ann := item.User{ID: "ann", FullName: "Ann Lee"}
	bob := item.User{ID: "bob", FullName: "Bob Roy"}

	return []item.Item{
		{ID: "a1", Title: "Write docs", Type: item.TypePBI, Status: item.StatusOpen, Priority: item.PriorityLow, Assignee: ann, DateCreated: day(2024, time.January, 5)},
		{ID: "a2", Title: "Fix login", Type: item.TypeBug, Status: item.StatusClosed, Priority: item.PriorityHigh, Assignee: bob, DateCreated: day(2024, time.January, 20)},
		{ID: "a3", Title: "Add search", Description: "grid filter", Type: item.TypeFeature, Status: item.StatusInProgress, Priority: item.PriorityCritical, Assignee: ann, DateCreated: day(2024, time.February, 3)},
		{ID: "a4", Title: "Fix logout", Type: item.TypeBug, Status: item.StatusOpen, Priority: item.PriorityMedium, DateCreated: day(2024, time.March, 9)},
		{ID: "a5", Title: "Release 1.0", Type: item.TypeChore, Status: item.StatusClosed, Priority: item.PriorityMedium, Assignee: ann, DateCreated: day(2024, time.March, 28)},
	}
}
