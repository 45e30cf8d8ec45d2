package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/backlog/internal/item"
)

// NewItem holds the user-supplied fields for [Store.Add]. Empty Type and
// Priority fall back to [item.DefaultType] and [item.DefaultPriority].
type NewItem struct {
	Title       string
	Description string
	Type        string
	Priority    string
	Estimate    *float64
	Assignee    item.User
}

// Add creates an open item from n, assigning a new ID and the given
// creation time.
func (s *Store) Add(ctx context.Context, n NewItem, now time.Time) (item.Item, error) {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return item.Item{}, fmt.Errorf("add item: %w", item.ErrTitleRequired)
	}

	itemType := item.DefaultType

	if n.Type != "" {
		parsed, err := item.ParseType(n.Type)
		if err != nil {
			return item.Item{}, fmt.Errorf("add item: %w", err)
		}

		itemType = parsed
	}

	priority := item.DefaultPriority

	if n.Priority != "" {
		parsed, err := item.ParsePriority(n.Priority)
		if err != nil {
			return item.Item{}, fmt.Errorf("add item: %w", err)
		}

		priority = parsed
	}

	id, err := newItemID()
	if err != nil {
		return item.Item{}, fmt.Errorf("add item: %w", err)
	}

	created := item.Item{
		ID:          id,
		Title:       title,
		Description: n.Description,
		Type:        itemType,
		Status:      item.StatusOpen,
		Priority:    priority,
		Estimate:    n.Estimate,
		Assignee:    n.Assignee,
		DateCreated: now.UTC(),
	}

	err = s.PutAll(ctx, []item.Item{created})
	if err != nil {
		return item.Item{}, fmt.Errorf("add item: %w", err)
	}

	return created, nil
}

// PutAll validates items and upserts them, with their assignees, in one
// transaction. Nothing is written if any item is invalid.
func (s *Store) PutAll(ctx context.Context, items []item.Item) error {
	err := item.ValidateAll(items)
	if err != nil {
		return fmt.Errorf("put items: %w", err)
	}

	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put items: begin: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	for i := range items {
		err = putItem(ctx, tx, &items[i])
		if err != nil {
			return fmt.Errorf("put items: %s: %w", items[i].ID, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("put items: commit: %w", err)
	}

	return nil
}

// putItem upserts it and its assignee. An assignee given by ID alone keeps
// the stored name and avatar.
func putItem(ctx context.Context, tx *sql.Tx, it *item.Item) error {
	if it.Assignee.ID != "" {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, full_name, avatar) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				full_name = CASE WHEN excluded.full_name <> '' THEN excluded.full_name ELSE users.full_name END,
				avatar = CASE WHEN excluded.avatar <> '' THEN excluded.avatar ELSE users.avatar END`,
			it.Assignee.ID, it.Assignee.FullName, it.Assignee.Avatar)
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}
	}

	var estimate sql.NullFloat64
	if it.Estimate != nil {
		estimate = sql.NullFloat64{Float64: *it.Estimate, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO items (id, title, description, type, status, priority, estimate, assignee_id, date_created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			type = excluded.type,
			status = excluded.status,
			priority = excluded.priority,
			estimate = excluded.estimate,
			assignee_id = excluded.assignee_id,
			date_created = excluded.date_created`,
		it.ID, it.Title, it.Description, string(it.Type), string(it.Status), string(it.Priority),
		estimate, it.Assignee.ID, formatTime(it.DateCreated))
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}

	return nil
}
