package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/backlog/internal/item"
	"github.com/calvinalkan/backlog/internal/preset"
)

const selectItems = `
	SELECT i.id, i.title, i.description, i.type, i.status, i.priority, i.estimate,
		i.assignee_id, COALESCE(u.full_name, ''), COALESCE(u.avatar, ''), i.date_created
	FROM items i
	LEFT JOIN users u ON u.id = i.assignee_id`

// Get returns the item with the given ID.
func (s *Store) Get(ctx context.Context, id string) (item.Item, error) {
	rows, err := s.sql.QueryContext(ctx, selectItems+" WHERE i.id = ?", id)
	if err != nil {
		return item.Item{}, unavailable("get item", err)
	}

	items, err := scanItems(rows)
	if err != nil {
		return item.Item{}, unavailable("get item", err)
	}

	if len(items) == 0 {
		return item.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	return items[0], nil
}

// FetchAll returns every stored item ordered by creation time, then ID.
func (s *Store) FetchAll(ctx context.Context) ([]item.Item, error) {
	return s.FetchByFilter(ctx, item.Filter{})
}

// FetchByPreset returns the items matching the named preset. An unknown
// preset is returned as [preset.ErrInvalidPreset], not as unavailable data,
// so callers can choose a fallback.
func (s *Store) FetchByPreset(ctx context.Context, name preset.Name, currentUserID string) ([]item.Item, error) {
	pred, err := preset.Resolve(name, currentUserID)
	if err != nil {
		return nil, err
	}

	all, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	return item.Select(all, pred), nil
}

// FetchByFilter returns the items matching filter, ordered by creation time.
// The date bounds are inclusive.
func (s *Store) FetchByFilter(ctx context.Context, filter item.Filter) ([]item.Item, error) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.UserID != "" {
		clauses = append(clauses, "i.assignee_id = ?")
		args = append(args, filter.UserID)
	}

	if filter.DateStart != nil {
		clauses = append(clauses, "i.date_created >= ?")
		args = append(args, formatTime(*filter.DateStart))
	}

	if filter.DateEnd != nil {
		clauses = append(clauses, "i.date_created <= ?")
		args = append(args, formatTime(*filter.DateEnd))
	}

	query := strings.Builder{}
	query.WriteString(selectItems)

	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}

	query.WriteString(" ORDER BY i.date_created, i.id")

	rows, err := s.sql.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, unavailable("fetch items", err)
	}

	items, err := scanItems(rows)
	if err != nil {
		return nil, unavailable("fetch items", err)
	}

	return items, nil
}

// Users returns the users that have at least one assigned item, ordered
// by name.
func (s *Store) Users(ctx context.Context) ([]item.User, error) {
	rows, err := s.sql.QueryContext(ctx, `
		SELECT id, full_name, avatar FROM users
		WHERE id IN (SELECT assignee_id FROM items)
		ORDER BY full_name, id`)
	if err != nil {
		return nil, unavailable("fetch users", err)
	}

	defer func() { _ = rows.Close() }()

	users := make([]item.User, 0)

	for rows.Next() {
		var user item.User

		scanErr := rows.Scan(&user.ID, &user.FullName, &user.Avatar)
		if scanErr != nil {
			return nil, unavailable("fetch users", scanErr)
		}

		users = append(users, user)
	}

	err = rows.Err()
	if err != nil {
		return nil, unavailable("fetch users", err)
	}

	return users, nil
}

func scanItems(rows *sql.Rows) ([]item.Item, error) {
	defer func() { _ = rows.Close() }()

	items := make([]item.Item, 0)

	for rows.Next() {
		var (
			it       item.Item
			itemType string
			status   string
			priority string
			estimate sql.NullFloat64
			created  string
		)

		err := rows.Scan(
			&it.ID,
			&it.Title,
			&it.Description,
			&itemType,
			&status,
			&priority,
			&estimate,
			&it.Assignee.ID,
			&it.Assignee.FullName,
			&it.Assignee.Avatar,
			&created,
		)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		it.Type = item.Type(itemType)
		it.Status = item.Status(status)
		it.Priority = item.Priority(priority)

		if estimate.Valid {
			value := estimate.Float64
			it.Estimate = &value
		}

		it.DateCreated, err = parseTime(created)
		if err != nil {
			return nil, err
		}

		items = append(items, it)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return items, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, op, err)
}

func notFoundOr(id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	return err
}
