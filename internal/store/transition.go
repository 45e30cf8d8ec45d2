package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/calvinalkan/backlog/internal/item"
)

// ErrInvalidTransition reports a status change the workflow does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// allowedFrom lists the statuses each target status may be entered from.
var allowedFrom = map[item.Status][]item.Status{
	item.StatusInProgress: {item.StatusOpen, item.StatusReopened},
	item.StatusClosed:     {item.StatusOpen, item.StatusInProgress, item.StatusReopened},
	item.StatusReopened:   {item.StatusClosed},
}

// Transition moves item id to status to and returns the updated item.
func (s *Store) Transition(ctx context.Context, id string, to item.Status) (item.Item, error) {
	sources, ok := allowedFrom[to]
	if !ok {
		return item.Item{}, fmt.Errorf("%w: cannot move to %q", ErrInvalidTransition, to)
	}

	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return item.Item{}, fmt.Errorf("transition: begin: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	var current string

	err = tx.QueryRowContext(ctx, "SELECT status FROM items WHERE id = ?", id).Scan(&current)
	if err != nil {
		return item.Item{}, notFoundOr(id, fmt.Errorf("transition: %w", err))
	}

	from := item.Status(current)

	allowed := false

	for _, src := range sources {
		if src == from {
			allowed = true

			break
		}
	}

	if !allowed {
		return item.Item{}, fmt.Errorf("%w: %s is %s, cannot move to %s", ErrInvalidTransition, id, from, to)
	}

	_, err = tx.ExecContext(ctx, "UPDATE items SET status = ? WHERE id = ?", string(to), id)
	if err != nil {
		return item.Item{}, fmt.Errorf("transition: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return item.Item{}, fmt.Errorf("transition: commit: %w", err)
	}

	return s.Get(ctx, id)
}
