package store

import (
	"fmt"

	"github.com/google/uuid"
)

// newItemID generates a time-ordered UUIDv7 so that IDs of items added in
// sequence sort in creation order.
func newItemID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuidv7: %w", err)
	}

	return id.String(), nil
}
