package store

import "errors"

// ErrDataUnavailable reports that items could not be read from the index.
// Callers keep their previous view state and do not retry through the store.
var ErrDataUnavailable = errors.New("data unavailable")

// ErrItemNotFound reports a lookup for an ID that is not stored.
var ErrItemNotFound = errors.New("item not found")
