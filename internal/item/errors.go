package item

import "errors"

// Error variables for item validation.
var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidType     = errors.New("invalid type")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrTitleRequired   = errors.New("title is required")
	ErrIDRequired      = errors.New("item ID is required")
	ErrDuplicateID     = errors.New("duplicate item ID")
	ErrCreatedMissing  = errors.New("item is missing date_created")
)
