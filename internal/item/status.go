package item

import "fmt"

// Status is the workflow state of an item.
type Status string

// Status constants.
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusReopened   Status = "reopened"
	StatusClosed     Status = "closed"
)

// Family is the two-way partition of [Status] used for all counting.
type Family int

// Family values. The zero value is deliberately not a family so that an
// unclassified status can never be counted by accident.
const (
	FamilyNone Family = iota
	FamilyOpen
	FamilyClosed
)

func (f Family) String() string {
	switch f {
	case FamilyOpen:
		return "open"
	case FamilyClosed:
		return "closed"
	case FamilyNone:
		return "none"
	}

	return fmt.Sprintf("family(%d)", int(f))
}

// Statuses returns every known status in workflow order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusReopened, StatusClosed}
}

// Family classifies the status. Adding a status requires adding a case here;
// unknown values report [FamilyNone].
func (s Status) Family() Family {
	switch s {
	case StatusOpen, StatusInProgress, StatusReopened:
		return FamilyOpen
	case StatusClosed:
		return FamilyClosed
	}

	return FamilyNone
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s.Family() != FamilyNone
}

// IsOpen reports whether s belongs to the open family.
func (s Status) IsOpen() bool { return s.Family() == FamilyOpen }

// IsClosed reports whether s belongs to the closed family.
func (s Status) IsClosed() bool { return s.Family() == FamilyClosed }

// ParseStatus validates a status string.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.Valid() {
		if value == "" {
			return "", fmt.Errorf("%w: (empty)", ErrInvalidStatus)
		}

		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, value)
	}

	return status, nil
}
