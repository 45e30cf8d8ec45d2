package view

// sequence orders refreshes by the time they were issued. A result is
// applied only when no later-issued refresh has been applied already, so
// the newest request wins no matter which fetch finishes first.
//
// The owner's mutex must be held for every call.
type sequence struct {
	issued  uint64
	applied uint64
}

// next issues the ticket for a new refresh.
func (s *sequence) next() uint64 {
	s.issued++

	return s.issued
}

// accept reports whether the result for ticket may be applied and records
// it.
func (s *sequence) accept(ticket uint64) bool {
	if ticket <= s.applied {
		return false
	}

	s.applied = ticket

	return true
}
