package query

import (
	"cmp"
	"strings"

	"github.com/calvinalkan/backlog/internal/item"
)

// Field names a sortable item attribute.
type Field string

// Sortable fields. Names follow the list view's column keys.
const (
	FieldID          Field = "id"
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldType        Field = "type"
	FieldStatus      Field = "status"
	FieldPriority    Field = "priority"
	FieldEstimate    Field = "estimate"
	FieldAssignee    Field = "assignee"
	FieldDateCreated Field = "dateCreated"
)

// fieldAliases maps accepted spellings to canonical fields.
var fieldAliases = map[string]Field{
	"id":           FieldID,
	"title":        FieldTitle,
	"description":  FieldDescription,
	"type":         FieldType,
	"status":       FieldStatus,
	"priority":     FieldPriority,
	"estimate":     FieldEstimate,
	"assignee":     FieldAssignee,
	"datecreated":  FieldDateCreated,
	"date_created": FieldDateCreated,
	"created":      FieldDateCreated,
}

// Fields returns the canonical sortable fields.
func Fields() []Field {
	return []Field{
		FieldID, FieldTitle, FieldDescription, FieldType, FieldStatus,
		FieldPriority, FieldEstimate, FieldAssignee, FieldDateCreated,
	}
}

// lookupField resolves a user-supplied field name.
func lookupField(name string) (Field, bool) {
	field, ok := fieldAliases[strings.ToLower(name)]

	return field, ok
}

// compareField compares a and b ascending on field. The boolean results
// report whether a and b have a value for field; missing values are
// ordered by the caller.
func compareField(field Field, a, b *item.Item) (int, bool, bool) {
	switch field {
	case FieldID:
		return strings.Compare(a.ID, b.ID), true, true
	case FieldTitle:
		return strings.Compare(a.Title, b.Title), true, true
	case FieldDescription:
		return strings.Compare(a.Description, b.Description), true, true
	case FieldType:
		return strings.Compare(string(a.Type), string(b.Type)), a.Type != "", b.Type != ""
	case FieldStatus:
		return strings.Compare(string(a.Status), string(b.Status)), a.Status != "", b.Status != ""
	case FieldPriority:
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()), a.Priority.Rank() > 0, b.Priority.Rank() > 0
	case FieldEstimate:
		if a.Estimate == nil || b.Estimate == nil {
			return 0, a.Estimate != nil, b.Estimate != nil
		}

		return cmp.Compare(*a.Estimate, *b.Estimate), true, true
	case FieldAssignee:
		x, y := assigneeKey(a.Assignee), assigneeKey(b.Assignee)

		return strings.Compare(x, y), x != "", y != ""
	case FieldDateCreated:
		return a.DateCreated.Compare(b.DateCreated), !a.DateCreated.IsZero(), !b.DateCreated.IsZero()
	}

	return 0, false, false
}

// assigneeKey is the name an assignee sorts by: the full name, or the ID
// when no name is known.
func assigneeKey(u item.User) string {
	if u.FullName != "" {
		return u.FullName
	}

	return u.ID
}
