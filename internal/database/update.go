package database

import (
	"fmt"
	"strings"

	"github.com/deppfellow/muslimah-travel/internal/errs"
)

// UpdateSet collects the columns an UPDATE should touch, in insertion order.
//
//	set := database.NewUpdateSet()
//	set.Add("full_name", name)
//	database.SetIfNotNil(set, "phone_number", req.PhoneNumber)
//	sql, args, err := set.Build("users", id, "id, full_name")
type UpdateSet struct {
	columns []string
	values  []any
}

func NewUpdateSet() *UpdateSet {
	return &UpdateSet{}
}

// Add sets column to value. Adding the same column twice keeps the last value.
func (s *UpdateSet) Add(column string, value any) *UpdateSet {
	for i, c := range s.columns {
		if c == column {
			s.values[i] = value
			return s
		}
	}
	s.columns = append(s.columns, column)
	s.values = append(s.values, value)
	return s
}

// SetIfNotNil adds column only when the optional request field was provided.
func SetIfNotNil[T any](s *UpdateSet, column string, value *T) *UpdateSet {
	if value != nil {
		s.Add(column, *value)
	}
	return s
}

// Len is the number of columns collected so far.
func (s *UpdateSet) Len() int {
	return len(s.columns)
}

// Columns returns the collected column names.
func (s *UpdateSet) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Build renders
//
//	UPDATE "t" SET updated_at = CURRENT_TIMESTAMP, "c1" = $1, ... WHERE id = $n RETURNING ...
//
// returning defaults to "*". An empty set returns a 400 "No fields to update".
func (s *UpdateSet) Build(table string, id any, returning string) (string, []any, error) {
	if len(s.columns) == 0 {
		return "", nil, errs.NewBadRequestError("No fields to update", true, errs.Code("NO_FIELDS_TO_UPDATE"), nil, nil)
	}
	if returning == "" {
		returning = "*"
	}

	assignments := make([]string, 0, len(s.columns)+1)
	assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")
	for i, c := range s.columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", ident(c), i+1))
	}

	args := make([]any, 0, len(s.values)+1)
	args = append(args, s.values...)
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		ident(table), strings.Join(assignments, ", "), len(args), returning)

	return sql, args, nil
}
