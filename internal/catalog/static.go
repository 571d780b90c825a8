package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/omega-realm/mangos-admin/internal/query"
)

// Table is an immutable in-memory catalog. Rows are sorted once at
// construction; Search and Get never mutate it.
type Table[T any] struct {
	rows   []T
	id     func(T) int
	fields func(T) []string
}

// NewTable copies rows and sorts the copy with cmp. id extracts the identifier
// matched by numeric terms; fields lists the values a text term may match.
func NewTable[T any](rows []T, id func(T) int, fields func(T) []string, cmp func(a, b T) int) *Table[T] {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, cmp)
	return &Table[T]{rows: sorted, id: id, fields: fields}
}

func (t *Table[T]) Len() int {
	return len(t.rows)
}

func (t *Table[T]) Search(_ context.Context, term query.Term, page query.Page) (query.Envelope[T], error) {
	matched := t.filter(term)

	start := min(page.Offset(), len(matched))
	end := min(start+page.Limit, len(matched))
	return query.NewEnvelope(slices.Clone(matched[start:end]), page, len(matched)), nil
}

func (t *Table[T]) Get(_ context.Context, id int) (T, error) {
	for _, row := range t.rows {
		if t.id(row) == id {
			return row, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

func (t *Table[T]) filter(term query.Term) []T {
	switch term.Kind {
	case query.TermID:
		var out []T
		for _, row := range t.rows {
			if t.id(row) == term.ID {
				out = append(out, row)
			}
		}
		return out
	case query.TermText:
		needle := strings.ToLower(term.Text)
		var out []T
		for _, row := range t.rows {
			for _, field := range t.fields(row) {
				if strings.Contains(strings.ToLower(field), needle) {
					out = append(out, row)
					break
				}
			}
		}
		return out
	default:
		return t.rows
	}
}
