// Package query assembles parameterized SQL from structured predicates and
// computes the pagination envelope shared by every search endpoint.
package query

import (
	"strings"
)

// Predicate is one condition of a WHERE clause. The set of implementations is
// closed: Equality, Substring, Range and In.
type Predicate interface {
	render() (string, []any)
}

// Equality matches rows whose column equals Value.
type Equality struct {
	Column string
	Value  any
}

func (p Equality) render() (string, []any) {
	return p.Column + " = ?", []any{p.Value}
}

// Substring matches rows whose column contains Term, ignoring case.
type Substring struct {
	Column string
	Term   string
}

func (p Substring) render() (string, []any) {
	return "LOWER(" + p.Column + ") LIKE ?", []any{"%" + strings.ToLower(p.Term) + "%"}
}

// Bound selects the comparison used by a Range predicate.
type Bound int

const (
	AtLeast Bound = iota
	AtMost
)

// Range bounds a column from one side.
type Range struct {
	Column string
	Bound  Bound
	Value  any
}

func (p Range) render() (string, []any) {
	op := " >= ?"
	if p.Bound == AtMost {
		op = " <= ?"
	}
	return p.Column + op, []any{p.Value}
}

// In matches rows whose column is one of Values. An empty In matches nothing.
type In struct {
	Column string
	Values []any
}

func (p In) render() (string, []any) {
	if len(p.Values) == 0 {
		return "1 = 0", nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(p.Values)), ", ")
	args := make([]any, len(p.Values))
	copy(args, p.Values)
	return p.Column + " IN (" + marks + ")", args
}
