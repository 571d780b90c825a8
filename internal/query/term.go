package query

import (
	"strconv"
	"strings"
)

type TermKind int

const (
	TermNone TermKind = iota
	TermID
	TermText
)

// Term is a free-text search input after the numeric/text dispatch.
type Term struct {
	Kind TermKind
	ID   int
	Text string
}

// ParseTerm classifies a search box value. Blank input yields TermNone, input
// that parses as an integer yields TermID (even when a name could match it),
// anything else yields TermText.
func ParseTerm(raw string) Term {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Term{Kind: TermNone}
	}
	if id, err := strconv.Atoi(trimmed); err == nil {
		return Term{Kind: TermID, ID: id, Text: trimmed}
	}
	return Term{Kind: TermText, Text: trimmed}
}

// Predicate returns the condition the term contributes: equality on idColumn
// for identifiers, a substring match on nameColumn for text and nil when the
// term is blank.
func (t Term) Predicate(idColumn, nameColumn string) Predicate {
	switch t.Kind {
	case TermID:
		return Equality{Column: idColumn, Value: t.ID}
	case TermText:
		return Substring{Column: nameColumn, Term: t.Text}
	default:
		return nil
	}
}
