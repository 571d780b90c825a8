package query

import (
	"errors"
	"strings"
)

// Statement is SQL text with '?' placeholders and its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Select describes a filtered, ordered listing over one table.
type Select struct {
	table   string
	columns []string
	where   []Predicate
	orderBy string
}

func NewSelect(table string, columns ...string) *Select {
	return &Select{table: table, columns: columns}
}

// Where appends predicates in application order. Nil predicates are skipped so
// optional filters can be passed unconditionally.
func (s *Select) Where(predicates ...Predicate) *Select {
	for _, p := range predicates {
		if p != nil {
			s.where = append(s.where, p)
		}
	}
	return s
}

func (s *Select) OrderBy(column string) *Select {
	s.orderBy = column
	return s
}

// Build returns the paginated data statement and the matching count statement.
// Both share the same WHERE clause and argument prefix; only the data
// statement is ordered and limited.
func (s *Select) Build(page Page) (data Statement, count Statement) {
	where, args := s.whereClause()

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(s.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(s.table)
	sb.WriteString(where)
	if s.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(s.orderBy)
	}
	sb.WriteString(" LIMIT ? OFFSET ?")

	dataArgs := make([]any, 0, len(args)+2)
	dataArgs = append(dataArgs, args...)
	dataArgs = append(dataArgs, page.Limit, page.Offset())

	countArgs := make([]any, len(args))
	copy(countArgs, args)

	return Statement{SQL: sb.String(), Args: dataArgs},
		Statement{SQL: "SELECT COUNT(*) FROM " + s.table + where, Args: countArgs}
}

// All returns an unpaginated, ordered statement over every matching row.
func (s *Select) All() Statement {
	where, args := s.whereClause()
	sql := "SELECT " + strings.Join(s.columns, ", ") + " FROM " + s.table + where
	if s.orderBy != "" {
		sql += " ORDER BY " + s.orderBy
	}
	return Statement{SQL: sql, Args: args}
}

// One returns an unpaginated statement for the first matching row.
func (s *Select) One() Statement {
	where, args := s.whereClause()
	return Statement{
		SQL:  "SELECT " + strings.Join(s.columns, ", ") + " FROM " + s.table + where + " LIMIT 1",
		Args: args,
	}
}

func (s *Select) whereClause() (string, []any) {
	if len(s.where) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(s.where))
	var args []any
	for _, p := range s.where {
		cond, pArgs := p.render()
		conds = append(conds, cond)
		args = append(args, pArgs...)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ErrNoAssignments is returned when a sparse update carries no fields.
var ErrNoAssignments = errors.New("no fields to update")

// Update is a sparse UPDATE: only assigned columns are written.
type Update struct {
	table  string
	sets   []string
	args   []any
	filter Equality
}

func NewUpdate(table string, filter Equality) *Update {
	return &Update{table: table, filter: filter}
}

func (u *Update) Set(column string, value any) *Update {
	u.sets = append(u.sets, column+" = ?")
	u.args = append(u.args, value)
	return u
}

func (u *Update) Len() int {
	return len(u.sets)
}

// Build fails with ErrNoAssignments rather than producing a no-op statement.
func (u *Update) Build() (Statement, error) {
	if len(u.sets) == 0 {
		return Statement{}, ErrNoAssignments
	}
	cond, filterArgs := u.filter.render()
	args := make([]any, 0, len(u.args)+len(filterArgs))
	args = append(args, u.args...)
	args = append(args, filterArgs...)
	return Statement{
		SQL:  "UPDATE " + u.table + " SET " + strings.Join(u.sets, ", ") + " WHERE " + cond,
		Args: args,
	}, nil
}
