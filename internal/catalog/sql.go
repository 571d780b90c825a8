package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/log"
	"github.com/omega-realm/mangos-admin/internal/query"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// SQLTable describes how a catalog maps onto a database table.
type SQLTable[T any] struct {
	Name       string
	Columns    []string
	IDColumn   string
	NameColumn string
	OrderBy    string
	Scan       func(Scanner) (T, error)
}

// SQLCatalog searches a table through the query builder. A tolerant catalog
// answers with an empty result when the table or one of its columns does not
// exist on the connected server build.
type SQLCatalog[T any] struct {
	db       *database.DB
	table    SQLTable[T]
	tolerant bool
}

func NewSQLCatalog[T any](db *database.DB, table SQLTable[T], tolerant bool) *SQLCatalog[T] {
	return &SQLCatalog[T]{db: db, table: table, tolerant: tolerant}
}

func (c *SQLCatalog[T]) Search(ctx context.Context, term query.Term, page query.Page) (query.Envelope[T], error) {
	return c.SearchWhere(ctx, term, page)
}

// SearchWhere is Search with additional filters ANDed after the term predicate.
func (c *SQLCatalog[T]) SearchWhere(ctx context.Context, term query.Term, page query.Page, filters ...query.Predicate) (query.Envelope[T], error) {
	sel := query.NewSelect(c.table.Name, c.table.Columns...).
		Where(term.Predicate(c.table.IDColumn, c.table.NameColumn)).
		Where(filters...).
		OrderBy(c.table.OrderBy)
	data, count := sel.Build(page)

	total, err := c.db.Count(ctx, count.SQL, count.Args...)
	if err != nil {
		if c.schemaMissing(err) {
			return query.Empty[T](page), nil
		}
		return query.Envelope[T]{}, fmt.Errorf("failed to count %s: %w", c.table.Name, err)
	}

	rows, err := c.db.QueryContext(ctx, data.SQL, data.Args...)
	if err != nil {
		if c.schemaMissing(err) {
			return query.Empty[T](page), nil
		}
		return query.Envelope[T]{}, fmt.Errorf("failed to search %s: %w", c.table.Name, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := c.table.Scan(rows)
		if err != nil {
			return query.Envelope[T]{}, fmt.Errorf("failed to scan %s: %w", c.table.Name, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return query.Envelope[T]{}, fmt.Errorf("failed to iterate %s: %w", c.table.Name, err)
	}
	return query.NewEnvelope(out, page, total), nil
}

func (c *SQLCatalog[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	stmt := query.NewSelect(c.table.Name, c.table.Columns...).
		Where(query.Equality{Column: c.table.IDColumn, Value: id}).
		One()

	item, err := c.table.Scan(c.db.QueryRowContext(ctx, stmt.SQL, stmt.Args...))
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, sql.ErrNoRows), c.schemaMissing(err):
		return zero, ErrNotFound
	default:
		return zero, fmt.Errorf("failed to fetch %s %d: %w", c.table.Name, id, err)
	}
}

func (c *SQLCatalog[T]) schemaMissing(err error) bool {
	if !c.tolerant || !database.IsSchemaMissing(err) {
		return false
	}
	log.Warn("[Catalog] %s unavailable on this server build: %v", c.table.Name, err)
	return true
}
