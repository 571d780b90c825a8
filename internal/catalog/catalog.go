// Package catalog serves the read-only reference lookups: spells, skills,
// factions and common GM commands. Lookups come either from tables embedded in
// the binary or from the world database.
package catalog

import (
	"context"
	"errors"

	"github.com/omega-realm/mangos-admin/internal/query"
)

// ErrNotFound is returned by Get when no entry has the requested id.
var ErrNotFound = errors.New("catalog entry not found")

// Catalog is a searchable, paginated reference table.
type Catalog[T any] interface {
	Search(ctx context.Context, term query.Term, page query.Page) (query.Envelope[T], error)
	Get(ctx context.Context, id int) (T, error)
}
