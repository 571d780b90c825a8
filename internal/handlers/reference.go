package handlers

import (
	"errors"
	"net/http"

	"github.com/omega-realm/mangos-admin/internal/catalog"
)

// CatalogHandler serves search and lookup for one reference catalog.
type CatalogHandler[T any] struct {
	base
	resource string
	plural   string
	catalog  catalog.Catalog[T]
}

// NewCatalogHandler builds a handler; resource names the entry in 404
// messages ("Spell") and plural names it in failure messages ("spells").
func NewCatalogHandler[T any](development bool, resource, plural string, c catalog.Catalog[T]) *CatalogHandler[T] {
	return &CatalogHandler[T]{base: base{development: development}, resource: resource, plural: plural, catalog: c}
}

func (h *CatalogHandler[T]) Search(w http.ResponseWriter, r *http.Request) {
	term, page, err := searchParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	env, err := h.catalog.Search(r.Context(), term, page)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "search " + h.plural, Err: err})
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *CatalogHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, err := h.catalog.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		h.writeError(w, r, &NotFoundError{Resource: h.resource})
		return
	}
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch " + h.plural, Err: err})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
