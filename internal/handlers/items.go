package handlers

import (
	"net/http"

	"github.com/omega-realm/mangos-admin/internal/catalog"
	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/models"
	"github.com/omega-realm/mangos-admin/internal/query"
)

var itemTable = catalog.SQLTable[models.Item]{
	Name:       "item_template",
	Columns:    []string{"entry", "name", "Quality", "ItemLevel", "RequiredLevel", "class"},
	IDColumn:   "entry",
	NameColumn: "name",
	OrderBy:    "name, entry",
	Scan: func(s catalog.Scanner) (models.Item, error) {
		var it models.Item
		err := s.Scan(&it.Entry, &it.Name, &it.Quality, &it.ItemLevel, &it.RequiredLevel, &it.Class)
		return it, err
	},
}

type ItemHandler struct {
	base
	world  *database.DB
	search *catalog.SQLCatalog[models.Item]
}

func NewItemHandler(development bool, world *database.DB) *ItemHandler {
	return &ItemHandler{
		base:   base{development: development},
		world:  world,
		search: catalog.NewSQLCatalog(world, itemTable, false),
	}
}

// Search filters item templates by q, class and quality
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	term, page, err := searchParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	class, err := queryInt(r, "class")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	quality, err := queryInt(r, "quality")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var filters []query.Predicate
	if class != nil {
		filters = append(filters, query.Equality{Column: "class", Value: *class})
	}
	if quality != nil {
		filters = append(filters, query.Equality{Column: "Quality", Value: *quality})
	}

	env, err := h.search.SearchWhere(r.Context(), term, page, filters...)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "search items", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, env)
}

// Get returns every column of an item template
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	getTemplateRow(h.base, h.world, w, r, "item_template", "entry", "Item")
}

// getTemplateRow serves a world template row by its entry.
func getTemplateRow(b base, db *database.DB, w http.ResponseWriter, r *http.Request, table, idColumn, resource string) {
	id, err := pathID(r, "id")
	if err != nil {
		b.writeError(w, r, err)
		return
	}
	rows, err := db.QueryRows(r.Context(), "SELECT * FROM "+table+" WHERE "+idColumn+" = ? LIMIT 1", id)
	if err != nil {
		b.writeError(w, r, &PersistenceError{Op: "fetch " + table, Err: err})
		return
	}
	if len(rows) == 0 {
		b.writeError(w, r, &NotFoundError{Resource: resource})
		return
	}
	writeJSON(w, http.StatusOK, rows[0])
}
