package handlers

import (
	"net/http"

	"github.com/omega-realm/mangos-admin/internal/catalog"
	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/models"
	"github.com/omega-realm/mangos-admin/internal/query"
)

var questTable = catalog.SQLTable[models.Quest]{
	Name: "quest_template",
	Columns: []string{
		"entry AS id",
		"Title AS title",
		"QuestLevel AS level",
		"MinLevel AS minLevel",
		"Type AS type",
		"SuggestedPlayers AS suggestedPlayers",
	},
	IDColumn:   "entry",
	NameColumn: "Title",
	OrderBy:    "Title, entry",
	Scan: func(s catalog.Scanner) (models.Quest, error) {
		var q models.Quest
		err := s.Scan(&q.ID, &q.Title, &q.Level, &q.MinLevel, &q.Type, &q.SuggestedPlayers)
		return q, err
	},
}

// QuestHandler serves quest templates. Some server builds ship without
// quest_template, in which case searches return an empty page.
type QuestHandler struct {
	base
	world  *database.DB
	search *catalog.SQLCatalog[models.Quest]
}

func NewQuestHandler(development bool, world *database.DB) *QuestHandler {
	return &QuestHandler{
		base:   base{development: development},
		world:  world,
		search: catalog.NewSQLCatalog(world, questTable, true),
	}
}

// Search filters quests by q and a level window
func (h *QuestHandler) Search(w http.ResponseWriter, r *http.Request) {
	term, page, err := searchParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	minLevel, err := queryInt(r, "minLevel")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	maxLevel, err := queryInt(r, "maxLevel")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var filters []query.Predicate
	if minLevel != nil {
		filters = append(filters, query.Range{Column: "MinLevel", Bound: query.AtLeast, Value: *minLevel})
	}
	if maxLevel != nil {
		filters = append(filters, query.Range{Column: "QuestLevel", Bound: query.AtMost, Value: *maxLevel})
	}

	env, err := h.search.SearchWhere(r.Context(), term, page, filters...)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "search quests", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, env)
}

// Get returns every column of a quest template
func (h *QuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	getTemplateRow(h.base, h.world, w, r, "quest_template", "entry", "Quest")
}
