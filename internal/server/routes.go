package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"

	"github.com/omega-realm/mangos-admin/internal/catalog"
	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/handlers"
	"github.com/omega-realm/mangos-admin/internal/middleware"
	"github.com/omega-realm/mangos-admin/internal/ratelimit"
)

// Deps are the collaborators the routes are built from. Limiter and
// StatsCache are optional.
type Deps struct {
	Pools      *database.Pools
	Catalogs   *catalog.Set
	Limiter    *ratelimit.Limiter
	StatsCache handlers.StatsCache
	Delivery   handlers.ItemDelivery
	Dispatcher handlers.CommandDispatcher
}

// NewRouter wires every route and the middleware chain.
func NewRouter(cfg *Config, deps Deps) http.Handler {
	dev := cfg.Development()
	pools := deps.Pools

	accounts := handlers.NewAccountHandler(dev, pools.Realmd, pools.Characters)
	characters := handlers.NewCharacterHandler(dev, pools.Characters, pools.Realmd, pools.World, deps.Delivery)
	items := handlers.NewItemHandler(dev, pools.World)
	quests := handlers.NewQuestHandler(dev, pools.World)
	spells := handlers.NewCatalogHandler(dev, "Spell", "spells", deps.Catalogs.Spells)
	skills := handlers.NewCatalogHandler(dev, "Skill", "skills", deps.Catalogs.Skills)
	factions := handlers.NewCatalogHandler(dev, "Faction", "factions", deps.Catalogs.Factions)
	server := handlers.NewServerHandler(dev, pools.Realmd, pools.Characters, deps.StatsCache, cfg.StatsInterval, cfg.CORSOrigin)
	commands := handlers.NewCommandHandler(dev, pools.World, deps.Dispatcher, deps.Catalogs.Commands)

	limit := func(next http.Handler) http.Handler { return next }
	if deps.Limiter != nil {
		limit = middleware.RateLimit(deps.Limiter, cfg.TrustProxy)
	}

	root := mux.NewRouter()
	root.NotFoundHandler = http.HandlerFunc(notFound)
	root.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	root.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	// Registered ahead of the /api subrouter so the upgrade is not gzipped.
	root.Handle("/api/server/stats/live", limit(http.HandlerFunc(server.Live))).Methods(http.MethodGet)

	api := root.PathPrefix("/api").Subrouter()
	api.Use(limit, func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })
	api.NotFoundHandler = root.NotFoundHandler
	api.MethodNotAllowedHandler = root.MethodNotAllowedHandler

	api.HandleFunc("/accounts", accounts.List).Methods(http.MethodGet)
	api.HandleFunc("/accounts", accounts.Create).Methods(http.MethodPost)
	api.HandleFunc("/accounts/{id}", accounts.Get).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{id}", accounts.Update).Methods(http.MethodPut)
	api.HandleFunc("/accounts/{id}", accounts.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/accounts/{id}/reset-password", accounts.ResetPassword).Methods(http.MethodPost)

	api.HandleFunc("/characters", characters.List).Methods(http.MethodGet)
	api.HandleFunc("/characters/{guid}", characters.Get).Methods(http.MethodGet)
	api.HandleFunc("/characters/{guid}", characters.Update).Methods(http.MethodPut)
	api.HandleFunc("/characters/{guid}", characters.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/characters/{guid}/items", characters.GiveItem).Methods(http.MethodPost)

	api.HandleFunc("/items/search", items.Search).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", items.Get).Methods(http.MethodGet)
	api.HandleFunc("/quests/search", quests.Search).Methods(http.MethodGet)
	api.HandleFunc("/quests/{id}", quests.Get).Methods(http.MethodGet)
	api.HandleFunc("/spells/search", spells.Search).Methods(http.MethodGet)
	api.HandleFunc("/spells/{id}", spells.Get).Methods(http.MethodGet)
	api.HandleFunc("/skills/search", skills.Search).Methods(http.MethodGet)
	api.HandleFunc("/skills/{id}", skills.Get).Methods(http.MethodGet)
	api.HandleFunc("/reputations/search", factions.Search).Methods(http.MethodGet)
	api.HandleFunc("/reputations/{id}", factions.Get).Methods(http.MethodGet)

	api.HandleFunc("/server/stats", server.Stats).Methods(http.MethodGet)
	api.HandleFunc("/server/realms", server.Realms).Methods(http.MethodGet)
	api.HandleFunc("/server/realms/{id}", server.UpdateRealm).Methods(http.MethodPut)

	api.HandleFunc("/commands/execute", commands.Execute).Methods(http.MethodPost)
	api.HandleFunc("/commands/available", commands.Available).Methods(http.MethodGet)
	api.HandleFunc("/commands/common", commands.Common).Methods(http.MethodGet)

	return middleware.Chain(root,
		middleware.RequestID,
		middleware.AccessLog,
		middleware.Recover(dev),
		middleware.SecurityHeaders,
		middleware.CORS(cfg.CORSOrigin),
	)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
