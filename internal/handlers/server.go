package handlers

import (
	"context"
	"database/sql"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/log"
	"github.com/omega-realm/mangos-admin/internal/models"
	"github.com/omega-realm/mangos-admin/internal/query"
)

// StatsCache shares dashboard snapshots between API replicas. GetStats
// returns nil on a miss.
type StatsCache interface {
	GetStats(ctx context.Context) (*models.ServerStats, error)
	SetStats(ctx context.Context, stats *models.ServerStats, ttl time.Duration) error
}

const liveWriteWait = 10 * time.Second

type ServerHandler struct {
	base
	realmd     *database.DB
	characters *database.DB
	cache      StatsCache
	interval   time.Duration
	upgrader   websocket.Upgrader
	now        func() time.Time
}

// NewServerHandler builds the stats and realm handler. cache may be nil;
// interval is both the live push period and the cache ttl. Browsers may open
// the live stream only from allowedOrigin unless it is "*".
func NewServerHandler(development bool, realmd, characters *database.DB, cache StatsCache, interval time.Duration, allowedOrigin string) *ServerHandler {
	return &ServerHandler{
		base:       base{development: development},
		realmd:     realmd,
		characters: characters,
		cache:      cache,
		interval:   interval,
		upgrader:   websocket.Upgrader{CheckOrigin: OriginChecker(allowedOrigin)},
		now:        time.Now,
	}
}

// OriginChecker accepts requests without an Origin header (non-browser
// clients), any origin when allowed is "*" or blank, and otherwise only an
// exact, case-insensitive match.
func OriginChecker(allowed string) func(r *http.Request) bool {
	allowed = strings.TrimRight(strings.TrimSpace(allowed), "/")
	return func(r *http.Request) bool {
		if allowed == "" || allowed == "*" {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return strings.EqualFold(strings.TrimRight(origin, "/"), allowed)
	}
}

// UpdateRealmRequest carries the fields a sparse realm update may set
type UpdateRealmRequest struct {
	Name                 *string `json:"name"`
	Address              *string `json:"address"`
	Port                 *int    `json:"port"`
	Icon                 *int    `json:"icon"`
	Timezone             *int    `json:"timezone"`
	AllowedSecurityLevel *int    `json:"allowedSecurityLevel"`
}

// Stats returns the dashboard summary
func (h *ServerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.snapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ServerHandler) snapshot(ctx context.Context) (*models.ServerStats, error) {
	if h.cache != nil {
		cached, err := h.cache.GetStats(ctx)
		if err != nil {
			log.Warn("[Server] Stats cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := h.collectStats(ctx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetStats(ctx, stats, h.interval); err != nil {
			log.Warn("[Server] Stats cache write failed: %v", err)
		}
	}
	return stats, nil
}

func (h *ServerHandler) collectStats(ctx context.Context) (*models.ServerStats, error) {
	stats := &models.ServerStats{GeneratedAt: h.now().UTC()}
	var err error

	if stats.Accounts, err = h.realmd.Count(ctx, "SELECT COUNT(*) FROM account"); err != nil {
		return nil, &PersistenceError{Op: "fetch server stats", Err: err}
	}
	if stats.Characters, err = h.characters.Count(ctx, "SELECT COUNT(*) FROM characters"); err != nil {
		return nil, &PersistenceError{Op: "fetch server stats", Err: err}
	}

	var (
		avgLevel sql.NullFloat64
		maxLevel sql.NullInt64
	)
	if err := h.characters.QueryRowContext(ctx, "SELECT AVG(level), MAX(level) FROM characters").Scan(&avgLevel, &maxLevel); err != nil {
		return nil, &PersistenceError{Op: "fetch server stats", Err: err}
	}
	stats.AverageLevel = int(math.Round(avgLevel.Float64))
	stats.MaxLevel = int(maxLevel.Int64)

	online, err := h.characters.Count(ctx, "SELECT COUNT(*) FROM characters WHERE online = ?", 1)
	switch {
	case err == nil:
		stats.OnlinePlayers = online
	case database.IsSchemaMissing(err):
		log.Debug("[Server] characters.online unavailable, reporting 0 online players")
	default:
		return nil, &PersistenceError{Op: "fetch server stats", Err: err}
	}

	realms, err := h.realmd.QueryRows(ctx, "SELECT * FROM realmlist")
	if err != nil {
		return nil, &PersistenceError{Op: "fetch server stats", Err: err}
	}
	stats.Realms = make([]map[string]any, len(realms))
	for i, realm := range realms {
		stats.Realms[i] = realm
	}
	return stats, nil
}

// Live streams a stats snapshot every interval until the client goes away
func (h *ServerHandler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("[Server] Failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.Close()
	log.Debug("[Server] Live stats connection from %s", conn.RemoteAddr().String())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The read loop only notices the client closing the socket.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("[Server] Live stats read from %s: %v", conn.RemoteAddr().String(), err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, conn); err != nil {
			log.Trace("[Server] Live stats closed for %s: %v", conn.RemoteAddr().String(), err)
			return
		}
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
			return
		case <-ticker.C:
		}
	}
}

func (h *ServerHandler) push(ctx context.Context, conn *websocket.Conn) error {
	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
		return err
	}
	stats, err := h.snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("[Server] Live stats snapshot failed: %v", err)
		return conn.WriteJSON(ErrorResponse{Error: "Failed to fetch server stats"})
	}
	return conn.WriteJSON(stats)
}

// Realms returns the realmlist rows
func (h *ServerHandler) Realms(w http.ResponseWriter, r *http.Request) {
	realms, err := h.realmd.QueryRows(r.Context(), "SELECT * FROM realmlist")
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch realms", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, realms)
}

// UpdateRealm applies a sparse update to a realmlist row
func (h *ServerHandler) UpdateRealm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req UpdateRealmRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validateRealmUpdate(&req); err != nil {
		h.writeError(w, r, err)
		return
	}

	upd := query.NewUpdate("realmlist", query.Equality{Column: "id", Value: id})
	if req.Name != nil {
		upd.Set("name", *req.Name)
	}
	if req.Address != nil {
		upd.Set("address", *req.Address)
	}
	if req.Port != nil {
		upd.Set("port", *req.Port)
	}
	if req.Icon != nil {
		upd.Set("icon", *req.Icon)
	}
	if req.Timezone != nil {
		upd.Set("timezone", *req.Timezone)
	}
	if req.AllowedSecurityLevel != nil {
		upd.Set("allowedSecurityLevel", *req.AllowedSecurityLevel)
	}

	if err := execUpdate(r.Context(), h.realmd, upd, "update realm"); err != nil {
		h.writeError(w, r, err)
		return
	}
	log.Info("[Server] Updated realm %d", id)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Realm updated successfully"})
}

// validateRealmUpdate validates the values of a realm update
func validateRealmUpdate(req *UpdateRealmRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name must not be empty"}
	}
	if req.Address != nil && strings.TrimSpace(*req.Address) == "" {
		return &ValidationError{Field: "address", Message: "Address must not be empty"}
	}
	if req.Port != nil && (*req.Port < 1 || *req.Port > 65535) {
		return &ValidationError{Field: "port", Message: "Port must be between 1 and 65535"}
	}
	if req.AllowedSecurityLevel != nil && *req.AllowedSecurityLevel < 0 {
		return &ValidationError{Field: "allowedSecurityLevel", Message: "allowedSecurityLevel must not be negative"}
	}
	return nil
}
