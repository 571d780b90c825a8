package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/models"
	"github.com/omega-realm/mangos-admin/internal/query"
)

type CharacterHandler struct {
	base
	characters *database.DB
	realmd     *database.DB
	world      *database.DB
	delivery   ItemDelivery
}

func NewCharacterHandler(development bool, characters, realmd, world *database.DB, delivery ItemDelivery) *CharacterHandler {
	return &CharacterHandler{
		base:       base{development: development},
		characters: characters,
		realmd:     realmd,
		world:      world,
		delivery:   delivery,
	}
}

// UpdateCharacterRequest carries the fields a sparse character update may set
type UpdateCharacterRequest struct {
	Level            *int     `json:"level"`
	Money            *int64   `json:"money"`
	TotalHonorPoints *float64 `json:"totalHonorPoints"`
}

// GiveItemRequest represents the request body for item delivery
type GiveItemRequest struct {
	ItemID   int  `json:"itemId"`
	Quantity *int `json:"quantity"`
}

// ItemRef identifies the delivered item
type ItemRef struct {
	Entry int    `json:"entry"`
	Name  string `json:"name"`
}

// GiveItemResponse acknowledges a queued item delivery
type GiveItemResponse struct {
	Message  string  `json:"message"`
	Note     string  `json:"note"`
	Item     ItemRef `json:"item"`
	Quantity int     `json:"quantity"`
	Acknowledgement
}

// CharacterDetailResponse is a character row with its inventory
type CharacterDetailResponse struct {
	Character database.Row   `json:"character"`
	Inventory []database.Row `json:"inventory"`
}

// List returns the highest level characters with their owner's username.
// Usernames live in realmd, so they are merged from a second query.
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stmt, _ := query.NewSelect("characters", "guid", "name", "race", "class", "level", "money", "totaltime", "account").
		OrderBy("level DESC, guid").
		Build(query.Page{Number: 1, Limit: listLimit})

	rows, err := h.characters.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch characters", Err: err})
		return
	}
	defer rows.Close()

	characters := []models.CharacterSummary{}
	accountIDs := []any{}
	seen := map[int]bool{}
	for rows.Next() {
		var c models.CharacterSummary
		if err := rows.Scan(&c.GUID, &c.Name, &c.Race, &c.Class, &c.Level, &c.Money, &c.TotalTime, &c.Account); err != nil {
			h.writeError(w, r, &PersistenceError{Op: "fetch characters", Err: err})
			return
		}
		if !seen[c.Account] {
			seen[c.Account] = true
			accountIDs = append(accountIDs, c.Account)
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch characters", Err: err})
		return
	}

	if len(accountIDs) > 0 {
		names, err := h.usernames(r, accountIDs)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		for i := range characters {
			if name, ok := names[characters[i].Account]; ok {
				characters[i].Username = &name
			}
		}
	}

	writeJSON(w, http.StatusOK, characters)
}

func (h *CharacterHandler) usernames(r *http.Request, ids []any) (map[int]string, error) {
	stmt := query.NewSelect("account", "id", "username").
		Where(query.In{Column: "id", Values: ids}).
		All()
	rows, err := h.realmd.QueryContext(r.Context(), stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, &PersistenceError{Op: "fetch characters", Err: err}
	}
	defer rows.Close()

	names := make(map[int]string, len(ids))
	for rows.Next() {
		var (
			id   int
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, &PersistenceError{Op: "fetch characters", Err: err}
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "fetch characters", Err: err}
	}
	return names, nil
}

// Get returns every column of a character plus its inventory rows
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	guid, err := pathID(r, "guid")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ctx := r.Context()

	character, err := h.characters.QueryRows(ctx, "SELECT * FROM characters WHERE guid = ?", guid)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch character", Err: err})
		return
	}
	if len(character) == 0 {
		h.writeError(w, r, &NotFoundError{Resource: "Character"})
		return
	}

	inventory, err := h.characters.QueryRows(ctx, "SELECT * FROM character_inventory WHERE guid = ?", guid)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch character", Err: err})
		return
	}

	writeJSON(w, http.StatusOK, CharacterDetailResponse{Character: character[0], Inventory: inventory})
}

// Update applies a sparse update of level, money and totalHonorPoints
func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	guid, err := pathID(r, "guid")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req UpdateCharacterRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validateCharacterUpdate(&req); err != nil {
		h.writeError(w, r, err)
		return
	}

	upd := query.NewUpdate("characters", query.Equality{Column: "guid", Value: guid})
	if req.Level != nil {
		upd.Set("level", *req.Level)
	}
	if req.Money != nil {
		upd.Set("money", *req.Money)
	}
	if req.TotalHonorPoints != nil {
		upd.Set("totalHonorPoints", *req.TotalHonorPoints)
	}

	if err := execUpdate(r.Context(), h.characters, upd, "update character"); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Character updated successfully"})
}

// GiveItem verifies the item template and queues a delivery
func (h *CharacterHandler) GiveItem(w http.ResponseWriter, r *http.Request) {
	guid, err := pathID(r, "guid")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req GiveItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ItemID == 0 {
		h.writeError(w, r, &ValidationError{Field: "itemId", Message: "Item ID is required"})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			h.writeError(w, r, &ValidationError{Field: "quantity", Message: "Quantity must be a positive integer"})
			return
		}
		quantity = *req.Quantity
	}

	stmt := query.NewSelect("item_template", "entry", "name").
		Where(query.Equality{Column: "entry", Value: req.ItemID}).
		One()
	var item ItemRef
	err = h.world.QueryRowContext(r.Context(), stmt.SQL, stmt.Args...).Scan(&item.Entry, &item.Name)
	if errors.Is(err, sql.ErrNoRows) {
		h.writeError(w, r, &NotFoundError{Resource: "Item"})
		return
	}
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "give item", Err: err})
		return
	}

	ack, err := h.delivery.Deliver(r.Context(), DeliveryRequest{
		CharacterGUID: guid,
		ItemEntry:     item.Entry,
		ItemName:      item.Name,
		Quantity:      quantity,
	})
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "give item", Err: err})
		return
	}

	writeJSON(w, http.StatusOK, GiveItemResponse{
		Message:         "Item delivery queued",
		Note:            "Item will be sent via in-game mail. Character must be online or check mailbox.",
		Item:            item,
		Quantity:        quantity,
		Acknowledgement: ack,
	})
}

// Delete removes a character row
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	guid, err := pathID(r, "guid")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.characters.ExecContext(r.Context(), "DELETE FROM characters WHERE guid = ?", guid)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "delete character", Err: err})
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		h.writeError(w, r, &NotFoundError{Resource: "Character"})
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Character deleted successfully"})
}

// validateCharacterUpdate validates the values of a character update
func validateCharacterUpdate(req *UpdateCharacterRequest) error {
	if req.Level != nil && (*req.Level < 1 || *req.Level > 255) {
		return &ValidationError{Field: "level", Message: "Level must be between 1 and 255"}
	}
	if req.Money != nil && *req.Money < 0 {
		return &ValidationError{Field: "money", Message: "Money must not be negative"}
	}
	if req.TotalHonorPoints != nil && *req.TotalHonorPoints < 0 {
		return &ValidationError{Field: "totalHonorPoints", Message: "totalHonorPoints must not be negative"}
	}
	return nil
}
