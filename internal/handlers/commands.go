package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/models"
	"github.com/omega-realm/mangos-admin/internal/query"
)

type CommandHandler struct {
	base
	world      *database.DB
	dispatcher CommandDispatcher
	common     []models.CommonCommand
}

func NewCommandHandler(development bool, world *database.DB, dispatcher CommandDispatcher, common []models.CommonCommand) *CommandHandler {
	return &CommandHandler{base: base{development: development}, world: world, dispatcher: dispatcher, common: common}
}

// ExecuteCommandRequest represents the request body for a GM command
type ExecuteCommandRequest struct {
	Command       string `json:"command"`
	CharacterName string `json:"characterName"`
}

// ExecuteCommandResponse acknowledges a queued GM command
type ExecuteCommandResponse struct {
	Message       string `json:"message"`
	Note          string `json:"note"`
	Command       string `json:"command"`
	CharacterName string `json:"characterName,omitempty"`
	Acknowledgement
}

// Execute queues a GM command with the dispatcher
func (h *CommandHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteCommandRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Command = strings.TrimSpace(req.Command)
	if req.Command == "" {
		h.writeError(w, r, &ValidationError{Field: "command", Message: "Command is required"})
		return
	}

	ack, err := h.dispatcher.Dispatch(r.Context(), GMCommand{Command: req.Command, CharacterName: req.CharacterName})
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "execute command", Err: err})
		return
	}

	writeJSON(w, http.StatusOK, ExecuteCommandResponse{
		Message:         "Command queued for execution",
		Note:            "Commands are executed via Remote Access protocol. Ensure RA is enabled on the server.",
		Command:         req.Command,
		CharacterName:   req.CharacterName,
		Acknowledgement: ack,
	})
}

// Available lists the commands known to the world database
func (h *CommandHandler) Available(w http.ResponseWriter, r *http.Request) {
	stmt := query.NewSelect("command", "name", "help").OrderBy("name").All()
	rows, err := h.world.QueryContext(r.Context(), stmt.SQL, stmt.Args...)
	if err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch commands", Err: err})
		return
	}
	defer rows.Close()

	commands := []models.CommandHelp{}
	for rows.Next() {
		var (
			c    models.CommandHelp
			help sql.NullString
		)
		if err := rows.Scan(&c.Name, &help); err != nil {
			h.writeError(w, r, &PersistenceError{Op: "fetch commands", Err: err})
			return
		}
		c.Help = help.String
		commands = append(commands, c)
	}
	if err := rows.Err(); err != nil {
		h.writeError(w, r, &PersistenceError{Op: "fetch commands", Err: err})
		return
	}

	writeJSON(w, http.StatusOK, commands)
}

// Common returns the static list of frequently used commands
func (h *CommandHandler) Common(w http.ResponseWriter, r *http.Request) {
	common := h.common
	if common == nil {
		common = []models.CommonCommand{}
	}
	writeJSON(w, http.StatusOK, common)
}
