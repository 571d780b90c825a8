package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/omega-realm/mangos-admin/internal/log"
)

// Acknowledgement confirms that a request was accepted for later processing.
type Acknowledgement struct {
	RequestID string    `json:"requestId"`
	QueuedAt  time.Time `json:"queuedAt"`
}

func newAcknowledgement() Acknowledgement {
	return Acknowledgement{RequestID: uuid.NewString(), QueuedAt: time.Now().UTC()}
}

// DeliveryRequest asks for an item to be mailed to a character.
type DeliveryRequest struct {
	CharacterGUID int
	ItemEntry     int
	ItemName      string
	Quantity      int
}

// ItemDelivery hands items to characters, typically via in-game mail.
type ItemDelivery interface {
	Deliver(ctx context.Context, req DeliveryRequest) (Acknowledgement, error)
}

// GMCommand is a console command to run on the world server.
type GMCommand struct {
	Command       string
	CharacterName string
}

// CommandDispatcher forwards GM commands to the world server.
type CommandDispatcher interface {
	Dispatch(ctx context.Context, cmd GMCommand) (Acknowledgement, error)
}

// LogDelivery records delivery requests without performing them.
// TODO: send via the world server's remote access console once one is configured.
type LogDelivery struct{}

func (LogDelivery) Deliver(_ context.Context, req DeliveryRequest) (Acknowledgement, error) {
	ack := newAcknowledgement()
	log.Info("[Delivery] Queued %dx item %d (%s) for character %d request=%s",
		req.Quantity, req.ItemEntry, req.ItemName, req.CharacterGUID, ack.RequestID)
	return ack, nil
}

// LogDispatcher records GM commands without executing them.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(_ context.Context, cmd GMCommand) (Acknowledgement, error) {
	ack := newAcknowledgement()
	target := cmd.CharacterName
	if target == "" {
		target = "N/A"
	}
	log.Info("[Commands] GM command requested: %s for character: %s request=%s", cmd.Command, target, ack.RequestID)
	return ack, nil
}
