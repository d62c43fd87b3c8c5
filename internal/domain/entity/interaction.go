package entity

import (
	"time"

	"github.com/google/uuid"
)

// InteractionType distinguishes rep-written notes from system audit entries.
type InteractionType string

const (
	InteractionNote   InteractionType = "note"
	InteractionSystem InteractionType = "system"
)

// Interaction is one entry in a customer's append-only activity log.
type Interaction struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	UserID     uuid.UUID
	UserName   string
	Type       InteractionType
	Content    string
	CreatedAt  time.Time
}

// NewSystemInteraction builds an audit entry recorded alongside a state change.
func NewSystemInteraction(customerID, userID uuid.UUID, userName, content string) *Interaction {
	return &Interaction{
		CustomerID: customerID,
		UserID:     userID,
		UserName:   userName,
		Type:       InteractionSystem,
		Content:    content,
	}
}
