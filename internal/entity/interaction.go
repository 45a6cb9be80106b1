package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	InteractionCall    = "call"
	InteractionEmail   = "email"
	InteractionMeeting = "meeting"
	InteractionNote    = "note"
)

var InteractionTypes = []string{InteractionCall, InteractionEmail, InteractionMeeting, InteractionNote}

// Interaction é um contato registrado contra um lead. Nunca é editado.
type Interaction struct {
	ID         string    `json:"id"`
	LeadID     string    `json:"lead_id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewInteraction(userID, leadID, kind, content string, occurredAt time.Time) *Interaction {
	now := time.Now().UTC()
	if occurredAt.IsZero() {
		occurredAt = now
	}
	return &Interaction{
		ID:         uuid.New().String(),
		LeadID:     leadID,
		UserID:     userID,
		Type:       kind,
		Content:    content,
		OccurredAt: occurredAt,
		CreatedAt:  now,
	}
}

type InteractionRepositoryInterface interface {
	Create(ctx context.Context, i *Interaction) error
	ListByLead(ctx context.Context, userID, leadID string) ([]*Interaction, error)
}
