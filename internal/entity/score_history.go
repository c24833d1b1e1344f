package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Entidade: ScoreHistoryEntry
// Imutável depois de criada. O ledger só aceita append, nunca update/delete.
type ScoreHistoryEntry struct {
	ID             string         `json:"id"`
	LeadID         string         `json:"lead_id"`
	OrganizationID string         `json:"organization_id"`
	Score          int            `json:"score"`
	PreviousScore  *int           `json:"previous_score,omitempty"`
	Factors        map[string]int `json:"factors"`
	Reason         string         `json:"reason"`
	Actor          string         `json:"actor,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Factory
func NewScoreHistoryEntry(lead *Lead, score int, previous *int, factors map[string]int, reason, actor string) (*ScoreHistoryEntry, error) {
	if lead == nil {
		return nil, errors.New("lead is required")
	}
	if reason == "" {
		return nil, errors.New("reason is required")
	}

	snapshot := make(map[string]int, len(factors))
	for k, v := range factors {
		snapshot[k] = v
	}

	return &ScoreHistoryEntry{
		ID:             uuid.New().String(),
		LeadID:         lead.ID,
		OrganizationID: lead.OrganizationID,
		Score:          score,
		PreviousScore:  previous,
		Factors:        snapshot,
		Reason:         reason,
		Actor:          actor,
		CreatedAt:      time.Now(),
	}, nil
}
