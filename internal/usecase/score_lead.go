package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ScoreLeadUseCase struct {
	Repo LeadRepositoryInterface
}

func NewScoreLeadUseCase(repo LeadRepositoryInterface) *ScoreLeadUseCase {
	return &ScoreLeadUseCase{Repo: repo}
}

type ScoreLeadInput struct {
	OrganizationID string `json:"organization_id"`
	LeadID         string `json:"lead_id"`
	Reason         string `json:"reason"`
	Actor          string `json:"actor,omitempty"`

	// DryRun calcula sem persistir (e sem lançar no histórico).
	DryRun bool `json:"dry_run,omitempty"`
}

type ScoreLeadOutput struct {
	Lead    *entity.Lead   `json:"lead"`
	Score   int            `json:"score"`
	Factors map[string]int `json:"factors"`
}

func (uc *ScoreLeadUseCase) Execute(ctx context.Context, input ScoreLeadInput) (*ScoreLeadOutput, error) {
	lead, err := uc.Repo.FindByID(ctx, input.OrganizationID, input.LeadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, NewNotFoundError("lead", input.LeadID)
	}

	now := time.Now()
	total, factors := ComputeScore(lead, now)

	if input.DryRun {
		return &ScoreLeadOutput{Lead: lead, Score: total, Factors: factors}, nil
	}

	reason := input.Reason
	if reason == "" {
		reason = "lead_updated"
	}

	var previous *int
	if lead.Score != nil {
		p := *lead.Score
		previous = &p
	}

	entry, err := entity.NewScoreHistoryEntry(lead, total, previous, factors, reason, input.Actor)
	if err != nil {
		return nil, &TechnicalError{Code: "HISTORY_ENTRY", Message: err.Error()}
	}

	lead.Score = &total
	lead.ScoreFactors = factors
	lead.Fingerprint = Fingerprint(lead.Email, lead.Phone, lead.Name)
	lead.UpdatedAt = now

	// Score e histórico entram juntos: o repositório embrulha numa transação.
	if err := uc.Repo.SaveScore(ctx, lead, entry); err != nil {
		return nil, &TechnicalError{Code: "SAVE_SCORE", Message: fmt.Sprintf("erro ao persistir score: %v", err)}
	}

	return &ScoreLeadOutput{Lead: lead, Score: total, Factors: factors}, nil
}

// RescoreLead implementa o contrato do worker de fila.
func (uc *ScoreLeadUseCase) RescoreLead(ctx context.Context, organizationID, leadID, reason string) error {
	_, err := uc.Execute(ctx, ScoreLeadInput{
		OrganizationID: organizationID,
		LeadID:         leadID,
		Reason:         reason,
		Actor:          "worker",
	})
	return err
}
