package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type BulkRescoreUseCase struct {
	Repo LeadRepositoryInterface
}

func NewBulkRescoreUseCase(repo LeadRepositoryInterface) *BulkRescoreUseCase {
	return &BulkRescoreUseCase{Repo: repo}
}

type BulkRescoreItemError struct {
	LeadID  string `json:"lead_id"`
	Message string `json:"message"`
}

type BulkRescoreOutput struct {
	Total    int                    `json:"total"`
	Rescored int                    `json:"rescored"`
	Failed   int                    `json:"failed"`
	Errors   []BulkRescoreItemError `json:"errors,omitempty"`
}

// Execute repontua todos os leads ativos da organização. Cada lead é
// independente: erro em um entra no sumário e o lote segue.
func (uc *BulkRescoreUseCase) Execute(ctx context.Context, organizationID, reason, actor string) (*BulkRescoreOutput, error) {
	leads, err := uc.Repo.FindByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		reason = "bulk_rescore"
	}

	output := &BulkRescoreOutput{}
	now := time.Now()

	for _, lead := range leads {
		if lead.HasTag(entity.TagMergedDuplicate) {
			continue
		}
		output.Total++

		if err := uc.rescoreOne(ctx, lead, reason, actor, now); err != nil {
			output.Failed++
			output.Errors = append(output.Errors, BulkRescoreItemError{
				LeadID:  lead.ID,
				Message: err.Error(),
			})
			continue
		}
		output.Rescored++
	}

	if output.Failed > 0 {
		log.Printf("⚠️ Rescore da org %s terminou com %d falhas em %d leads", organizationID, output.Failed, output.Total)
	}

	return output, nil
}

func (uc *BulkRescoreUseCase) rescoreOne(ctx context.Context, lead *entity.Lead, reason, actor string, now time.Time) error {
	total, factors := ComputeScore(lead, now)

	var previous *int
	if lead.Score != nil {
		p := *lead.Score
		previous = &p
	}

	entry, err := entity.NewScoreHistoryEntry(lead, total, previous, factors, reason, actor)
	if err != nil {
		return err
	}

	lead.Score = &total
	lead.ScoreFactors = factors
	lead.Fingerprint = Fingerprint(lead.Email, lead.Phone, lead.Name)
	lead.UpdatedAt = now

	return uc.Repo.SaveScore(ctx, lead, entry)
}
