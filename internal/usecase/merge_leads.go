package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Estratégias de merge.
const (
	StrategyKeepOriginal = "keep_original"
	StrategyKeepRecent   = "keep_recent"
	StrategyKeepBestData = "keep_best_data"
)

type MergeLeadsUseCase struct {
	Repo LeadRepositoryInterface
}

func NewMergeLeadsUseCase(repo LeadRepositoryInterface) *MergeLeadsUseCase {
	return &MergeLeadsUseCase{Repo: repo}
}

type MergeLeadsInput struct {
	OrganizationID string `json:"organization_id"`
	PrimaryID      string `json:"primary_id"`
	DuplicateID    string `json:"duplicate_id"`
	Strategy       string `json:"strategy"`
	Notes          string `json:"notes,omitempty"`
}

func (uc *MergeLeadsUseCase) Execute(ctx context.Context, input MergeLeadsInput) (*entity.Lead, error) {
	if input.PrimaryID == input.DuplicateID {
		return nil, NewInvalidOperationError("não é possível mesclar um lead com ele mesmo")
	}

	switch input.Strategy {
	case StrategyKeepOriginal, StrategyKeepRecent, StrategyKeepBestData:
	default:
		return nil, NewInvalidOperationError(fmt.Sprintf("estratégia de merge inválida: %q", input.Strategy))
	}

	primary, err := uc.Repo.FindByID(ctx, input.OrganizationID, input.PrimaryID)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		return nil, NewNotFoundError("lead", input.PrimaryID)
	}

	duplicate, err := uc.Repo.FindByID(ctx, input.OrganizationID, input.DuplicateID)
	if err != nil {
		return nil, err
	}
	if duplicate == nil {
		return nil, NewNotFoundError("lead", input.DuplicateID)
	}

	if primary.HasTag(entity.TagMergedDuplicate) || duplicate.HasTag(entity.TagMergedDuplicate) {
		return nil, NewInvalidOperationError("lead já foi aposentado por um merge anterior")
	}

	now := time.Now()

	// Snapshot dos dois lados antes de qualquer mutação (trilha de auditoria).
	audit := entity.MergeAudit{
		RetiredLeadID:     duplicate.ID,
		Strategy:          input.Strategy,
		PrimarySnapshot:   primary.Snapshot(),
		DuplicateSnapshot: duplicate.Snapshot(),
		Notes:             input.Notes,
		MergedAt:          now,
	}

	switch input.Strategy {
	case StrategyKeepRecent:
		applyKeepRecent(primary, duplicate)
	case StrategyKeepBestData:
		applyKeepBestData(primary, duplicate)
	}

	applySupplementaryMerge(primary, duplicate)

	primary.MergeHistory = append(primary.MergeHistory, audit)
	primary.Fingerprint = Fingerprint(primary.Email, primary.Phone, primary.Name)
	primary.UpdatedAt = now

	// Aposentadoria: o duplicado nunca é apagado, só marcado e apontado
	// para o sucessor. Requisito de recuperabilidade.
	duplicate.AddTag(entity.TagMergedDuplicate)
	duplicate.MergedTo = primary.ID
	duplicate.Notes = fmt.Sprintf("[MESCLADO EM %s] %s", primary.ID, duplicate.Notes)
	duplicate.UpdatedAt = now

	if err := uc.Repo.SaveMerge(ctx, primary, duplicate); err != nil {
		return nil, &TechnicalError{Code: "SAVE_MERGE", Message: fmt.Sprintf("erro ao persistir merge: %v", err)}
	}

	return primary, nil
}

// keep_recent: se o duplicado foi atualizado depois, os campos escalares
// dele vencem.
func applyKeepRecent(primary, duplicate *entity.Lead) {
	if !duplicate.UpdatedAt.After(primary.UpdatedAt) {
		return
	}

	primary.Name = duplicate.Name
	primary.Email = duplicate.Email
	primary.Phone = duplicate.Phone
	primary.Source = duplicate.Source
	primary.Stage = duplicate.Stage
	if duplicate.EstimatedValue != nil {
		v := *duplicate.EstimatedValue
		primary.EstimatedValue = &v
	}
	if duplicate.Score != nil {
		s := *duplicate.Score
		primary.Score = &s
		primary.ScoreFactors = copyFactors(duplicate.ScoreFactors)
	}
}

// keep_best_data: heurística de qualidade campo a campo. Empate fica com
// o primário.
func applyKeepBestData(primary, duplicate *entity.Lead) {
	// Email: primário vence se presente, exceto quando o dele é freemail e
	// o do duplicado é corporativo.
	if primary.Email == "" {
		primary.Email = duplicate.Email
	} else if duplicate.Email != "" {
		primaryConsumer := IsConsumerEmailDomain(EmailDomain(primary.Email))
		duplicateConsumer := IsConsumerEmailDomain(EmailDomain(duplicate.Email))
		if primaryConsumer && !duplicateConsumer {
			primary.Email = duplicate.Email
		}
	}

	// Telefone: vence o que tem mais dígitos depois da normalização.
	if len(NormalizePhone(duplicate.Phone)) > len(NormalizePhone(primary.Phone)) {
		primary.Phone = duplicate.Phone
	}

	// Valor estimado: vence o maior não nulo.
	if duplicate.EstimatedValue != nil {
		if primary.EstimatedValue == nil || *duplicate.EstimatedValue > *primary.EstimatedValue {
			v := *duplicate.EstimatedValue
			primary.EstimatedValue = &v
		}
	}

	// Score: vence o maior, levando junto o mapa de fatores.
	if duplicate.Score != nil {
		if primary.Score == nil || *duplicate.Score > *primary.Score {
			s := *duplicate.Score
			primary.Score = &s
			primary.ScoreFactors = copyFactors(duplicate.ScoreFactors)
		}
	}
}

// Merge suplementar, aplicado em toda estratégia: tags unidas, notas
// concatenadas, último contato mais recente vence.
func applySupplementaryMerge(primary, duplicate *entity.Lead) {
	for _, tag := range duplicate.Tags {
		primary.AddTag(tag)
	}

	if duplicate.Notes != "" {
		if primary.Notes != "" {
			primary.Notes = primary.Notes + "\n\n[MERGED NOTES]\n" + duplicate.Notes
		} else {
			primary.Notes = duplicate.Notes
		}
	}

	if duplicate.LastContactAt != nil {
		if primary.LastContactAt == nil || duplicate.LastContactAt.After(*primary.LastContactAt) {
			t := *duplicate.LastContactAt
			primary.LastContactAt = &t
			primary.LastContactChannel = duplicate.LastContactChannel
		}
	}
}

func copyFactors(factors map[string]int) map[string]int {
	if factors == nil {
		return nil
	}
	out := make(map[string]int, len(factors))
	for k, v := range factors {
		out[k] = v
	}
	return out
}
