package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// Colaborador de armazenamento. Toda query é delimitada pela organização:
// o motor confia que o repositório nunca cruza tenants.
type LeadRepositoryInterface interface {
	FindByID(ctx context.Context, organizationID, id string) (*entity.Lead, error)
	FindByOrganization(ctx context.Context, organizationID string) ([]*entity.Lead, error)
	Save(ctx context.Context, lead *entity.Lead) error

	// SaveScore grava o lead e o lançamento do histórico na mesma transação.
	SaveScore(ctx context.Context, lead *entity.Lead, entry *entity.ScoreHistoryEntry) error

	// SaveMerge grava o primário atualizado e a aposentadoria do duplicado
	// na mesma transação. Ou os dois entram, ou nenhum.
	SaveMerge(ctx context.Context, primary, duplicate *entity.Lead) error
}

// Ledger de scores. Append-only: não existe update nem delete.
type ScoreHistoryRepositoryInterface interface {
	Append(ctx context.Context, entry *entity.ScoreHistoryEntry) error
	FindByLeadSince(ctx context.Context, organizationID, leadID string, since time.Time) ([]*entity.ScoreHistoryEntry, error)
}

type QueueProducerInterface interface {
	PublishLeadUpdated(ctx context.Context, payload queue.LeadUpdatedPayload) error
}

// EmailService avisa o operador quando a varredura encontra pares fortes.
type EmailService interface {
	SendDuplicateAlert(to, organizationID string, candidates []*entity.DuplicateCandidate) error
}
