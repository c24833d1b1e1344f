package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type CaptureLeadUseCase struct {
	Repo  LeadRepositoryInterface
	Queue QueueProducerInterface
}

func NewCaptureLeadUseCase(repo LeadRepositoryInterface, producer QueueProducerInterface) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{Repo: repo, Queue: producer}
}

type CaptureLeadInput struct {
	OrganizationID string   `json:"organization_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Source         string   `json:"source,omitempty"`
	EstimatedValue *float64 `json:"estimated_value,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// Execute cria o lead e publica o evento que dispara a pontuação
// assíncrona. O lead nasce sem score; o worker preenche.
func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*entity.Lead, error) {
	if errs := ValidateCaptureLeadInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: "VALIDATION", Message: errs[0].Error()}
	}

	lead, err := entity.NewLead(input.OrganizationID, input.Name, input.Email, input.Phone, input.Source)
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION", Message: err.Error()}
	}

	lead.EstimatedValue = input.EstimatedValue
	lead.Notes = input.Notes
	for _, tag := range input.Tags {
		lead.AddTag(tag)
	}
	lead.Fingerprint = Fingerprint(lead.Email, lead.Phone, lead.Name)

	if err := uc.Repo.Save(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "SAVE_LEAD", Message: err.Error()}
	}

	// Publicação é melhor esforço: o lead já está salvo; se a fila falhar,
	// o próximo rescore em lote cobre.
	payload := queue.LeadUpdatedPayload{
		OrganizationID: lead.OrganizationID,
		LeadID:         lead.ID,
		Reason:         "lead_created",
	}
	if err := uc.Queue.PublishLeadUpdated(ctx, payload); err != nil {
		log.Printf("⚠️ Falha ao publicar evento de lead: %v", err)
	}

	return lead, nil
}
