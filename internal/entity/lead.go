package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

// Estágios do funil. A ordem importa (lead é o início, fechado é o fim).
const (
	StageLead       = "lead"
	StageContato    = "contato"
	StageProposta   = "proposta"
	StageNegociacao = "negociacao"
	StageFechado    = "fechado"
)

// Tag aplicada ao lead perdedor de um merge. O registro nunca é apagado.
const TagMergedDuplicate = "MERGED_DUPLICATE"

// Entidade: Lead
type Lead struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organization_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Source         string   `json:"source,omitempty"`
	EstimatedValue *float64 `json:"estimated_value,omitempty"`
	Tags           []string `json:"tags"`
	Notes          string   `json:"notes,omitempty"`
	Stage          string   `json:"stage"`

	// Score calculado. Nil até a primeira pontuação.
	Score        *int           `json:"score,omitempty"`
	ScoreFactors map[string]int `json:"score_factors,omitempty"`

	// Fingerprint derivado de email/telefone/nome normalizados.
	// Recalculado sob demanda, nunca fonte de verdade.
	Fingerprint string `json:"fingerprint,omitempty"`

	LastContactAt      *time.Time `json:"last_contact_at,omitempty"`
	LastContactChannel string     `json:"last_contact_channel,omitempty"`

	MergeHistory []MergeAudit `json:"merge_history,omitempty"`
	MergedTo     string       `json:"merged_to,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MergeAudit fica embutido no lead sobrevivente (trilha de auditoria).
type MergeAudit struct {
	RetiredLeadID     string       `json:"retired_lead_id"`
	Strategy          string       `json:"strategy"`
	PrimarySnapshot   LeadSnapshot `json:"primary_snapshot"`
	DuplicateSnapshot LeadSnapshot `json:"duplicate_snapshot"`
	Notes             string       `json:"notes,omitempty"`
	MergedAt          time.Time    `json:"merged_at"`
}

// LeadSnapshot congela os campos de um lead antes do merge.
type LeadSnapshot struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Source         string     `json:"source,omitempty"`
	EstimatedValue *float64   `json:"estimated_value,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Stage          string     `json:"stage"`
	Score          *int       `json:"score,omitempty"`
	LastContactAt  *time.Time `json:"last_contact_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Factory
func NewLead(organizationID, name, email, phone, source string) (*Lead, error) {
	lead := &Lead{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           name,
		Email:          email,
		Phone:          phone,
		Source:         source,
		Tags:           []string{},
		Stage:          StageLead,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.OrganizationID == "" {
		return errors.New("organization_id is required")
	}
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.EstimatedValue != nil && *l.EstimatedValue < 0 {
		return errors.New("estimated_value must not be negative")
	}
	switch l.Stage {
	case StageLead, StageContato, StageProposta, StageNegociacao, StageFechado:
	default:
		return errors.New("stage is invalid")
	}
	return nil
}

func (l *Lead) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag mantém o conjunto único.
func (l *Lead) AddTag(tag string) {
	if tag == "" || l.HasTag(tag) {
		return
	}
	l.Tags = append(l.Tags, tag)
}

// Snapshot copia os campos do lead para a trilha de auditoria.
// Não carrega o MergeHistory para a cópia não crescer recursivamente.
func (l *Lead) Snapshot() LeadSnapshot {
	snap := LeadSnapshot{
		ID:            l.ID,
		Name:          l.Name,
		Email:         l.Email,
		Phone:         l.Phone,
		Source:        l.Source,
		Notes:         l.Notes,
		Stage:         l.Stage,
		LastContactAt: l.LastContactAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.EstimatedValue != nil {
		v := *l.EstimatedValue
		snap.EstimatedValue = &v
	}
	if l.Score != nil {
		s := *l.Score
		snap.Score = &s
	}
	if len(l.Tags) > 0 {
		snap.Tags = append([]string{}, l.Tags...)
	}
	return snap
}
