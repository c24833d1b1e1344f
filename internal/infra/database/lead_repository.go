package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, organization_id, name, email, phone, source, estimated_value,
	tags, notes, stage, score, score_factors, fingerprint,
	last_contact_at, last_contact_channel, merge_history, merged_to,
	created_at, updated_at
`

// FindByID retorna nil, nil quando o lead não existe na organização.
// Toda query filtra por organization_id: isolamento de tenant no SQL.
func (r *LeadRepository) FindByID(ctx context.Context, organizationID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE organization_id = $1 AND id = $2`

	row := r.DB.QueryRowContext(ctx, query, organizationID, id)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lead, err
}

func (r *LeadRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE organization_id = $1 ORDER BY created_at`

	rows, err := r.DB.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Save(ctx context.Context, lead *entity.Lead) error {
	return save(ctx, r.DB, lead)
}

// SaveScore grava lead e lançamento de histórico na mesma transação.
func (r *LeadRepository) SaveScore(ctx context.Context, lead *entity.Lead, entry *entity.ScoreHistoryEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := save(ctx, tx, lead); err != nil {
		return fmt.Errorf("erro ao salvar lead: %w", err)
	}
	if err := insertHistory(ctx, tx, entry); err != nil {
		return fmt.Errorf("erro ao salvar histórico: %w", err)
	}

	return tx.Commit()
}

// SaveMerge grava o primário e a aposentadoria do duplicado juntos.
// Ou os dois entram, ou nenhum.
func (r *LeadRepository) SaveMerge(ctx context.Context, primary, duplicate *entity.Lead) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := save(ctx, tx, primary); err != nil {
		return fmt.Errorf("erro ao salvar lead primário: %w", err)
	}
	if err := save(ctx, tx, duplicate); err != nil {
		return fmt.Errorf("erro ao aposentar duplicado: %w", err)
	}

	return tx.Commit()
}

// execer cobre *sql.DB e *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func save(ctx context.Context, db execer, lead *entity.Lead) error {
	factors, err := json.Marshal(lead.ScoreFactors)
	if err != nil {
		return err
	}
	history, err := json.Marshal(lead.MergeHistory)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads (
			id, organization_id, name, email, phone, source, estimated_value,
			tags, notes, stage, score, score_factors, fingerprint,
			last_contact_at, last_contact_channel, merge_history, merged_to,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			source = EXCLUDED.source,
			estimated_value = EXCLUDED.estimated_value,
			tags = EXCLUDED.tags,
			notes = EXCLUDED.notes,
			stage = EXCLUDED.stage,
			score = EXCLUDED.score,
			score_factors = EXCLUDED.score_factors,
			fingerprint = EXCLUDED.fingerprint,
			last_contact_at = EXCLUDED.last_contact_at,
			last_contact_channel = EXCLUDED.last_contact_channel,
			merge_history = EXCLUDED.merge_history,
			merged_to = EXCLUDED.merged_to,
			updated_at = EXCLUDED.updated_at
	`

	_, err = db.ExecContext(
		ctx,
		query,
		lead.ID,
		lead.OrganizationID,
		lead.Name,
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Source),
		lead.EstimatedValue,
		pq.Array(lead.Tags),
		nullString(lead.Notes),
		lead.Stage,
		lead.Score,
		factors,
		nullString(lead.Fingerprint),
		lead.LastContactAt,
		nullString(lead.LastContactChannel),
		history,
		nullString(lead.MergedTo),
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead               entity.Lead
		email              sql.NullString
		phone              sql.NullString
		source             sql.NullString
		value              sql.NullFloat64
		notes              sql.NullString
		score              sql.NullInt64
		factorsRaw         []byte
		fingerprint        sql.NullString
		lastContactAt      sql.NullTime
		lastContactChannel sql.NullString
		historyRaw         []byte
		mergedTo           sql.NullString
	)

	err := row.Scan(
		&lead.ID,
		&lead.OrganizationID,
		&lead.Name,
		&email,
		&phone,
		&source,
		&value,
		pq.Array(&lead.Tags),
		&notes,
		&lead.Stage,
		&score,
		&factorsRaw,
		&fingerprint,
		&lastContactAt,
		&lastContactChannel,
		&historyRaw,
		&mergedTo,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Email = email.String
	lead.Phone = phone.String
	lead.Source = source.String
	lead.Notes = notes.String
	lead.Fingerprint = fingerprint.String
	lead.LastContactChannel = lastContactChannel.String
	lead.MergedTo = mergedTo.String

	if value.Valid {
		v := value.Float64
		lead.EstimatedValue = &v
	}
	if score.Valid {
		s := int(score.Int64)
		lead.Score = &s
	}
	if lastContactAt.Valid {
		t := lastContactAt.Time
		lead.LastContactAt = &t
	}
	if len(factorsRaw) > 0 {
		if err := json.Unmarshal(factorsRaw, &lead.ScoreFactors); err != nil {
			return nil, err
		}
	}
	if len(historyRaw) > 0 {
		if err := json.Unmarshal(historyRaw, &lead.MergeHistory); err != nil {
			return nil, err
		}
	}

	return &lead, nil
}

func insertHistory(ctx context.Context, db execer, entry *entity.ScoreHistoryEntry) error {
	factors, err := json.Marshal(entry.Factors)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lead_score_history (
			id, lead_id, organization_id, score, previous_score, factors,
			reason, actor, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.LeadID,
		entry.OrganizationID,
		entry.Score,
		entry.PreviousScore,
		factors,
		entry.Reason,
		nullString(entry.Actor),
		entry.CreatedAt,
	)
	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
