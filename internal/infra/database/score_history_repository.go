package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Ledger append-only. Não existe UPDATE nem DELETE aqui de propósito:
// retenção, se um dia houver, é um job externo.
type ScoreHistoryRepository struct {
	DB *sql.DB
}

func NewScoreHistoryRepository(db *sql.DB) *ScoreHistoryRepository {
	return &ScoreHistoryRepository{DB: db}
}

func (r *ScoreHistoryRepository) Append(ctx context.Context, entry *entity.ScoreHistoryEntry) error {
	return insertHistory(ctx, r.DB, entry)
}

// FindByLeadSince devolve do mais novo para o mais velho.
func (r *ScoreHistoryRepository) FindByLeadSince(ctx context.Context, organizationID, leadID string, since time.Time) ([]*entity.ScoreHistoryEntry, error) {
	query := `
		SELECT id, lead_id, organization_id, score, previous_score, factors,
		       reason, actor, created_at
		FROM lead_score_history
		WHERE organization_id = $1 AND lead_id = $2 AND created_at >= $3
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, organizationID, leadID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*entity.ScoreHistoryEntry
	for rows.Next() {
		var (
			entry      entity.ScoreHistoryEntry
			previous   sql.NullInt64
			factorsRaw []byte
			actor      sql.NullString
		)

		err := rows.Scan(
			&entry.ID,
			&entry.LeadID,
			&entry.OrganizationID,
			&entry.Score,
			&previous,
			&factorsRaw,
			&entry.Reason,
			&actor,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if previous.Valid {
			p := int(previous.Int64)
			entry.PreviousScore = &p
		}
		entry.Actor = actor.String
		if len(factorsRaw) > 0 {
			if err := json.Unmarshal(factorsRaw, &entry.Factors); err != nil {
				return nil, err
			}
		}

		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
