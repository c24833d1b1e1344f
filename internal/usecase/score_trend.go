package usecase

import (
	"context"
	"time"
)

// Direções de tendência.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Variação absoluta acima da qual a tendência deixa de ser estável.
const trendTolerance = 2

const defaultTrendDaysBack = 30

type ScoreTrendUseCase struct {
	Repo    LeadRepositoryInterface
	History ScoreHistoryRepositoryInterface
}

func NewScoreTrendUseCase(repo LeadRepositoryInterface, history ScoreHistoryRepositoryInterface) *ScoreTrendUseCase {
	return &ScoreTrendUseCase{Repo: repo, History: history}
}

type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
}

type ScoreTrendOutput struct {
	LeadID    string       `json:"lead_id"`
	Direction string       `json:"direction"`
	Magnitude int          `json:"magnitude"`
	Series    []TrendPoint `json:"series"`
}

func (uc *ScoreTrendUseCase) Execute(ctx context.Context, organizationID, leadID string, daysBack int) (*ScoreTrendOutput, error) {
	lead, err := uc.Repo.FindByID(ctx, organizationID, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, NewNotFoundError("lead", leadID)
	}

	if daysBack <= 0 {
		daysBack = defaultTrendDaysBack
	}
	since := time.Now().AddDate(0, 0, -daysBack)

	entries, err := uc.History.FindByLeadSince(ctx, organizationID, leadID, since)
	if err != nil {
		return nil, err
	}

	// O repositório devolve do mais novo para o mais velho; a série sai
	// sempre em ordem cronológica.
	series := make([]TrendPoint, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		series = append(series, TrendPoint{
			Timestamp: entries[i].CreatedAt,
			Score:     entries[i].Score,
		})
	}

	output := &ScoreTrendOutput{
		LeadID:    leadID,
		Direction: TrendStable,
		Series:    series,
	}

	if len(series) < 2 {
		return output, nil
	}

	delta := series[len(series)-1].Score - series[0].Score
	output.Magnitude = delta
	switch {
	case delta > trendTolerance:
		output.Direction = TrendIncreasing
	case delta < -trendTolerance:
		output.Direction = TrendDecreasing
	}

	return output, nil
}
