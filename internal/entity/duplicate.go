package entity

// Níveis de confiança de um par de duplicados.
const (
	ConfidenceVeryHigh = "very_high"
	ConfidenceHigh     = "high"
	ConfidenceMedium   = "medium"
	ConfidenceLow      = "low"
)

// Ações recomendadas para o operador.
const (
	ActionAutoMerge        = "auto_merge"
	ActionMergeRecommended = "merge_recommended"
	ActionReviewRequired   = "review_required"
	ActionMonitor          = "monitor"
)

// Fatores que contribuem para a similaridade.
const (
	FactorEmailExactMatch = "email_exact_match"
	FactorPhoneExactMatch = "phone_exact_match"
	FactorNameSimilarity  = "name_similarity"
	FactorSameEmailDomain = "same_email_domain"
	FactorSimilarValue    = "similar_value"
	FactorSharedTags      = "shared_tags"
	FactorSameSource      = "same_source"
)

// DuplicateCandidate é efêmero: recalculado a cada varredura, nunca persistido.
type DuplicateCandidate struct {
	LeadA             *Lead    `json:"lead_a"`
	LeadB             *Lead    `json:"lead_b"`
	Similarity        int      `json:"similarity"`
	MatchingFactors   []string `json:"matching_factors"`
	Confidence        string   `json:"confidence"`
	RecommendedAction string   `json:"recommended_action"`
}
