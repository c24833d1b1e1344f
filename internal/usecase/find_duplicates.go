package usecase

import (
	"context"
	"log"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Similaridade mínima para um par virar candidato.
const duplicateThreshold = 70

const defaultCandidateLimit = 10

type FindDuplicatesUseCase struct {
	Repo         LeadRepositoryInterface
	EmailService EmailService
}

func NewFindDuplicatesUseCase(repo LeadRepositoryInterface, emailService EmailService) *FindDuplicatesUseCase {
	return &FindDuplicatesUseCase{Repo: repo, EmailService: emailService}
}

type FindDuplicatesInput struct {
	OrganizationID string `json:"organization_id"`
	TargetLeadID   string `json:"target_lead_id,omitempty"`
	Limit          int    `json:"limit,omitempty"`

	// Se preenchido, dispara alerta por email quando a varredura encontra
	// pares com ação auto_merge ou merge_recommended.
	NotifyEmail string `json:"notify_email,omitempty"`
}

func (uc *FindDuplicatesUseCase) Execute(ctx context.Context, input FindDuplicatesInput) ([]*entity.DuplicateCandidate, error) {
	leads, err := uc.Repo.FindByOrganization(ctx, input.OrganizationID)
	if err != nil {
		return nil, err
	}

	// Leads já aposentados por merge não entram na comparação.
	active := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		if !l.HasTag(entity.TagMergedDuplicate) {
			active = append(active, l)
		}
	}

	var pairs [][2]*entity.Lead
	if input.TargetLeadID != "" {
		// O alvo é procurado entre todos os leads: alvo aposentado existe,
		// só não pode ancorar uma varredura.
		var target *entity.Lead
		for _, l := range leads {
			if l.ID == input.TargetLeadID {
				target = l
				break
			}
		}
		if target == nil {
			return nil, NewNotFoundError("lead", input.TargetLeadID)
		}
		if target.HasTag(entity.TagMergedDuplicate) {
			return nil, NewInvalidOperationError("lead já foi aposentado por um merge anterior")
		}
		for _, l := range active {
			if l.ID != target.ID {
				pairs = append(pairs, [2]*entity.Lead{target, l})
			}
		}
	} else {
		// Varredura completa: O(n²), aceitável porque organizações são
		// pequenas na prática. Blocking por telefone/email normalizado fica
		// para quando alguma org passar de alguns milhares de leads.
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				pairs = append(pairs, [2]*entity.Lead{active[i], active[j]})
			}
		}
	}

	candidates := comparePairs(pairs)

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	limit := input.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	uc.notify(input, candidates)

	return candidates, nil
}

// comparePairs distribui as comparações por um pool de workers. A fase
// paralela não toca estado compartilhado; o resultado é juntado no final.
func comparePairs(pairs [][2]*entity.Lead) []*entity.DuplicateCandidate {
	if len(pairs) == 0 {
		return []*entity.DuplicateCandidate{}
	}

	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	jobs := make(chan [2]*entity.Lead)
	results := make(chan *entity.DuplicateCandidate, len(pairs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range jobs {
				if c := CompareLeads(pair[0], pair[1]); c != nil {
					results <- c
				}
			}
		}()
	}

	for _, pair := range pairs {
		jobs <- pair
	}
	close(jobs)
	wg.Wait()
	close(results)

	candidates := make([]*entity.DuplicateCandidate, 0, len(pairs))
	for c := range results {
		candidates = append(candidates, c)
	}
	return candidates
}

// CompareLeads calcula a similaridade de um par. Retorna nil abaixo do
// threshold. Simétrica: CompareLeads(a,b) e CompareLeads(b,a) dão o mesmo
// score.
func CompareLeads(a, b *entity.Lead) *entity.DuplicateCandidate {
	similarity := 0
	var factors []string

	// Email idêntico é duplicata definitiva: curto-circuito.
	emailA := NormalizeEmail(a.Email)
	emailB := NormalizeEmail(b.Email)
	if emailA != "" && emailA == emailB {
		return buildCandidate(a, b, 100, []string{entity.FactorEmailExactMatch})
	}

	phoneA := NormalizePhone(a.Phone)
	phoneB := NormalizePhone(b.Phone)
	if len(phoneA) >= 8 && phoneA == phoneB {
		similarity += 40
		factors = append(factors, entity.FactorPhoneExactMatch)
	}

	nameRatio := NameSimilarity(a.Name, b.Name)
	switch {
	case nameRatio >= 90:
		similarity += 35
		factors = append(factors, entity.FactorNameSimilarity)
	case nameRatio >= 80:
		similarity += 25
		factors = append(factors, entity.FactorNameSimilarity)
	case nameRatio >= 70:
		similarity += 15
		factors = append(factors, entity.FactorNameSimilarity)
	}

	domainA := EmailDomain(a.Email)
	domainB := EmailDomain(b.Email)
	if domainA != "" && domainA == domainB {
		similarity += 15
		factors = append(factors, entity.FactorSameEmailDomain)
	}

	if a.EstimatedValue != nil && b.EstimatedValue != nil && *a.EstimatedValue > 0 && *b.EstimatedValue > 0 {
		bigger := math.Max(*a.EstimatedValue, *b.EstimatedValue)
		diff := math.Abs(*a.EstimatedValue-*b.EstimatedValue) / bigger
		if diff <= 0.10 {
			similarity += 10
			factors = append(factors, entity.FactorSimilarValue)
		} else if diff <= 0.30 {
			similarity += 5
			factors = append(factors, entity.FactorSimilarValue)
		}
	}

	if shared := sharedTagBonus(a.Tags, b.Tags); shared > 0 {
		similarity += shared
		factors = append(factors, entity.FactorSharedTags)
	}

	// Compara as origens já normalizadas: origem que vira vazia (só
	// pontuação) conta como ausente dos dois lados.
	if sourceA := NormalizeName(a.Source); sourceA != "" && sourceA == NormalizeName(b.Source) {
		similarity += 5
		factors = append(factors, entity.FactorSameSource)
	}

	if similarity > 100 {
		similarity = 100
	}
	if similarity < duplicateThreshold {
		return nil
	}

	return buildCandidate(a, b, similarity, factors)
}

// +3 por tag compartilhada, teto de +10.
func sharedTagBonus(tagsA, tagsB []string) int {
	set := make(map[string]bool, len(tagsA))
	for _, t := range tagsA {
		set[NormalizeName(t)] = true
	}

	bonus := 0
	for _, t := range tagsB {
		if set[NormalizeName(t)] {
			bonus += 3
			if bonus >= 10 {
				return 10
			}
		}
	}
	return bonus
}

func buildCandidate(a, b *entity.Lead, similarity int, factors []string) *entity.DuplicateCandidate {
	confidence := entity.ConfidenceLow
	switch {
	case similarity >= 95:
		confidence = entity.ConfidenceVeryHigh
	case similarity >= 85:
		confidence = entity.ConfidenceHigh
	case similarity >= 75:
		confidence = entity.ConfidenceMedium
	}

	action := entity.ActionMonitor
	switch {
	case containsFactor(factors, entity.FactorEmailExactMatch):
		action = entity.ActionAutoMerge
	case similarity >= 90:
		action = entity.ActionMergeRecommended
	case similarity >= 80:
		action = entity.ActionReviewRequired
	}

	return &entity.DuplicateCandidate{
		LeadA:             a,
		LeadB:             b,
		Similarity:        similarity,
		MatchingFactors:   factors,
		Confidence:        confidence,
		RecommendedAction: action,
	}
}

func containsFactor(factors []string, factor string) bool {
	for _, f := range factors {
		if f == factor {
			return true
		}
	}
	return false
}

// Alerta por email é melhor esforço: falha loga, não derruba a varredura.
func (uc *FindDuplicatesUseCase) notify(input FindDuplicatesInput, candidates []*entity.DuplicateCandidate) {
	if uc.EmailService == nil || input.NotifyEmail == "" {
		return
	}

	var strong []*entity.DuplicateCandidate
	for _, c := range candidates {
		if c.RecommendedAction == entity.ActionAutoMerge || c.RecommendedAction == entity.ActionMergeRecommended {
			strong = append(strong, c)
		}
	}
	if len(strong) == 0 {
		return
	}

	if err := uc.EmailService.SendDuplicateAlert(input.NotifyEmail, input.OrganizationID, strong); err != nil {
		log.Printf("⚠️ Falha ao enviar alerta de duplicados: %v", err)
	}
}
