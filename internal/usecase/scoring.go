package usecase

import (
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Fatores de score. Conjunto fechado: todo mapa score_factors usa
// exatamente estas chaves.
const (
	FactorEmailAuthority = "email_authority"
	FactorPhoneComplete  = "phone_complete"
	FactorValueTier      = "value_tier"
	FactorSourceQuality  = "source_quality"
	FactorCompanySize    = "company_size"
	FactorEngagement     = "engagement"
)

// Tetos por fator. Somam 90, então o cap de 100 é só uma garantia.
const (
	maxEmailAuthority = 10
	maxPhoneComplete  = 5
	maxValueTier      = 20
	maxSourceQuality  = 15
	maxCompanySize    = 25
	maxEngagement     = 15

	scoreCap = 100
)

// Domínios corporativos conhecidos. Lookup direto vale nota máxima.
var enterpriseEmailDomains = map[string]bool{
	"petrobras.com.br":     true,
	"vale.com":             true,
	"itau.com.br":          true,
	"bradesco.com.br":      true,
	"ambev.com.br":         true,
	"embraer.com.br":       true,
	"magazineluiza.com.br": true,
}

// Sufixos que indicam domínio institucional ou corporativo.
var (
	institutionalSuffixes = []string{".gov.br", ".edu.br", ".gov", ".edu", ".org.br"}
	corporateSuffixes     = []string{".com.br", ".net.br", ".ind.br", ".co", ".io"}
)

// Qualidade por canal de origem. Indicação vale mais, prospecção fria menos.
var sourceQualityTable = map[string]int{
	"referral":   15,
	"indicacao":  15,
	"website":    10,
	"site":       10,
	"organic":    10,
	"evento":     8,
	"social":     8,
	"ads":        6,
	"cold_call":  3,
	"cold_email": 3,
}

const unknownSourceQuality = 4

// Porte da empresa inferido pelas tags do lead.
var companySizeTiers = []struct {
	score    int
	keywords []string
}{
	{25, []string{"enterprise", "multinacional", "corporacao"}},
	{20, []string{"large", "grande_empresa", "grande"}},
	{15, []string{"medium", "media_empresa", "media"}},
	{8, []string{"small", "pequena_empresa", "pequena", "mei"}},
}

const neutralCompanySize = 10

// ComputeScore calcula o score do lead a partir dos seis fatores.
// Função pura: sem I/O, sem aleatoriedade, total para qualquer lead válido
// (campo opcional vazio degrada para o piso do fator, nunca dá erro).
func ComputeScore(lead *entity.Lead, now time.Time) (int, map[string]int) {
	factors := map[string]int{
		FactorEmailAuthority: scoreEmailAuthority(lead.Email),
		FactorPhoneComplete:  scorePhoneComplete(lead.Phone),
		FactorValueTier:      scoreValueTier(lead.EstimatedValue),
		FactorSourceQuality:  scoreSourceQuality(lead.Source),
		FactorCompanySize:    scoreCompanySize(lead.Tags),
		FactorEngagement:     scoreEngagement(lead.LastContactAt, now),
	}

	total := 0
	for _, v := range factors {
		total += v
	}
	if total > scoreCap {
		total = scoreCap
	}

	return total, factors
}

func scoreEmailAuthority(email string) int {
	domain := EmailDomain(email)
	if domain == "" {
		return 0
	}
	if enterpriseEmailDomains[domain] {
		return maxEmailAuthority
	}
	if IsConsumerEmailDomain(domain) {
		return 2
	}
	for _, suffix := range institutionalSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return 6
		}
	}
	for _, suffix := range corporateSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return 5
		}
	}
	// Domínio próprio desconhecido: melhor que freemail, pior que corporativo.
	return 4
}

func scorePhoneComplete(phone string) int {
	digits := NormalizePhone(phone)
	switch {
	case len(digits) >= 10:
		return maxPhoneComplete
	case len(digits) >= 8:
		return 3
	case len(digits) > 0:
		return 1
	default:
		return 0
	}
}

func scoreValueTier(value *float64) int {
	if value == nil || *value <= 0 {
		return 0
	}
	v := *value
	switch {
	case v >= 100_000:
		return maxValueTier
	case v >= 50_000:
		return 16
	case v >= 20_000:
		return 12
	case v >= 10_000:
		return 8
	case v >= 5_000:
		return 4
	default:
		return 2
	}
}

func scoreSourceQuality(source string) int {
	if strings.TrimSpace(source) == "" {
		return 0
	}
	if score, ok := sourceQualityTable[strings.ToLower(strings.TrimSpace(source))]; ok {
		return score
	}
	return unknownSourceQuality
}

func scoreCompanySize(tags []string) int {
	if len(tags) == 0 {
		return neutralCompanySize
	}
	for _, tier := range companySizeTiers {
		for _, tag := range tags {
			normalized := strings.ToLower(strings.TrimSpace(tag))
			for _, keyword := range tier.keywords {
				if normalized == keyword {
					return tier.score
				}
			}
		}
	}
	return neutralCompanySize
}

func scoreEngagement(lastContact *time.Time, now time.Time) int {
	if lastContact == nil {
		return 0
	}
	days := int(now.Sub(*lastContact).Hours() / 24)
	switch {
	case days <= 1:
		return maxEngagement
	case days <= 7:
		return 12
	case days <= 30:
		return 8
	case days <= 60:
		return 5
	case days <= 90:
		return 2
	default:
		return 0
	}
}
