package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	nonDigitRegex   = regexp.MustCompile(`\D`)
	punctuationOnly = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// Domínios de email gratuitos (pessoa física). Usados tanto pelo scoring
// quanto pelo keep_best_data.
var consumerEmailDomains = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"yahoo.com.br":   true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"live.com":       true,
	"bol.com.br":     true,
	"uol.com.br":     true,
	"terra.com.br":   true,
	"icloud.com":     true,
	"protonmail.com": true,
}

// NormalizePhone remove tudo que não é dígito e mantém os últimos 11
// (DDD + celular no Brasil). Números menores ficam como estão.
func NormalizePhone(phone string) string {
	digits := nonDigitRegex.ReplaceAllString(phone, "")
	if len(digits) > 11 {
		digits = digits[len(digits)-11:]
	}
	return digits
}

// NormalizeName: minúsculas, sem acentos, sem pontuação, espaços colapsados.
// Precisa ser idêntica em todo lugar que compara nomes.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if mapped, ok := accentMap[r]; ok {
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
	}
	result := punctuationOnly.ReplaceAllString(b.String(), " ")
	result = multiSpaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

var accentMap = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n',
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailDomain retorna a parte depois do @, normalizada. Vazio se inválido.
func EmailDomain(email string) string {
	email = NormalizeEmail(email)
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}

func IsConsumerEmailDomain(domain string) bool {
	return consumerEmailDomains[strings.ToLower(domain)]
}

// NameSimilarity devolve a similaridade entre dois nomes normalizados,
// de 0 a 100, baseada em distância de edição.
func NameSimilarity(a, b string) int {
	na := NormalizeName(a)
	nb := NormalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	distance := levenshteinDistance([]rune(na), []rune(nb))
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}

	return (longest - distance) * 100 / longest
}

// Implementação clássica com duas linhas da matriz.
func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			curr[j] = best
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// Fingerprint deriva um hash estável de email/telefone/nome normalizados.
// Serve de pré-filtro barato de duplicidade, não de prova.
func Fingerprint(email, phone, name string) string {
	base := NormalizeEmail(email) + "|" + NormalizePhone(phone) + "|" + NormalizeName(name)
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:8])
}
