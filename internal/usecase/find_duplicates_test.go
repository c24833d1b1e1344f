package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func makeLead(id, name, email, phone string) *entity.Lead {
	return &entity.Lead{
		ID:             id,
		OrganizationID: "org-1",
		Name:           name,
		Email:          email,
		Phone:          phone,
		Stage:          entity.StageLead,
		Tags:           []string{},
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

func TestCompareLeadsExactEmailShortCircuits(t *testing.T) {
	a := makeLead("a", "Ana Souza", "x@x.com", "11999998888")
	b := makeLead("b", "Outro Nome Completamente Diferente", "X@x.com ", "21888887777")

	c := CompareLeads(a, b)

	assert.NotNil(t, c)
	assert.Equal(t, 100, c.Similarity)
	assert.Equal(t, []string{entity.FactorEmailExactMatch}, c.MatchingFactors)
	assert.Equal(t, entity.ConfidenceVeryHigh, c.Confidence)
	assert.Equal(t, entity.ActionAutoMerge, c.RecommendedAction)
}

func TestCompareLeadsIsSymmetric(t *testing.T) {
	a := makeLead("a", "Comercial Andrade", "contato@andrade.com.br", "11999998888")
	b := makeLead("b", "Comercial Andrada", "vendas@andrade.com.br", "11999998888")

	ab := CompareLeads(a, b)
	ba := CompareLeads(b, a)

	assert.NotNil(t, ab)
	assert.NotNil(t, ba)
	assert.Equal(t, ab.Similarity, ba.Similarity)
	assert.ElementsMatch(t, ab.MatchingFactors, ba.MatchingFactors)
}

func TestCompareLeadsPunctuationOnlySourceStaysSymmetric(t *testing.T) {
	// Origem que normaliza para vazio ("!!!") não pode casar com origem
	// ausente. Sem esse cuidado o bônus de mesma origem só entrava num
	// dos sentidos da comparação.
	a := makeLead("a", "Transportes Rocha", "rocha@transportesrocha.com.br", "11999998888")
	b := makeLead("b", "Transportes Rocha", "financeiro@transportesrocha.com.br", "11999998888")
	a.Source = "!!!"
	b.Source = ""

	ab := CompareLeads(a, b)
	ba := CompareLeads(b, a)

	assert.NotNil(t, ab)
	assert.NotNil(t, ba)
	assert.Equal(t, ab.Similarity, ba.Similarity)
	assert.NotContains(t, ab.MatchingFactors, entity.FactorSameSource)
	assert.NotContains(t, ba.MatchingFactors, entity.FactorSameSource)
}

func TestCompareLeadsBelowThresholdReturnsNil(t *testing.T) {
	a := makeLead("a", "Padaria do Zé", "ze@padaria.com.br", "11911112222")
	b := makeLead("b", "Oficina Mecânica Silva", "silva@oficina.com.br", "21933334444")

	assert.Nil(t, CompareLeads(a, b))
}

func TestCompareLeadsAccumulatesSignals(t *testing.T) {
	a := makeLead("a", "Transportes Rocha Ltda", "rocha@transportesrocha.com.br", "11999998888")
	b := makeLead("b", "Transportes Rocha", "financeiro@transportesrocha.com.br", "55 11 99999-8888")
	a.Source = "referral"
	b.Source = "referral"

	c := CompareLeads(a, b)

	assert.NotNil(t, c)
	// Telefone igual (+40), nome parecido, mesmo domínio (+15), mesma origem (+5).
	assert.Contains(t, c.MatchingFactors, entity.FactorPhoneExactMatch)
	assert.Contains(t, c.MatchingFactors, entity.FactorNameSimilarity)
	assert.Contains(t, c.MatchingFactors, entity.FactorSameEmailDomain)
	assert.Contains(t, c.MatchingFactors, entity.FactorSameSource)
	assert.Equal(t, 75, c.Similarity)
	assert.Equal(t, entity.ConfidenceMedium, c.Confidence)
}

func TestFindDuplicatesReturnsSinglePairForIdenticalEmail(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewFindDuplicatesUseCase(repo, nil)

	leads := []*entity.Lead{
		makeLead("a", "Ana", "x@x.com", "11999998888"),
		makeLead("b", "Bia", "x@x.com", "21888887777"),
	}
	repo.On("FindByOrganization", mock.Anything, "org-1").Return(leads, nil)

	candidates, err := uc.Execute(context.Background(), FindDuplicatesInput{OrganizationID: "org-1"})

	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, 100, candidates[0].Similarity)
	assert.Equal(t, entity.ActionAutoMerge, candidates[0].RecommendedAction)
}

func TestFindDuplicatesSortsAndTruncates(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewFindDuplicatesUseCase(repo, nil)

	leads := []*entity.Lead{
		makeLead("a", "Ana", "x@x.com", "11999998888"),
		makeLead("b", "Bia", "x@x.com", "21888887777"),
		makeLead("c", "Transportes Rocha Ltda", "a@rocha.com.br", "31777776666"),
		makeLead("d", "Transportes Rocha", "b@rocha.com.br", "31777776666"),
	}
	repo.On("FindByOrganization", mock.Anything, "org-1").Return(leads, nil)

	candidates, err := uc.Execute(context.Background(), FindDuplicatesInput{OrganizationID: "org-1", Limit: 1})

	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, 100, candidates[0].Similarity)
}

func TestFindDuplicatesSkipsRetiredLeads(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewFindDuplicatesUseCase(repo, nil)

	retired := makeLead("b", "Bia", "x@x.com", "21888887777")
	retired.AddTag(entity.TagMergedDuplicate)

	leads := []*entity.Lead{
		makeLead("a", "Ana", "x@x.com", "11999998888"),
		retired,
	}
	repo.On("FindByOrganization", mock.Anything, "org-1").Return(leads, nil)

	candidates, err := uc.Execute(context.Background(), FindDuplicatesInput{OrganizationID: "org-1"})

	assert.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFindDuplicatesTargetNotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewFindDuplicatesUseCase(repo, nil)

	repo.On("FindByOrganization", mock.Anything, "org-1").Return([]*entity.Lead{}, nil)

	_, err := uc.Execute(context.Background(), FindDuplicatesInput{OrganizationID: "org-1", TargetLeadID: "nao-existe"})

	assert.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestFindDuplicatesRetiredTargetIsInvalidOperation(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewFindDuplicatesUseCase(repo, nil)

	retired := makeLead("b", "Bia", "x@x.com", "21888887777")
	retired.AddTag(entity.TagMergedDuplicate)

	leads := []*entity.Lead{
		makeLead("a", "Ana", "x@x.com", "11999998888"),
		retired,
	}
	repo.On("FindByOrganization", mock.Anything, "org-1").Return(leads, nil)

	// O lead existe, só está aposentado: erro diferente de não encontrado.
	_, err := uc.Execute(context.Background(), FindDuplicatesInput{OrganizationID: "org-1", TargetLeadID: "b"})

	assert.Error(t, err)
	assert.True(t, IsInvalidOperation(err))
}

func TestFindDuplicatesNotifiesOnStrongCandidates(t *testing.T) {
	repo := new(MockLeadRepository)
	mailer := new(MockEmailService)
	uc := NewFindDuplicatesUseCase(repo, mailer)

	leads := []*entity.Lead{
		makeLead("a", "Ana", "x@x.com", "11999998888"),
		makeLead("b", "Bia", "x@x.com", "21888887777"),
	}
	repo.On("FindByOrganization", mock.Anything, "org-1").Return(leads, nil)
	mailer.On("SendDuplicateAlert", "ops@liguemedicina.com", "org-1", mock.Anything).Return(nil)

	_, err := uc.Execute(context.Background(), FindDuplicatesInput{
		OrganizationID: "org-1",
		NotifyEmail:    "ops@liguemedicina.com",
	})

	assert.NoError(t, err)
	mailer.AssertCalled(t, "SendDuplicateAlert", "ops@liguemedicina.com", "org-1", mock.Anything)
}
