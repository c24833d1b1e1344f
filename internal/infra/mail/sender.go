package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

var alertTemplate = template.Must(template.New("duplicate_alert").Parse(`
<h2>Possíveis leads duplicados na organização {{.OrganizationID}}</h2>
<p>A varredura encontrou os pares abaixo. Revise e mescle pelo painel.</p>
<table border="1" cellpadding="6">
  <tr><th>Lead A</th><th>Lead B</th><th>Similaridade</th><th>Ação sugerida</th></tr>
  {{range .Candidates}}
  <tr><td>{{.LeadA}}</td><td>{{.LeadB}}</td><td>{{.Similarity}}%</td><td>{{.Action}}</td></tr>
  {{end}}
</table>
`))

func (s *EmailSender) SendDuplicateAlert(to, organizationID string, candidates []*entity.DuplicateCandidate) error {
	data := DuplicateAlertData{OrganizationID: organizationID}
	for _, c := range candidates {
		data.Candidates = append(data.Candidates, CandidateRow{
			LeadA:      fmt.Sprintf("%s (%s)", c.LeadA.Name, c.LeadA.ID),
			LeadB:      fmt.Sprintf("%s (%s)", c.LeadB.Name, c.LeadB.ID),
			Similarity: c.Similarity,
			Action:     c.RecommendedAction,
		})
	}

	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@liguemedicina.com")
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("⚠️ %d possíveis duplicados encontrados", len(candidates)))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
