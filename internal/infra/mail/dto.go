package mail

type DuplicateAlertData struct {
	OrganizationID string
	Candidates     []CandidateRow
}

type CandidateRow struct {
	LeadA      string
	LeadB      string
	Similarity int
	Action     string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}
