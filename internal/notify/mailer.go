package notify

import (
	"fmt"
	"net/smtp"

	"voxpop/backend/internal/models"
)

// Mailer sends business notifications over SMTP.
type Mailer struct {
	host string
	port int
	from string
}

// NewMailer creates an SMTP mailer. No authentication is configured; the
// relay is expected to accept submissions from the service host.
func NewMailer(host string, port int, from string) *Mailer {
	return &Mailer{host: host, port: port, from: from}
}

func (m *Mailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return smtp.SendMail(addr, nil, m.from, []string{to}, []byte(msg))
}

// ThresholdReached emails the business that a petition against it has
// collected enough signatures, including the access token it needs to
// respond.
func (m *Mailer) ThresholdReached(business *models.Business, petition *models.Petition, signers int) error {
	subject := fmt.Sprintf("A petition targeting %s has reached %d signatures", business.Name, signers)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"The petition %q has been signed by %d users.\n\n"+
			"Problem: %s\nProposed solution: %s\n\n"+
			"Use your access token to issue a formal response: %s\n",
		business.Name, petition.Title, signers,
		petition.Problem, petition.Solution, business.Token)
	return m.send(business.Email, subject, body)
}

// BusinessRegistered emails the access token to a freshly registered
// business.
func (m *Mailer) BusinessRegistered(business *models.Business) error {
	subject := fmt.Sprintf("Welcome to VoxPop, %s", business.Name)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your business has been registered. Keep this access token safe;\n"+
			"it links your staff accounts and signs your responses: %s\n",
		business.Name, business.Token)
	return m.send(business.Email, subject, body)
}
