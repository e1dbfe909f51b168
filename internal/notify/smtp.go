package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers lead notifications over a direct SMTP connection.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

var leadEmailTemplate = template.Must(template.New("lead").Parse(`<html><body>
<h2>New lead from WhatsApp</h2>
<p><strong>User:</strong> {{.UserID}}</p>
<p><strong>Intent:</strong> {{.Intent}}</p>
<p><strong>Message:</strong> {{.QueryText}}</p>
{{if .AssignedAgent}}<p><strong>Assigned to:</strong> {{.AssignedAgent}}</p>{{end}}
<p>Lead ID: {{.LeadID}}</p>
</body></html>`))

type leadEmailData struct {
	LeadID        string
	UserID        string
	Intent        string
	QueryText     string
	AssignedAgent string
}

// SendLeadNotification emails a summary of a newly captured lead.
func (s *SMTPSender) SendLeadNotification(ctx context.Context, toEmail, leadID, userID, intent, queryText, assignedAgent string) error {
	var body bytes.Buffer
	if err := leadEmailTemplate.Execute(&body, leadEmailData{
		LeadID:        leadID,
		UserID:        userID,
		Intent:        intent,
		QueryText:     queryText,
		AssignedAgent: assignedAgent,
	}); err != nil {
		return fmt.Errorf("lead email render: %w", err)
	}

	subject := fmt.Sprintf("New WhatsApp lead (%s)", intent)
	return s.send(ctx, toEmail, subject, body.String())
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
