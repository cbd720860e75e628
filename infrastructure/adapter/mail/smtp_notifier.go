package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPNotifier sends the confirmation e-mail directly instead of publishing
// it to the mailer service. Used when the deployment has no broker-backed
// mailer.
type SMTPNotifier struct {
	dialer         *gomail.Dialer
	from           string
	confirmBaseURL string
}

func NewSMTPNotifier(host string, port int, username, password, from, confirmBaseURL string) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:         gomail.NewDialer(host, port, username, password),
		from:           from,
		confirmBaseURL: confirmBaseURL,
	}
}

func (n *SMTPNotifier) NotifyConfirmation(_ context.Context, subjectID, email, username string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Confirm your registration")

	body := fmt.Sprintf(`
		<h3>Hello %s,</h3>
		<p>Thanks for signing up. Confirm your account by following the link below:</p>
		<p><a href="%s/%s">Confirm registration</a></p>
		<p>The link expires soon; unconfirmed accounts are removed automatically.</p>
	`, username, n.confirmBaseURL, subjectID)

	m.SetBody("text/html", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}
