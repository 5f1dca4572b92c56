package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/verify-api/internal/config"
	"gopkg.in/gomail.v2"
)

// EmailDispatcher sends verification codes over SMTP. The message carries a
// plain-text body and an HTML alternative.
type EmailDispatcher struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
}

func NewEmailDispatcher(cfg *config.Config) *EmailDispatcher {
	return &EmailDispatcher{
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:       cfg.SMTPFrom,
		senderName: cfg.SMTPSenderName,
	}
}

func (d *EmailDispatcher) Send(_ context.Context, receiver, code string, ttl time.Duration) error {
	minutes := int(ttl.Minutes())

	m := gomail.NewMessage()
	m.SetAddressHeader("From", d.from, d.senderName)
	m.SetHeader("To", receiver)
	m.SetHeader("Subject", "Your verification code")
	m.SetBody("text/plain", emailTextBody(code, minutes))
	m.AddAlternative("text/html", emailHTMLBody(code, minutes))

	if err := d.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func emailTextBody(code string, minutes int) string {
	return fmt.Sprintf(
		"Your verification code is: %s\n\nThis code expires in %d minutes.\n\nIf you didn't request this code, please ignore this message.\n",
		code, minutes,
	)
}

func emailHTMLBody(code string, minutes int) string {
	return fmt.Sprintf(
		"<p>Your verification code is: <strong>%s</strong></p><p>This code expires in %d minutes.</p><p>If you didn't request this code, please ignore this message.</p>",
		code, minutes,
	)
}
