package export

import (
	"bytes"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/noah-isme/backend-quote/internal/common"
)

// SMTPSender delivers messages through a plain-auth SMTP relay.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
}

// Send implements common.EmailSender.
func (s *SMTPSender) Send(msg common.Email) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	if msg.BCC != "" {
		if err := m.Bcc(msg.BCC); err != nil {
			return fmt.Errorf("bcc address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	for _, a := range msg.Attachments {
		m.AttachReader(a.Filename, bytes.NewReader(a.Content),
			mail.WithFileContentType(mail.ContentType(a.ContentType)))
	}

	client, err := mail.NewClient(s.Host,
		mail.WithPort(s.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.User),
		mail.WithPassword(s.Pass),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
