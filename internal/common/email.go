package common

// Attachment is a generated document attached to an outgoing message as an
// opaque byte buffer.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	Send(msg Email) error
}

// Email represents a single outgoing message.
type Email struct {
	From        string
	To          string
	BCC         string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// InMemoryEmail provides a test-friendly email sender that records messages.
type InMemoryEmail struct {
	Outbox []Email
	Err    error
}

// Send records the email in memory.
func (m *InMemoryEmail) Send(msg Email) error {
	if m == nil {
		return nil
	}
	if m.Err != nil {
		return m.Err
	}
	m.Outbox = append(m.Outbox, msg)
	return nil
}

// NopEmailSender implements EmailSender without performing any action.
type NopEmailSender struct{}

// Send implements EmailSender.
func (NopEmailSender) Send(Email) error { return nil }
