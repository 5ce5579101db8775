package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPSink emails booking events to a fixed recipient list.
type SMTPSink struct {
	addr string // host:port
	auth smtp.Auth
	from string
	to   []string
}

// NewSMTPSink creates an email sink. auth may be nil for open relays.
func NewSMTPSink(host string, port int, username, password, from string, to []string) *SMTPSink {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSink{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
		to:   to,
	}
}

// Name implements Sink.
func (s *SMTPSink) Name() string { return "smtp" }

// Send implements Sink.
func (s *SMTPSink) Send(_ context.Context, e Event) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.from, strings.Join(s.to, ", "), Subject(e), Body(e))
	return smtp.SendMail(s.addr, s.auth, s.from, s.to, []byte(msg))
}
