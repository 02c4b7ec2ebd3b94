package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPSender transmits messages over SMTP. The MIME envelope is built
// with go-message so the text and HTML variants travel as a single
// multipart/alternative body.
type SMTPSender struct {
	addr     string
	username string
	password string
	logger   *slog.Logger
}

// NewSMTPSender creates an SMTPSender for the given server address
// (host:port). Username and password may be empty for unauthenticated
// relays.
func NewSMTPSender(addr, username, password string, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		addr:     addr,
		username: username,
		password: password,
		logger:   logger.With("component", "smtp_sender"),
	}
}

// Ensure SMTPSender implements Sender
var _ Sender = (*SMTPSender)(nil)

// Send builds the MIME message and submits it in one blocking SMTP
// transaction. No retries are performed. The context is checked before
// the transaction starts; once underway the SMTP exchange itself cannot
// be cancelled.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := msg.Validate(); err != nil {
		return err
	}

	raw, err := buildMIME(msg)
	if err != nil {
		return fmt.Errorf("failed to build MIME message: %w", err)
	}

	var auth sasl.Client
	if s.username != "" {
		auth = sasl.NewPlainClient("", s.username, s.password)
	}

	if err := smtp.SendMail(s.addr, auth, msg.From, msg.To, bytes.NewReader(raw)); err != nil {
		s.logger.Error("smtp send failed",
			"smtp_addr", s.addr,
			"error", err)
		return fmt.Errorf("smtp send failed: %w", err)
	}

	s.logger.Debug("message sent", "to_count", len(msg.To))
	return nil
}

// buildMIME renders the message as multipart/alternative with the plain
// text part first, per RFC 2046 (least preferred variant first).
func buildMIME(msg Message) ([]byte, error) {
	var buf bytes.Buffer

	from := []*mail.Address{{Address: msg.From}}
	to := make([]*mail.Address, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, &mail.Address{Address: addr})
	}

	var header mail.Header
	header.SetDate(time.Now())
	header.SetAddressList("From", from)
	header.SetAddressList("To", to)
	header.SetSubject(msg.Subject)

	mw, err := mail.CreateWriter(&buf, header)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("failed to create inline writer: %w", err)
	}

	var textHeader mail.InlineHeader
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	tp, err := iw.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	if _, err := io.WriteString(tp, msg.TextBody); err != nil {
		return nil, fmt.Errorf("failed to write text part: %w", err)
	}
	if err := tp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close text part: %w", err)
	}

	var htmlHeader mail.InlineHeader
	htmlHeader.Set("Content-Type", "text/html; charset=utf-8")
	hp, err := iw.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create html part: %w", err)
	}
	if _, err := io.WriteString(hp, msg.HTMLBody); err != nil {
		return nil, fmt.Errorf("failed to write html part: %w", err)
	}
	if err := hp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close html part: %w", err)
	}

	if err := iw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close inline writer: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message writer: %w", err)
	}

	return buf.Bytes(), nil
}
