package email

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
)

// SMTPSender delivers messages with go-mail. Every Send dials a fresh
// connection which is closed before Send returns.
type SMTPSender struct{}

func (SMTPSender) Send(ctx context.Context, ep Endpoint, msg Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(ep.Server, clientOptions(ep)...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", ep.Server, ep.Port, err)
	}
	return nil
}

func clientOptions(ep Endpoint) []mail.Option {
	opts := []mail.Option{mail.WithPort(ep.Port)}
	switch ep.TLS {
	case TLSSSL:
		opts = append(opts, mail.WithSSL())
	case TLSStartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if ep.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(ep.Timeout))
	}
	if ep.UseAuth() {
		opts = append(opts,
			mail.WithSMTPAuth(authType(ep.AuthMechanism, ep.TLS)),
			mail.WithUsername(ep.Username),
			mail.WithPassword(ep.Password),
		)
	}
	return opts
}

// authType picks the SMTP AUTH mechanism. Without TLS the NoEnc variants
// are required, go-mail otherwise refuses PLAIN and LOGIN on any
// non-local connection.
func authType(mechanism, tlsMode string) mail.SMTPAuthType {
	plainConn := tlsMode != TLSSSL && tlsMode != TLSStartTLS
	switch mechanism {
	case "login":
		if plainConn {
			return mail.SMTPAuthLoginNoEnc
		}
		return mail.SMTPAuthLogin
	case "cram-md5":
		return mail.SMTPAuthCramMD5
	default:
		if plainConn {
			return mail.SMTPAuthPlainNoEnc
		}
		return mail.SMTPAuthPlain
	}
}

func buildMsg(msg Message) (*mail.Msg, error) {
	// 8bit keeps the report lines intact, as a plain text/plain mail.
	m := mail.NewMsg(mail.WithEncoding(mail.NoEncoding))
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("from %q: %w", msg.From, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to %q: %w", msg.ToHeader(), err)
	}
	m.Subject(msg.Subject)
	// Keep the historical date layout instead of go-mail's RFC 1123 default.
	m.SetGenHeader(mail.HeaderDate, msg.Date)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
