// Package mailer sends contact form notifications over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/abhishek622/portfolio/internal/config"
	"github.com/abhishek622/portfolio/pkg/model"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  config.SMTPConfig
	send sendFunc
}

func New(cfg config.SMTPConfig) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled
}

func (m *Mailer) addr() string {
	return net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
}

func (m *Mailer) from() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return m.cfg.Username
}

func (m *Mailer) auth() smtp.Auth {
	if m.cfg.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
}

// NotifyContact mails the owner about a new contact message. Replies go
// straight to the sender.
func (m *Mailer) NotifyContact(ctx context.Context, msg model.ContactMessage) error {
	if !m.Enabled() {
		return nil
	}
	body := composeContact(m.from(), m.cfg.To, msg)

	done := make(chan error, 1)
	go func() {
		done <- m.send(m.addr(), m.auth(), m.from(), []string{m.cfg.To}, body)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send contact notification: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send contact notification: %w", ctx.Err())
	}
}

// Verify opens a session with the server, upgrading to TLS and
// authenticating when the server offers it.
func (m *Mailer) Verify(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", m.addr())
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", m.addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if err := c.Hello("localhost"); err != nil {
		return fmt.Errorf("smtp hello: %w", err)
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if a := m.auth(); a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}
	return c.Quit()
}

// headerValue drops line breaks so user input cannot add headers.
func headerValue(s string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("\r", " ", "\n", " ").Replace(s)), " ")
}

func composeContact(from, to string, msg model.ContactMessage) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(from))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(to))
	fmt.Fprintf(&b, "Reply-To: %s\r\n", headerValue(msg.Email))
	fmt.Fprintf(&b, "Subject: Portfolio Contact: %s\r\n", headerValue(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("New contact form submission from your portfolio:\r\n\r\n")
	fmt.Fprintf(&b, "Name: %s\r\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\r\n", msg.Email)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("Message:\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.Message, "\r\n", "\n"), "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.Bytes()
}
