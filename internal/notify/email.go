package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// EmailConfig holds SMTP settings. Host, Port, Username, Password and To
// are all required.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // defaults to Username
	To       string // comma-separated
	Timeout  time.Duration
}

// Configured reports whether every required setting is present.
func (c EmailConfig) Configured() bool {
	return strings.TrimSpace(c.Host) != "" && c.Port > 0 &&
		strings.TrimSpace(c.Username) != "" && c.Password != "" &&
		len(c.recipients()) > 0
}

func (c EmailConfig) recipients() []string {
	var out []string
	for _, r := range strings.Split(c.To, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func (c EmailConfig) from() string {
	if strings.TrimSpace(c.From) != "" {
		return c.From
	}
	return c.Username
}

//go:embed email.html
var emailTpl string

var emailBody = template.Must(template.New("email").Parse(emailTpl))

// Email sends one HTML message over SMTP with STARTTLS and PLAIN auth.
type Email struct {
	cfg EmailConfig
}

func NewEmail(cfg EmailConfig) *Email { return &Email{cfg: cfg} }

func (e *Email) Channel() Channel { return ChannelEmail }

func (e *Email) Send(ctx context.Context, msg Message) error {
	if !e.cfg.Configured() {
		return fmt.Errorf("email: %w", ErrNotConfigured)
	}
	body, err := BuildEmail(e.cfg.from(), e.cfg.recipients(), msg)
	if err != nil {
		return err
	}
	client, err := e.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	auth := smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}
	if err := client.Mail(e.cfg.from()); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}
	for _, to := range e.cfg.recipients() {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("SMTP RCPT TO %s: %w", to, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("SMTP write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("SMTP close data: %w", err)
	}
	return client.Quit()
}

func (e *Email) dial(ctx context.Context) (*smtp.Client, error) {
	timeout := e.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(e.cfg.Port))
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, e.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SMTP client: %w", err)
	}
	if err := client.StartTLS(&tls.Config{ServerName: e.cfg.Host}); err != nil {
		client.Close()
		return nil, fmt.Errorf("STARTTLS: %w", err)
	}
	return client, nil
}

// BuildEmail renders the full MIME message including headers.
func BuildEmail(from string, to []string, msg Message) ([]byte, error) {
	var html bytes.Buffer
	if err := emailBody.Execute(&html, msg); err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", encodeRFC2047("New News Report: "+msg.Topic))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	b.WriteString(base64.StdEncoding.EncodeToString(html.Bytes()))
	b.WriteString("\r\n")
	return b.Bytes(), nil
}

func encodeRFC2047(s string) string {
	return "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte(s)) + "?="
}
