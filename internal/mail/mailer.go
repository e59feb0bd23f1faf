package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	log "github.com/sirupsen/logrus"

	"github.com/bubt-idcard/idcard-server/internal/config"
)

// Sender delivers rendered mail to a recipient.
type Sender interface {
	// Verify checks transport connectivity without sending anything.
	Verify(ctx context.Context) error
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender sends mail over authenticated SMTP.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender constructs an SMTPSender from SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
	}
}

func (s *SMTPSender) addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Verify dials the SMTP server and exchanges a greeting.
func (s *SMTPSender) Verify(_ context.Context) error {
	client, errDial := smtp.Dial(s.addr())
	if errDial != nil {
		return fmt.Errorf("mail: dial %s: %w", s.addr(), errDial)
	}
	defer func() { _ = client.Close() }()
	if errHello := client.Hello("localhost"); errHello != nil {
		return fmt.Errorf("mail: hello: %w", errHello)
	}
	return client.Quit()
}

// Send delivers an HTML message to a single recipient.
func (s *SMTPSender) Send(_ context.Context, to, subject, htmlBody string) error {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if errSend := smtp.SendMail(s.addr(), auth, s.from, []string{to}, msg.Bytes()); errSend != nil {
		return fmt.Errorf("mail: send to %s: %w", to, errSend)
	}
	log.WithFields(log.Fields{"to": to, "subject": subject}).Info("email sent")
	return nil
}

var resetTemplate = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Password Reset Request</h2>
  <p>You requested to reset your password for the BUBT ID Card System.</p>
  <p>Click the button below to reset your password:</p>
  <a href="{{.Link}}"
     style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block; margin: 10px 0;">
    Reset Password
  </a>
  <p>This link will expire in 1 hour.</p>
  <p>If you didn't request this, please ignore this email.</p>
  <hr>
  <p style="color: #6b7280;">BUBT ID Card Management System</p>
</div>
`))

// RenderPasswordReset renders the password-reset mail body for a link.
func RenderPasswordReset(link string) (string, error) {
	var buf bytes.Buffer
	if errExec := resetTemplate.Execute(&buf, struct{ Link string }{Link: link}); errExec != nil {
		return "", errExec
	}
	return buf.String(), nil
}
