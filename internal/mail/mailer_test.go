package mail

import (
	"strings"
	"testing"

	"github.com/bubt-idcard/idcard-server/internal/config"
)

func TestRenderPasswordReset(t *testing.T) {
	link := "http://localhost:5173/reset-password?token=abc123&email=admin%40example.com"
	body, errRender := RenderPasswordReset(link)
	if errRender != nil {
		t.Fatalf("render: %v", errRender)
	}
	if !strings.Contains(body, link) {
		t.Fatalf("rendered mail does not contain reset link: %s", body)
	}
	if !strings.Contains(body, "expire in 1 hour") {
		t.Fatalf("rendered mail missing expiry notice: %s", body)
	}
}

func TestRenderPasswordReset_EscapesLink(t *testing.T) {
	body, errRender := RenderPasswordReset(`"><script>alert(1)</script>`)
	if errRender != nil {
		t.Fatalf("render: %v", errRender)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("link not escaped: %s", body)
	}
}

func TestNewSMTPSender_FromFallsBackToUsername(t *testing.T) {
	sender := NewSMTPSender(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "noreply@example.com",
		Password: "hunter2",
	})
	if sender.from != "noreply@example.com" {
		t.Fatalf("from = %q, want username fallback", sender.from)
	}
	if sender.addr() != "smtp.example.com:587" {
		t.Fatalf("addr = %q", sender.addr())
	}

	explicit := NewSMTPSender(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "noreply@example.com",
		From:     "BUBT ID Card <idcard@example.com>",
	})
	if explicit.from != "BUBT ID Card <idcard@example.com>" {
		t.Fatalf("from = %q, want configured value", explicit.from)
	}
}
