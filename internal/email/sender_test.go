package email

import (
	"context"
	"strings"
	"testing"
)

func TestLinks(t *testing.T) {
	links := Links{BaseURL: "https://app.example.com/"}

	if got := links.Verification("abc123"); got != "https://app.example.com/verify?token=abc123" {
		t.Fatalf("unexpected verification link %q", got)
	}
	if got := links.PasswordReset("abc123"); got != "https://app.example.com/reset-password?token=abc123" {
		t.Fatalf("unexpected reset link %q", got)
	}
	if got := links.Verification("a b&c"); got != "https://app.example.com/verify?token=a+b%26c" {
		t.Fatalf("expected token to be query escaped, got %q", got)
	}
}

func TestDisabledSender(t *testing.T) {
	s := NewDisabledSender("not configured")
	if err := s.SendVerification(context.Background(), "user@example.com", "t"); err == nil || err.Error() != "not configured" {
		t.Fatalf("expected reason error, got %v", err)
	}
	if err := NewDisabledSender("").SendPasswordReset(context.Background(), "user@example.com", "t"); err == nil {
		t.Fatalf("expected default error")
	}
}

func TestNewSMTPSender_Validation(t *testing.T) {
	links := Links{BaseURL: "https://app.example.com"}
	if _, err := NewSMTPSender("", 587, "", "", "from@example.com", "", false, links); err == nil {
		t.Fatalf("expected host error")
	}
	if _, err := NewSMTPSender("smtp.example.com", 587, "", "", "", "", false, links); err == nil {
		t.Fatalf("expected from error")
	}
	if _, err := NewSMTPSender("smtp.example.com", 587, "", "", "from@example.com", "", false, Links{}); err == nil {
		t.Fatalf("expected base url error")
	}
	s, err := NewSMTPSender("smtp.example.com", 0, "", "", "from@example.com", "", false, links)
	if err != nil {
		t.Fatalf("expected sender, got %v", err)
	}
	if s.port != 587 {
		t.Fatalf("expected default port 587, got %d", s.port)
	}
}

func TestSMTPSender_RejectsEmptyRecipient(t *testing.T) {
	s, err := NewSMTPSender("smtp.example.com", 587, "", "", "from@example.com", "", false, Links{BaseURL: "https://app.example.com"})
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if err := s.SendVerification(context.Background(), "  ", "tok"); err == nil {
		t.Fatalf("expected error for empty recipient")
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("from@example.com", "Accounts", "to@example.com", "Verify your email", linkBody("https://app/verify?token=x&y=1", "verify your email"))

	if !strings.Contains(msg, "From: Accounts <from@example.com>\r\n") {
		t.Fatalf("missing from header: %q", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/html") {
		t.Fatalf("expected html content type")
	}
	if !strings.Contains(msg, `href="https://app/verify?token=x&amp;y=1"`) {
		t.Fatalf("expected escaped link in body: %q", msg)
	}
	if !strings.Contains(msg, "\r\n\r\n<p>Click") {
		t.Fatalf("expected body after blank line")
	}
}
