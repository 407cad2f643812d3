package email

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Sender define la interfaz para envio de correos con enlaces de un solo uso.
// El token viaja crudo; cada implementacion arma el enlace con su URL base.
type Sender interface {
	SendVerification(ctx context.Context, toEmail string, token string) error
	SendPasswordReset(ctx context.Context, toEmail string, token string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendVerification(_ context.Context, _ string, _ string) error {
	return s.err()
}

func (s *disabledSender) SendPasswordReset(_ context.Context, _ string, _ string) error {
	return s.err()
}

func (s *disabledSender) err() error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}

// Links arma los enlaces que se envian por correo.
type Links struct {
	BaseURL string
}

func (l Links) Verification(token string) string {
	return l.build("/verify", token)
}

func (l Links) PasswordReset(token string) string {
	return l.build("/reset-password", token)
}

func (l Links) build(path, token string) string {
	base := strings.TrimRight(strings.TrimSpace(l.BaseURL), "/")
	return base + path + "?token=" + url.QueryEscape(token)
}
