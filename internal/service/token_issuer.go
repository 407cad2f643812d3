package service

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"time"

	"account-lifecycle/internal/domain"
)

const (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = time.Hour

	tokenBytes = 32
)

// TokenIssuer genera tokens opacos de un solo uso con vencimiento absoluto.
type TokenIssuer interface {
	Issue(ttl time.Duration) (domain.PendingToken, error)
}

type randomTokenIssuer struct {
	now    func() time.Time
	source io.Reader
}

// NewTokenIssuer crea un emisor respaldado por crypto/rand. Con now nil usa
// el reloj del sistema en UTC.
func NewTokenIssuer(now func() time.Time) TokenIssuer {
	if now == nil {
		now = utcNow
	}
	return &randomTokenIssuer{now: now, source: rand.Reader}
}

func (i *randomTokenIssuer) Issue(ttl time.Duration) (domain.PendingToken, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(i.source, buf); err != nil {
		return domain.PendingToken{}, err
	}
	return domain.PendingToken{
		Value:     hex.EncodeToString(buf),
		ExpiresAt: i.now().Add(ttl),
	}, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
