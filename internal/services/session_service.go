package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
)

// SessionService issues and checks the signed continuity token carried
// by the verified_phone cookie. Two distinct validity windows apply:
// the cookie itself lives 30 days for "remember this device" UX, while
// elevated-trust operations additionally require the token to have been
// issued within the last 24 hours. HMAC-SHA256 signing makes the token
// unforgeable without the server secret.
type SessionService interface {
	IssueToken(phone string, now time.Time) (string, error)
	// CheckToken reports whether the token is authentic and unexpired,
	// returning the phone it was issued for.
	CheckToken(token string) (phone string, ok bool)
	// CheckElevated additionally requires issuance within the
	// elevated-trust window.
	CheckElevated(token string) (phone string, ok bool)
}

type sessionService struct {
	signingKey     []byte
	cookieExpiry   time.Duration
	elevatedWindow time.Duration
}

func NewSessionService(cfg *config.Config) SessionService {
	return &sessionService{
		signingKey:     cfg.SessionSigningKey,
		cookieExpiry:   cfg.CookieExpiry,
		elevatedWindow: cfg.ElevatedTrustWindow,
	}
}

func (s *sessionService) IssueToken(phone string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   phone,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cookieExpiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

func (s *sessionService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *sessionService) CheckToken(token string) (string, bool) {
	claims, err := s.parse(token)
	if err != nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

func (s *sessionService) CheckElevated(token string) (string, bool) {
	claims, err := s.parse(token)
	if err != nil || claims.Subject == "" || claims.IssuedAt == nil {
		return "", false
	}
	if time.Since(claims.IssuedAt.Time) > s.elevatedWindow {
		return "", false
	}
	return claims.Subject, true
}
