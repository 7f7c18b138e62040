package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
)

func sessionTestConfig(key string) *config.Config {
	return &config.Config{
		SessionSigningKey:   []byte(key),
		CookieExpiry:        config.DefaultCookieExpiry,
		ElevatedTrustWindow: config.DefaultElevatedTrustWindow,
	}
}

const sessionTestKey = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	svc := NewSessionService(sessionTestConfig(sessionTestKey))

	token, err := svc.IssueToken(testPhone, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	phone, ok := svc.CheckToken(token)
	assert.True(t, ok)
	assert.Equal(t, testPhone, phone)
}

func TestTokenRejectedWithWrongKey(t *testing.T) {
	issuer := NewSessionService(sessionTestConfig(sessionTestKey))
	verifier := NewSessionService(sessionTestConfig("ffffffffffffffffffffffffffffffff"))

	token, err := issuer.IssueToken(testPhone, time.Now())
	require.NoError(t, err)

	_, ok := verifier.CheckToken(token)
	assert.False(t, ok)
}

func TestTamperedTokenRejected(t *testing.T) {
	svc := NewSessionService(sessionTestConfig(sessionTestKey))

	token, err := svc.IssueToken(testPhone, time.Now())
	require.NoError(t, err)

	// Flip a character in the payload segment.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}
	_, ok := svc.CheckToken(string(tampered))
	assert.False(t, ok)

	_, ok = svc.CheckToken("not-a-token")
	assert.False(t, ok)
	_, ok = svc.CheckToken("")
	assert.False(t, ok)
}

func TestTokenExpiresAfterCookieLifetime(t *testing.T) {
	svc := NewSessionService(sessionTestConfig(sessionTestKey))

	issued := time.Now().Add(-31 * 24 * time.Hour)
	token, err := svc.IssueToken(testPhone, issued)
	require.NoError(t, err)

	_, ok := svc.CheckToken(token)
	assert.False(t, ok, "token issued 31 days ago must be expired")
}

func TestTokenValidJustBeforeExpiry(t *testing.T) {
	svc := NewSessionService(sessionTestConfig(sessionTestKey))

	issued := time.Now().Add(-29 * 24 * time.Hour)
	token, err := svc.IssueToken(testPhone, issued)
	require.NoError(t, err)

	phone, ok := svc.CheckToken(token)
	assert.True(t, ok)
	assert.Equal(t, testPhone, phone)
}

func TestElevatedTrustWindow(t *testing.T) {
	svc := NewSessionService(sessionTestConfig(sessionTestKey))

	fresh, err := svc.IssueToken(testPhone, time.Now().Add(-1*time.Hour))
	require.NoError(t, err)
	phone, ok := svc.CheckElevated(fresh)
	assert.True(t, ok)
	assert.Equal(t, testPhone, phone)

	// Still a valid session after 25h, but no longer elevated.
	stale, err := svc.IssueToken(testPhone, time.Now().Add(-25*time.Hour))
	require.NoError(t, err)
	_, ok = svc.CheckToken(stale)
	assert.True(t, ok)
	_, ok = svc.CheckElevated(stale)
	assert.False(t, ok)
}
