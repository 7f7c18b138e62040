// Helpers for issuing / clearing the verified_phone continuity cookie.

package utils

import (
	"net/http"
	"time"
)

const VerifiedPhoneCookieName = "verified_phone"

// SetVerifiedPhoneCookie writes the signed continuity token. HttpOnly and
// SameSite=Lax: the cookie is readable only by the server and survives
// top-level navigation, which is what the "remember this device" UX needs.
func SetVerifiedPhoneCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	if token == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     VerifiedPhoneCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl).UTC(),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	addSecurityHeaders(w)
}

// ClearVerifiedPhoneCookie deletes the continuity cookie.
func ClearVerifiedPhoneCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     VerifiedPhoneCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   0,
		Expires:  time.Now().Add(-1 * time.Hour).UTC(),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	addSecurityHeaders(w)
}

// addSecurityHeaders applies transport and caching headers for
// token-bearing responses.
func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}
