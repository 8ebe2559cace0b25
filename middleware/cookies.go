package middleware

import (
	"net/http"
	"time"

	"github.com/cliptube/authkit"
)

// Cookie names used by [SetSessionCookies] and read by [Guard].
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// SetSessionCookies writes the token pair as HttpOnly, Secure cookies.
// Lifetimes mirror the token TTLs so the browser drops a cookie around the
// time its token stops verifying.
func SetSessionCookies(w http.ResponseWriter, pair *authkit.TokenPair, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(w, sessionCookie(AccessTokenCookie, pair.AccessToken, accessTTL))
	http.SetCookie(w, sessionCookie(RefreshTokenCookie, pair.RefreshToken, refreshTTL))
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie(AccessTokenCookie, "", -time.Second))
	http.SetCookie(w, sessionCookie(RefreshTokenCookie, "", -time.Second))
}

func sessionCookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl / time.Second)
	}
	return c
}
