package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cliptube/authkit"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity injected by [Guard].
func IdentityFromContext(ctx context.Context) (*authkit.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*authkit.Identity)
	return id, ok
}

// Guard rejects requests that do not carry a valid access token. The token
// is taken from the Authorization header first, then from the accessToken
// cookie. Every rejection is a bare 401; the reason is not exposed.
func Guard(engine *authkit.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := accessToken(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := engine.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessToken(r *http.Request) (string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
