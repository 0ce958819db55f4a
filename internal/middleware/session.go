package middleware

import (
	"net/http"
	"strings"

	"github.com/ranihwanifactory/mya/internal/auth"
	"github.com/ranihwanifactory/mya/internal/transport"
)

const (
	AccessCookie  = "studio_access"
	RefreshCookie = "studio_refresh"
)

// Session resolves the signed-in user from the access cookie or a bearer
// token. Requests without a valid token continue anonymously.
func Session(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				next.ServeHTTP(w, r)
				return
			}
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(AccessCookie); err == nil {
					token = c.Value
				}
			}
			if token != "" {
				if user, err := manager.ParseAccess(token); err == nil {
					r = r.WithContext(auth.WithUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAdmin lets authorized users through. Anonymous requests get 401 and
// signed-in users outside the allow list get 403.
func RequireAdmin(guard auth.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch guard.State(auth.UserFromContext(r.Context())) {
			case auth.StateAuthorized:
				next.ServeHTTP(w, r)
			case auth.StateUnauthorized:
				transport.WriteError(w, http.StatusForbidden, "admin access required", nil)
			default:
				transport.WriteError(w, http.StatusUnauthorized, "sign in required", nil)
			}
		})
	}
}
