package auth

import (
	"context"
	"strings"
)

type SessionState string

const (
	StateSignedOut    SessionState = "signed_out"
	StateUnauthorized SessionState = "unauthorized"
	StateAuthorized   SessionState = "authorized"
)

// Guard decides what a signed-in user may do in the admin area.
type Guard struct {
	IsAuthorized func(user *User) bool
}

// AllowList authorizes exactly one email address, compared without regard
// to case or surrounding spaces. An empty email authorizes nobody.
func AllowList(email string) func(user *User) bool {
	allowed := strings.TrimSpace(email)
	return func(user *User) bool {
		if user == nil || allowed == "" {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(user.Email), allowed)
	}
}

func (g Guard) State(user *User) SessionState {
	if user == nil {
		return StateSignedOut
	}
	if g.IsAuthorized == nil || !g.IsAuthorized(user) {
		return StateUnauthorized
	}
	return StateAuthorized
}

type userKey struct{}

func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the signed-in user, or nil when the request is
// anonymous.
func UserFromContext(ctx context.Context) *User {
	if u, ok := ctx.Value(userKey{}).(*User); ok {
		return u
	}
	return nil
}
