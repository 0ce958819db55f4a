// Package admin serves sign-in and session endpoints for the admin area.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ranihwanifactory/mya/internal/auth"
	"github.com/ranihwanifactory/mya/internal/httpx"
	"github.com/ranihwanifactory/mya/internal/middleware"
	"github.com/ranihwanifactory/mya/internal/transport"
	"github.com/ranihwanifactory/mya/internal/validation"
)

const refreshCookiePath = "/api/v1/admin"

type Handler struct {
	users        auth.UserStore
	manager      *auth.Manager
	guard        auth.Guard
	val          *validation.Validator
	log          *slog.Logger
	cookieSecure bool
}

func NewHandler(users auth.UserStore, manager *auth.Manager, guard auth.Guard, val *validation.Validator, log *slog.Logger, cookieSecure bool) *Handler {
	return &Handler{
		users:        users,
		manager:      manager,
		guard:        guard,
		val:          val,
		log:          log,
		cookieSecure: cookieSecure,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	State auth.SessionState `json:"state"`
	Email string            `json:"email,omitempty"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	if !h.configured() {
		log.Warn("admin login: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := auth.Authenticate(ctx, h.users, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Warn("admin login: invalid credentials", slog.String("email", auth.NormalizeEmail(req.Email)))
			transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		status, msg := httpx.StoreFailure(err)
		log.Error("admin login: store error", slog.String("error", err.Error()))
		transport.WriteError(w, status, msg, nil)
		return
	}

	if err := h.issue(w, user.Email); err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	state := h.guard.State(user)
	log.Info("admin login: ok", slog.String("email", user.Email), slog.String("state", string(state)))
	transport.WriteJSON(w, http.StatusOK, SessionResponse{State: state, Email: user.Email})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	if !h.configured() {
		log.Warn("admin refresh: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	c, err := r.Cookie(middleware.RefreshCookie)
	if err != nil || c.Value == "" {
		log.Warn("admin refresh: missing refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	user, err := h.manager.ParseRefresh(c.Value)
	if err != nil {
		log.Warn("admin refresh: invalid refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	if err := h.issue(w, user.Email); err != nil {
		log.Error("admin refresh: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	log.Info("admin refresh: ok", slog.String("email", user.Email))
	transport.WriteJSON(w, http.StatusOK, SessionResponse{State: h.guard.State(user), Email: user.Email})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookies(w)
	h.logWithRequest(r).Info("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, SessionResponse{State: auth.StateSignedOut})
}

// Session reports which of the three admin states the caller is in.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	resp := SessionResponse{State: h.guard.State(user)}
	if user != nil {
		resp.Email = user.Email
	}
	transport.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) configured() bool {
	return h.manager != nil && len(h.manager.Secret) > 0 && h.users != nil
}

func (h *Handler) issue(w http.ResponseWriter, email string) error {
	access, err := h.manager.NewAccessToken(email)
	if err != nil {
		return err
	}
	refresh, err := h.manager.NewRefreshToken(email)
	if err != nil {
		return err
	}
	http.SetCookie(w, h.cookie(middleware.AccessCookie, access, "/", int(h.manager.AccessTTL.Seconds())))
	http.SetCookie(w, h.cookie(middleware.RefreshCookie, refresh, refreshCookiePath, int(h.manager.RefreshTTL.Seconds())))
	return nil
}

func (h *Handler) clearCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.cookie(middleware.AccessCookie, "", "/", -1))
	http.SetCookie(w, h.cookie(middleware.RefreshCookie, "", refreshCookiePath, -1))
}

func (h *Handler) cookie(name, value, path string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
