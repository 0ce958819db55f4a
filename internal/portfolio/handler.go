package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/ranihwanifactory/mya/internal/httpx"
	"github.com/ranihwanifactory/mya/internal/middleware"
	"github.com/ranihwanifactory/mya/internal/transport"
	"github.com/ranihwanifactory/mya/internal/validation"
)

type Handler struct {
	service *Service
	catalog *catalog.Catalog
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, cat *catalog.Catalog, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		catalog: cat,
		val:     val,
		log:     log,
	}
}

// View is an item as rendered for clients, with its category label resolved.
type View struct {
	Item
	CategoryLabel string `json:"category_label"`
}

type galleryResponse struct {
	Featured *View  `json:"featured"`
	Items    []View `json:"items"`
}

type mutationResponse struct {
	ID    string `json:"id"`
	Items []View `json:"items"`
	Stale bool   `json:"stale,omitempty"`
}

func (h *Handler) Gallery(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	filter := Filter{
		SearchText: r.URL.Query().Get("q"),
		Category:   r.URL.Query().Get("category"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.service.Gallery(ctx, filter)
	if err != nil {
		status, msg := httpx.StoreFailure(err)
		log.Error("portfolio gallery: store error", slog.String("error", err.Error()))
		transport.WriteError(w, status, msg, nil)
		return
	}

	out := galleryResponse{Items: h.views(res.Rest)}
	if res.Featured != nil {
		v := h.view(*res.Featured)
		out.Featured = &v
	}
	log.Debug("portfolio gallery: ok", slog.Int("count", len(out.Items)), slog.Bool("featured", out.Featured != nil))
	transport.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		status, msg := httpx.StoreFailure(err)
		log.Error("admin portfolio list: store error", slog.String("error", err.Error()))
		transport.WriteError(w, status, msg, nil)
		return
	}

	log.Info("admin portfolio list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": h.views(items),
	})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin portfolio create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin portfolio create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	m, err := h.service.Create(ctx, req)
	h.writeMutation(w, log, "create", http.StatusCreated, m, err)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin portfolio update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin portfolio update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin portfolio update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	m, err := h.service.Update(ctx, id, req)
	h.writeMutation(w, log, "update", http.StatusOK, m, err)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin portfolio delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	m, err := h.service.Delete(ctx, id)
	h.writeMutation(w, log, "delete", http.StatusOK, m, err)
}

func (h *Handler) writeMutation(w http.ResponseWriter, log *slog.Logger, op string, status int, m Mutation, err error) {
	switch {
	case err == nil:
		log.Info("admin portfolio "+op+": ok", slog.String("portfolio_id", m.ID))
		transport.WriteJSON(w, status, mutationResponse{ID: m.ID, Items: h.views(m.Items)})
	case errors.Is(err, ErrRefreshStale):
		log.Warn("admin portfolio "+op+": refresh failed", slog.String("portfolio_id", m.ID), slog.String("error", err.Error()))
		transport.WriteJSON(w, status, mutationResponse{ID: m.ID, Items: []View{}, Stale: true})
	case errors.Is(err, ErrNotFound):
		log.Warn("admin portfolio "+op+": not found")
		transport.WriteError(w, http.StatusNotFound, "portfolio item not found", nil)
	case errors.Is(err, ErrEmptyPatch):
		transport.WriteError(w, http.StatusBadRequest, "nothing to update", nil)
	case errors.Is(err, ErrMissingID):
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
	default:
		code, msg := httpx.StoreFailure(err)
		log.Error("admin portfolio "+op+": store error", slog.String("error", err.Error()))
		transport.WriteError(w, code, msg, nil)
	}
}

func (h *Handler) view(item Item) View {
	return View{Item: item, CategoryLabel: h.catalog.CategoryLabel(item.Category)}
}

func (h *Handler) views(items []Item) []View {
	out := make([]View, 0, len(items))
	for _, item := range items {
		out = append(out, h.view(item))
	}
	return out
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
