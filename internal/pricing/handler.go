package pricing

import (
	"log/slog"
	"net/http"

	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/ranihwanifactory/mya/internal/httpx"
	"github.com/ranihwanifactory/mya/internal/metrics"
	"github.com/ranihwanifactory/mya/internal/middleware"
	"github.com/ranihwanifactory/mya/internal/transport"
)

type Handler struct {
	catalog *catalog.Catalog
	log     *slog.Logger
}

func NewHandler(cat *catalog.Catalog, log *slog.Logger) *Handler {
	return &Handler{catalog: cat, log: log}
}

type catalogResponse struct {
	Currency   string             `json:"currency"`
	Categories []catalog.Category `json:"categories"`
	Features   []catalog.Feature  `json:"features"`
}

type PreviewRequest struct {
	Category         string   `json:"category"`
	SelectedFeatures []string `json:"selected_features"`
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, catalogResponse{
		Currency:   h.catalog.Currency(),
		Categories: h.catalog.Categories(),
		Features:   h.catalog.Features(),
	})
}

// Preview prices a selection without storing anything. Unknown ids are
// ignored, so a stale client still gets a usable answer.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.logWithRequest(r).Warn("estimate preview: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	est := NewSelection(req.Category, req.SelectedFeatures...).Estimate(h.catalog)
	if est.Ready() {
		metrics.EstimatesComputed.WithLabelValues(est.Category).Inc()
	}
	transport.WriteJSON(w, http.StatusOK, est)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
