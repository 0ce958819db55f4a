package leads

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ranihwanifactory/mya/internal/httpx"
	"github.com/ranihwanifactory/mya/internal/metrics"
	"github.com/ranihwanifactory/mya/internal/middleware"
	"github.com/ranihwanifactory/mya/internal/transport"
	"github.com/ranihwanifactory/mya/internal/validation"
)

const confirmationMessage = "견적 요청이 접수되었습니다. 담당자가 곧 연락드리겠습니다."

type Handler struct {
	service        *Service
	val            *validation.Validator
	log            *slog.Logger
	reportFailures bool
	notifyDone     func()
}

// NewHandler builds the lead handler. When reportFailures is false a store
// failure is logged and the client still gets the usual confirmation.
func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, reportFailures bool) *Handler {
	return &Handler{
		service:        service,
		val:            val,
		log:            log,
		reportFailures: reportFailures,
	}
}

type submitResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ID             string `json:"id,omitempty"`
	EstimatedPrice int64  `json:"estimated_price,omitempty"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req SubmitRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("lead submit: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("lead submit: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	lead, err := h.service.Submit(ctx, req.draft())
	metrics.LeadsSubmitted.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		log.Error("lead submit: store error",
			slog.String("category", req.Category),
			slog.String("error", err.Error()),
		)
		if h.reportFailures {
			status, msg := httpx.StoreFailure(err)
			transport.WriteError(w, status, msg, nil)
			return
		}
		transport.WriteJSON(w, http.StatusCreated, submitResponse{Success: true, Message: confirmationMessage})
		return
	}

	go h.notify(lead)

	log.Info("lead submit: ok",
		slog.String("lead_id", lead.ID),
		slog.String("category", lead.Category),
		slog.Int64("estimated_price", lead.EstimatedPrice),
	)
	transport.WriteJSON(w, http.StatusCreated, submitResponse{
		Success:        true,
		Message:        confirmationMessage,
		ID:             lead.ID,
		EstimatedPrice: lead.EstimatedPrice,
	})
}

func (h *Handler) notify(lead ProjectRequest) {
	if h.notifyDone != nil {
		defer h.notifyDone()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	if err := h.service.NotifyNewLead(ctx, lead); err != nil {
		h.log.Warn("lead submit: notification failed",
			slog.String("lead_id", lead.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := h.service.NotifyConfirmation(ctx, lead); err != nil {
		h.log.Warn("lead submit: client confirmation failed",
			slog.String("lead_id", lead.ID),
			slog.String("email", lead.ClientEmail),
			slog.String("error", err.Error()),
		)
	}
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		status, msg := httpx.StoreFailure(err)
		log.Error("admin lead list: store error", slog.String("error", err.Error()))
		transport.WriteError(w, status, msg, nil)
		return
	}

	log.Info("admin lead list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
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
