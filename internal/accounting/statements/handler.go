package statements

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abschluss-erp/abschluss-erp/internal/platform/httpx"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
	closeFn func(ctx context.Context, fiscalYearID int64) error
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// WithCloseRequester wires the queue submission used by the close endpoint.
func (h *Handler) WithCloseRequester(fn func(ctx context.Context, fiscalYearID int64) error) {
	h.closeFn = fn
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{yearID}", h.Get)
	r.Post("/{yearID}/close", h.Close)
}

// Get serves the statement for one fiscal year. The response is either the
// statement (JSON, or plain text with ?format=text) or the failure reasons.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	yearID, err := strconv.ParseInt(chi.URLParam(r, "yearID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "fiscal year id must be numeric")
		return
	}
	companyID, err := strconv.ParseInt(r.URL.Query().Get("company"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company query parameter must be numeric")
		return
	}

	result := h.service.Statement(r.Context(), companyID, yearID)
	if !result.OK() {
		h.logger.Warn("statement request failed",
			slog.Int64("company_id", companyID),
			slog.Int64("fiscal_year_id", yearID),
			slog.Any("reasons", result.Errors))
		httpx.JSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(RenderText(*result.Statement)))
		return
	}
	httpx.JSON(w, http.StatusOK, result.Statement)
}

// Close enqueues a close run for the fiscal year. The actual snapshot
// posting happens in the worker.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	if h.closeFn == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Close Unavailable", "close queue is not configured")
		return
	}
	yearID, err := strconv.ParseInt(chi.URLParam(r, "yearID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "fiscal year id must be numeric")
		return
	}
	if err := h.closeFn(r.Context(), yearID); err != nil {
		h.logger.Error("enqueue close run", slog.Int64("fiscal_year_id", yearID), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{"fiscal_year_id": yearID, "status": "queued"})
}
