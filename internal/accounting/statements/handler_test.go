package statements

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, source DataSource) *Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, newTestService(t, source))
}

func mountTestRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/accounting/statements", h.MountRoutes)
	return r
}

func TestGetReturnsStatementJSON(t *testing.T) {
	router := mountTestRouter(newTestHandler(t, openYearSource()))

	req := httptest.NewRequest(http.MethodGet, "/accounting/statements/7?company=1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var st Statement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	require.Equal(t, int64(7), st.FiscalYear.ID)
	require.True(t, st.Balanced)
}

func TestGetRejectsNonNumericIdentifiers(t *testing.T) {
	router := mountTestRouter(newTestHandler(t, openYearSource()))

	req := httptest.NewRequest(http.MethodGet, "/accounting/statements/abc?company=1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/accounting/statements/7", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetFailureReturnsReasons(t *testing.T) {
	router := mountTestRouter(newTestHandler(t, openYearSource()))

	req := httptest.NewRequest(http.MethodGet, "/accounting/statements/7?company=99", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Nil(t, res.Statement)
	require.NotEmpty(t, res.Errors)
}

func TestGetTextFormat(t *testing.T) {
	router := mountTestRouter(newTestHandler(t, openYearSource()))

	req := httptest.NewRequest(http.MethodGet, "/accounting/statements/7?company=1&format=text", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	body := rr.Body.String()
	require.True(t, strings.Contains(body, "Aktiva"))
	require.True(t, strings.Contains(body, "Passiva"))
	require.True(t, strings.Contains(body, "Jahresüberschuss"))
}

func TestCloseEnqueues(t *testing.T) {
	handler := newTestHandler(t, openYearSource())
	var requested int64
	handler.WithCloseRequester(func(ctx context.Context, fiscalYearID int64) error {
		requested = fiscalYearID
		return nil
	})
	router := mountTestRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/accounting/statements/7/close", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Equal(t, int64(7), requested)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "queued", body["status"])
}

func TestCloseWithoutQueueIsUnavailable(t *testing.T) {
	router := mountTestRouter(newTestHandler(t, openYearSource()))

	req := httptest.NewRequest(http.MethodPost, "/accounting/statements/7/close", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCloseEnqueueFailure(t *testing.T) {
	handler := newTestHandler(t, openYearSource())
	handler.WithCloseRequester(func(ctx context.Context, fiscalYearID int64) error {
		return errors.New("queue down")
	})
	router := mountTestRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/accounting/statements/7/close", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
