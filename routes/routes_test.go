package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bharatparcel/handlers"
	"bharatparcel/logger"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(pingErr error) http.Handler {
	log := logger.Discard()
	return NewRouter(Handlers{
		Auth:       handlers.NewAuthenticator(nil, log),
		Health:     handlers.NewHealthHandler(stubPinger{err: pingErr}, log),
		Users:      handlers.NewUserHandler(nil, log),
		Bookings:   handlers.NewBookingHandler(nil, log),
		Quotations: handlers.NewQuotationHandler(nil, log),
		Stations:   handlers.NewStationHandler(nil, log),
		Customers:  handlers.NewCustomerHandler(nil, log),
		Reports:    handlers.NewReportHandler(nil, log),
	}, log)
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	router := newTestRouter(nil)
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/users"},
		{http.MethodGet, "/api/bookings/list?type=active"},
		{http.MethodGet, "/api/bookings/count/cancelled"},
		{http.MethodPatch, "/api/bookings/id/BPS-1/approve"},
		{http.MethodGet, "/api/quotations/id/QTN-1"},
		{http.MethodGet, "/api/stations/name/Delhi"},
		{http.MethodGet, "/api/customers/email/a@example.com"},
		{http.MethodPost, "/api/reports/ca-report"},
		{http.MethodPost, "/api/whatsapp/send-booking/BPS-1"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", rt.method, rt.path, w.Code)
		}
		if w.Header().Get(handlers.RequestIDHeader) == "" {
			t.Errorf("%s %s: missing request id", rt.method, rt.path)
		}
	}
}

func TestRouter_Preflight(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/bookings", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS headers on preflight")
	}
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	newTestRouter(errors.New("down")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bilty", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
