package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calcform/internal/calculator"
	"calcform/internal/observability"
	"calcform/internal/store"
	"calcform/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, *store.MemoryStore) {
	t.Helper()

	observability.Logger = zap.NewNop()
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	repo := store.NewMemoryStore()
	return NewRouter(repo), repo
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/metrics", nil), router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatal("expected Go runtime metrics in /metrics output")
	}
}

func TestNewRouterSubmitSetsRequestIDAndRedirects(t *testing.T) {
	router, repo := newTestRouter(t)

	req := testutil.NewFormRequest("/", testutil.CalculationForm("2", "3", "4", "+"))
	w := testutil.ExecuteRequest(req, router)

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	id := testutil.RedirectID(t, w)

	c, err := repo.Get(req.Context(), id)
	if err != nil {
		t.Fatalf("expected stored record %d: %v", id, err)
	}
	if c.Result != 9 {
		t.Fatalf("expected result 9, got %g", c.Result)
	}
}

func TestNewRouterServesFormAndAPI(t *testing.T) {
	router, _ := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content type, got %q", ct)
	}

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/api/calculations", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("expected empty JSON list, got %q", body)
	}
}

func TestNewRouterRejectsUnsupportedMethod(t *testing.T) {
	router, _ := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, "/", nil), router)
	testutil.CheckResponseCode(t, http.StatusMethodNotAllowed, w.Code)
}
