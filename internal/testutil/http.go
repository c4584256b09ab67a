package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// NewFormRequest builds a form-encoded POST to target.
func NewFormRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// CalculationForm returns the form values for one submission.
func CalculationForm(n1, n2, n3, op string) url.Values {
	return url.Values{
		"number1":  {n1},
		"number2":  {n2},
		"number3":  {n3},
		"operator": {op},
	}
}

func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

// RedirectID asserts rr redirects to /?id=<n> and returns n.
func RedirectID(t testing.TB, rr *httptest.ResponseRecorder) uint {
	t.Helper()
	CheckResponseCode(t, http.StatusFound, rr.Code)

	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parsing Location header: %v", err)
	}
	if loc.Path != "/" {
		t.Fatalf("expected redirect to /, got %q", loc.String())
	}

	id, err := strconv.ParseUint(loc.Query().Get("id"), 10, 64)
	if err != nil {
		t.Fatalf("expected numeric id in redirect %q: %v", loc.String(), err)
	}
	return uint(id)
}

func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
}
