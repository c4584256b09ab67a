package calculator

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"calcform/internal/calculation"
	"calcform/internal/handlers"
	"calcform/internal/observability"
	"calcform/internal/store"
)

// MaxListLimit caps the limit parameter of the history API.
const MaxListLimit = 100

// ListCalculations handles GET /api/calculations. Query parameters:
// operator, limit, since and until (RFC 3339, since inclusive) and q, a
// number matched against the operands and the result.
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	f := store.Filter{Limit: store.RecentLimit}

	if v := q.Get("operator"); v != "" {
		op := calculation.Operator(v)
		if !op.Valid() {
			handlers.WriteError(w, http.StatusBadRequest, "unknown operator "+strconv.Quote(v))
			return
		}
		f.Operator = op
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxListLimit {
			handlers.WriteError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(MaxListLimit))
			return
		}
		f.Limit = n
	}

	for _, bound := range []struct {
		name string
		dst  *time.Time
	}{{"since", &f.Since}, {"until", &f.Until}} {
		v := q.Get(bound.name)
		if v == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			handlers.WriteError(w, http.StatusBadRequest, bound.name+" must be an RFC 3339 timestamp")
			return
		}
		*bound.dst = ts
	}

	if v := q.Get("q"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			handlers.WriteError(w, http.StatusBadRequest, "q must be a finite number")
			return
		}
		f.Number = &n
	}

	records, err := h.repo.List(ctx, f)
	if err != nil {
		observability.RecordError(ctx, trace.SpanFromContext(ctx), observability.LoggerWithTrace(ctx), errorCounter, "list", "failed to list calculations", err)
		handlers.WriteError(w, http.StatusInternalServerError, "failed to list calculations")
		return
	}

	resp := make([]RecordResponse, 0, len(records))
	for _, c := range records {
		resp = append(resp, newRecordResponse(c))
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// GetCalculation handles GET /api/calculations/{id}.
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "invalid calculation id")
		return
	}

	c, err := h.repo.Get(ctx, uint(id))
	if errors.Is(err, store.ErrNotFound) {
		handlers.WriteError(w, http.StatusNotFound, "calculation not found")
		return
	}
	if err != nil {
		observability.RecordError(ctx, trace.SpanFromContext(ctx), observability.LoggerWithTrace(ctx), errorCounter, "get", "failed to load calculation", err)
		handlers.WriteError(w, http.StatusInternalServerError, "failed to load calculation")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, newRecordResponse(*c))
}
