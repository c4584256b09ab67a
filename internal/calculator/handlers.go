package calculator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"calcform/internal/calculation"
	"calcform/internal/observability"
	"calcform/internal/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator form and the read-only history API.
type Handler struct {
	repo store.Repository
}

func NewHandler(repo store.Repository) *Handler {
	return &Handler{repo: repo}
}

// ---------------------------------------------------------------------------
// Form
// ---------------------------------------------------------------------------

// Index handles GET /. With ?id=<n> naming a stored record the form is
// prefilled from it and the row is highlighted; an unknown or malformed id
// falls back to a blank form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	selected, err := h.lookupSelected(ctx, r.URL.Query())
	if err != nil {
		h.serverError(ctx, w, trace.SpanFromContext(ctx), "index", "failed to load selected calculation", err)
		return
	}

	form := formView{}
	if selected != nil {
		form.Values = calculation.RawFromInput(selected.Input())
	}

	h.render(ctx, w, http.StatusOK, form, selected)
}

// Submit handles POST /: validates the form, computes ((n1 op n2) op n3),
// stores the record and redirects to /?id=<new id>. Invalid input re-renders
// the form with inline errors and status 200.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// --- 1. Custom child span ---
	ctx, span := tracer.Start(ctx, "calculator.submit",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	// --- 2. Decode form body ---
	if err := r.ParseForm(); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "submit", "invalid form body", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	raw := calculation.RawInput{
		Number1:  r.PostForm.Get(calculation.FieldNumber1),
		Number2:  r.PostForm.Get(calculation.FieldNumber2),
		Number3:  r.PostForm.Get(calculation.FieldNumber3),
		Operator: r.PostForm.Get(calculation.FieldOperator),
	}

	selected, err := h.lookupSelected(ctx, r.URL.Query())
	if err != nil {
		h.serverError(ctx, w, span, "submit", "failed to load selected calculation", err)
		return
	}

	// --- 3. Validate ---
	in, err := calculation.Parse(raw)
	if err != nil {
		var verr *calculation.ValidationError
		if !errors.As(err, &verr) {
			h.serverError(ctx, w, span, "submit", "unexpected validation failure", err)
			return
		}
		h.reject(ctx, w, span, logger, raw, verr, selected, "validation")
		return
	}

	h.persist(ctx, w, r, span, raw, in, selected)
}

// persist computes a validated submission, persists it and redirects to the
// new record. Failures the validator cannot foresee are handled here.
func (h *Handler) persist(ctx context.Context, w http.ResponseWriter, r *http.Request, span trace.Span, raw calculation.RawInput, in calculation.Input, selected *calculation.Calculation) {
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	span.SetAttributes(
		attribute.String("calculator.operation", in.Operator.Name()),
		attribute.Float64("calculator.operand.1", in.Number1),
		attribute.Float64("calculator.operand.2", in.Number2),
		attribute.Float64("calculator.operand.3", in.Number3),
	)

	// --- 4. Compute (timed for histogram) ---
	start := time.Now()
	result, steps, err := calculation.Compute(in)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	switch {
	case errors.Is(err, calculation.ErrDivisionByZero):
		verr := &calculation.ValidationError{}
		verr.AddNonField(calculation.DivisionByZeroMessage)
		h.reject(ctx, w, span, logger, raw, verr, selected, "division_by_zero")
		return
	case errors.Is(err, calculation.ErrUndefinedResult):
		verr := &calculation.ValidationError{}
		verr.AddNonField(calculation.UndefinedResultMessage)
		h.reject(ctx, w, span, logger, raw, verr, selected, "undefined_result")
		return
	case err != nil:
		// Parse only lets through known operators, so this is a broken invariant.
		h.serverError(ctx, w, span, "submit", "calculation failed", err)
		return
	}

	for i, step := range steps {
		span.AddEvent("step.complete", trace.WithAttributes(
			attribute.Int("step", i),
			attribute.Float64("left", step.Left),
			attribute.Float64("right", step.Right),
			attribute.Float64("result", step.Result),
		))
	}

	// --- 5. Persist ---
	rec := calculation.New(in, result)
	id, err := h.repo.Insert(ctx, rec)
	if err != nil {
		h.serverError(ctx, w, span, "submit", "failed to store calculation", err)
		return
	}

	// --- 6. Record metrics ---
	attrs := metric.WithAttributes(attribute.String("operation", in.Operator.Name()))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	persistedCounter.Add(ctx, 1, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.SetAttributes(
		attribute.Float64("calculator.result", result),
		attribute.Int64("calculation.id", int64(id)),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculation stored",
		zap.Uint("id", id),
		zap.Stringer("calculation", rec),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	// Redirect so a refresh does not resubmit; the new row is highlighted.
	http.Redirect(w, r, "/?id="+strconv.FormatUint(uint64(id), 10), http.StatusFound)
}

// reject re-renders the form with the submitted values and errors. Nothing is
// persisted.
func (h *Handler) reject(ctx context.Context, w http.ResponseWriter, span trace.Span, logger *zap.Logger, raw calculation.RawInput, verr *calculation.ValidationError, selected *calculation.Calculation, reason string) {
	rejectedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))

	span.AddEvent("submission.rejected", trace.WithAttributes(
		attribute.String("reason", reason),
	))

	logger.Info("submission rejected",
		zap.String("reason", reason),
		zap.Error(verr),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	h.render(ctx, w, http.StatusOK, formView{Values: raw, Errors: verr}, selected)
}

// lookupSelected resolves the ?id= query parameter. Missing, malformed and
// unknown ids all yield nil without error.
func (h *Handler) lookupSelected(ctx context.Context, q url.Values) (*calculation.Calculation, error) {
	raw := q.Get("id")
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, nil
	}

	c, err := h.repo.Get(ctx, uint(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// render executes the page template with the recent list, buffering so a
// template or storage error never produces a half-written page.
func (h *Handler) render(ctx context.Context, w http.ResponseWriter, status int, form formView, selected *calculation.Calculation) {
	recent, err := h.repo.ListRecent(ctx, store.RecentLimit)
	if err != nil {
		h.serverError(ctx, w, trace.SpanFromContext(ctx), "render", "failed to list recent calculations", err)
		return
	}

	data := pageData{
		Form:      form,
		Operators: calculation.Choices,
		Recent:    recent,
		Selected:  selected,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.serverError(ctx, w, trace.SpanFromContext(ctx), "render", "failed to render page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *Handler) serverError(ctx context.Context, w http.ResponseWriter, span trace.Span, opName, msg string, err error) {
	observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), errorCounter, opName, msg, err)
	http.Error(w, fmt.Sprintf("%s (request %s)", http.StatusText(http.StatusInternalServerError), observability.RequestIDFromContext(ctx)), http.StatusInternalServerError)
}
