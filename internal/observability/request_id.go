package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

func NewRequestID() string {
	return uuid.New().String()
}

// RequestIDFromHeader returns v normalised when it is a UUID, otherwise a
// fresh id. Upstream ids are only trusted when well-formed.
func RequestIDFromHeader(v string) string {
	if v == "" {
		return NewRequestID()
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return NewRequestID()
	}
	return id.String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
