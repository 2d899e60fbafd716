package observability

import (
	"context"

	"github.com/google/uuid"
)

type correlationIDKey struct{}

func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFromContext returns the request's correlation id,
// generating one when the context carries none.
func CorrelationIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok || id == "" {
		return uuid.NewString()
	}
	return id
}
