package service

import "context"

type operationKey struct{}

// WithOperation tags ctx with the AI operation name ("summary",
// "cover_letter", ...) so gateway decorators can label what they observe.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

func OperationFrom(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey{}).(string); ok {
		return op
	}
	return "unknown"
}
