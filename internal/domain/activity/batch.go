package activity

import "context"

type batchKey struct{}

// WithBatch tags every entry logged under ctx with a shared batch ID, so a
// bulk operator action can be traced back as one unit.
func WithBatch(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchKey{}, batchID)
}

// BatchFromContext returns the batch ID set by WithBatch, if any.
func BatchFromContext(ctx context.Context) string {
	id, _ := ctx.Value(batchKey{}).(string)
	return id
}
