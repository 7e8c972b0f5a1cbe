package pkglog

import "context"

type (
	correlationIDKey struct{}
	batchIDKey       struct{}
)

// WithCorrelationID tags ctx with the id of the request that started the work.
func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

// CorrelationID returns the request id stored in ctx, or "".
func CorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationIDKey{}).(string)
	return cid
}

// WithBatchID tags ctx with the batch being applied, so every record logged
// while processing it carries batch_id.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchIDKey{}, batchID)
}

func BatchID(ctx context.Context) string {
	id, _ := ctx.Value(batchIDKey{}).(string)
	return id
}
