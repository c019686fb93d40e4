package pkglog

import "context"

type chainIDContextKey struct{}

const invalidChainID = "[invalid_chain_id]"

// GetCorrelationID returns the correlation ID stored in the context.
//
// The application sets one per run so every record of that run can be
// grouped, including records written by worker goroutines.
func GetCorrelationID(ctx context.Context) string {
	clm, ok := ctx.Value(chainIDContextKey{}).(string)
	if !ok {
		return invalidChainID
	}
	return clm
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, chainIDContextKey{}, cid)
}
