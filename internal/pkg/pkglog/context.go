package pkglog

import "context"

type (
	correlationIDKey struct{}
	userIDKey        struct{}
)

const invalidCorrelationID = "[invalid_chain_id]"

// GetCorrelationID returns the correlation ID stored in the context.
//
// The correlation middleware sets this value early in the request lifecycle so
// it can be attached to logs and echoed back to the caller.
func GetCorrelationID(ctx context.Context) string {
	cid, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok {
		return invalidCorrelationID
	}
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

// GetUserID returns the authenticated user ID stored in the context, or "".
func GetUserID(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey{}).(string)
	return uid
}

// SetUserID stores the authenticated user ID so every later log line of the
// request carries it.
func SetUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey{}, uid)
}
