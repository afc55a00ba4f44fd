package apiclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

type ctxKey int

const (
	tokenKey ctxKey = iota
	requestIDKey
)

// WithToken attaches the caller's bearer token. Every request made with the
// returned context is sent as that staff member.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFrom returns the bearer token attached by WithToken.
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey).(string)
	return s
}

// TokenScope derives a stable, non-reversible id from the caller's token,
// or "" when there is none. Caches partition by it when tokens cannot be
// verified locally, so a cached read is only served to a token whose own
// upstream call produced it.
func TokenScope(ctx context.Context) string {
	token := TokenFrom(ctx)
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

// WithRequestID attaches the console request id so upstream logs can be correlated.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the id attached by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}
