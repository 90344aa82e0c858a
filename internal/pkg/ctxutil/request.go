package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData carries the caller identity handed over by the identity provider.
// The core treats UserID as an opaque identifier.
type RequestData struct {
	UserID uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the caller identity, or uuid.Nil when none was attached.
func UserID(ctx context.Context) uuid.UUID {
	rd := GetRequestData(ctx)
	if rd == nil {
		return uuid.Nil
	}
	return rd.UserID
}
