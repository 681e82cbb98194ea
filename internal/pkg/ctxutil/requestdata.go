package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries per-request identity supplied by the auth boundary.
// UserID comes from the verified token and is trusted as-is downstream.
type RequestData struct {
	TokenString string
	UserID      int
	IsAdmin     bool
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey{})
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}
