package rest

import "context"

type contextKey string

const (
	contextKeyRequestID contextKey = "requestID"
	contextKeyUserID    contextKey = "userID"
	contextKeyImageKey  contextKey = "imageKey"
)

// RequestIDFromContext returns the id assigned to the current request.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyRequestID).(string)
	return v
}

// UserIDFromContext returns the authenticated caller, if any.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyUserID).(string)
	return v
}

// uploadedImageKey returns the key of the image stored for this request.
func uploadedImageKey(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyImageKey).(string)
	return v
}
