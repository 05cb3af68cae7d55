package middlewares

const (
	// gin context keys shared between middlewares and handlers
	CtxRequestID   = "request_id"
	CtxCurrentUser = "auth.current_user"
)
