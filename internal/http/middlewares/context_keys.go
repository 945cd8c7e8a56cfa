package middlewares

const (
	ctxIdentityKey = "auth.identity"
	ctxEmailKey    = "auth.email"
	ctxRoleKey     = "auth.role"
	ctxJTIKey      = "auth.jti"

	CtxRequestID = "request_id"
)
