package middlewares

// gin context keys for the identity attached by the auth middleware.
const (
	CtxUserID = "auth.userID"
	CtxEmail  = "auth.email"
	CtxClaims = "auth.claims"
)
