package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/pkg/token"
)

// Request user values populated by BearerAuth for downstream handlers.
const (
	UserIDKey   = "auth_user_id"
	UsernameKey = "auth_username"
)

// BearerAuth validates the Authorization header against the token service
// and injects the resolved identity into the request's user values. Requests
// without a valid token never reach the protected handler.
func BearerAuth(tokens *token.Service, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			raw := extractToken(ctx)
			if raw == "" {
				unauthorized(ctx, "missing bearer token")
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				logger.Warn("rejected bearer token", zap.Error(err))
				unauthorized(ctx, "invalid or expired token")
				return
			}

			ctx.SetUserValue(UserIDKey, claims.UserID)
			ctx.SetUserValue(UsernameKey, claims.Subject)

			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.Set("WWW-Authenticate", "Bearer")
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBodyString(`{"code":"UNAUTHORIZED","message":"` + message + `"}`)
}
