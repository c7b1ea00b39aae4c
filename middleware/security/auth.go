package security

import (
	"net/http"
	"strings"

	"Projease/tools/errs"
	sec "Projease/tools/security"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware for downstream handlers.
const (
	CtxUserIDKey = "authUserId" // string
	CtxTokenKey  = "authToken"  // string
)

type Options struct {
	JWT sec.Options
	// HeaderToken is the fallback header when no Authorization: Bearer
	// is present. Default "authorization".
	HeaderToken string
}

func DefaultOptions(jwt sec.Options) *Options {
	return &Options{JWT: jwt, HeaderToken: "authorization"}
}

// Middleware verifies the caller's bearer token and stores the subject
// into the request context. Token issuance lives elsewhere; this layer
// only verifies.
func Middleware(opts *Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))
		if token == "" {
			token = strings.TrimSpace(c.GetHeader("Authorization"))
		}
		// Accept both "Bearer <token>" and the bare token.
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[len("bearer "):])
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": errs.ErrTokenInvalid.EMsg(),
			})
			return
		}

		claims, err := sec.Verify(opts.JWT, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": errs.ErrTokenInvalid.EMsg(),
			})
			return
		}

		c.Set(CtxTokenKey, token)
		c.Set(CtxUserIDKey, claims.UserID())
		c.Next()
	}
}
