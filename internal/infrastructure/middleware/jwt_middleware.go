// Package middleware holds gin middleware shared across routes.
package middleware

import (
	"net/http"
	"strings"

	"openbook_server/pkg/errorx"
	"openbook_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is where JWTAuth stores the authenticated user id.
const ContextUserKey = "user_id"

// JWTAuth rejects requests without a valid bearer token and stores the
// authenticated user id in the request context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(ContextUserKey, claims.UserID)
		c.Next()
	}
}

// UserId reads the authenticated user id set by JWTAuth.
func UserId(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	// Browsers cannot set headers on websocket handshakes; those pass
	// the token as a query parameter instead.
	return c.Query("token")
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    errorx.CodeUnauthorized,
		"message": msg,
	})
}
