// README: Bearer-token auth middleware over the token verifier.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"swiftride/internal/infra"
)

const (
	ctxKeyUID  = "auth_uid"
	ctxKeyRole = "auth_role"

	RoleUser   = "user"
	RoleDriver = "driver"
	RoleAdmin  = "admin"
)

// Auth verifies the Authorization bearer token and stashes the caller's uid
// and role claim on the request context. Requests without a valid token never
// reach a handler.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "missing or malformed authorization header")
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}
		c.Set(ctxKeyUID, token.UID)
		c.Set(ctxKeyRole, roleFromClaims(token.Claims))
		c.Next()
	}
}

// RequireRole rejects callers whose role claim does not match.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "forbidden for this role",
			})
			return
		}
		c.Next()
	}
}

func CallerUID(c *gin.Context) string {
	return c.GetString(ctxKeyUID)
}

func CallerRole(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}

func roleFromClaims(claims map[string]interface{}) string {
	if role, ok := claims["role"].(string); ok && role != "" {
		return role
	}
	return RoleUser
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": msg,
	})
}
