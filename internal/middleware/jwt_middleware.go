package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// JWTMiddleware validates access tokens and exposes the caller's identity on
// the gin context.
type JWTMiddleware struct {
	accessSecret string
}

// NewJWTMiddleware constructs a JWTMiddleware.
func NewJWTMiddleware(accessSecret string) *JWTMiddleware {
	return &JWTMiddleware{accessSecret: accessSecret}
}

// Handle requires a valid Bearer access token.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], utils.TokenAccess, m.accessSecret)
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID.String())
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RequireAdmin allows only callers whose token carries the admin role. Must
// run after Handle.
func (m *JWTMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("user_role") != string(models.RoleAdmin) {
			utils.Error(c, 403, "FORBIDDEN", "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
