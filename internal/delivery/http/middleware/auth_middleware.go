package middleware

import (
	"net/http"
	"strings"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/auth"
	"agroskills-platform/pkg/security"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// 1. Authorization header
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		} else if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
			// 2. auth_token cookie
			tokenString = cookie
		}

		if tokenString == "" {
			rejectUnauthorized(c, "missing token", "Authorization header or auth_token cookie required")
			return
		}

		claims, err := tokens.Parse(tokenString, auth.KindAccess)
		if err != nil {
			rejectUnauthorized(c, "invalid token", "Invalid or expired token")
			return
		}

		role := claims.Role
		if role == "" {
			role = domain.RoleCandidate
		}

		c.Set(string(domain.KeyUserID), claims.Subject)
		c.Set(string(domain.KeyUserEmail), claims.Email)
		c.Set(string(domain.KeyUserRole), role)

		c.Next()
	}
}

// RequireRole rejects callers whose role is not in roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(string(domain.KeyUserRole))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "Access denied", nil)
		c.Abort()
	}
}

func rejectUnauthorized(c *gin.Context, reason, message string) {
	security.DefaultLogger().LogUnauthorized(
		c.Request.Context(),
		c.ClientIP(),
		c.GetString("RequestID"),
		c.FullPath(),
		reason,
	)
	response.Error(c, http.StatusUnauthorized, message, nil)
	c.Abort()
}
