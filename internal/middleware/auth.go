package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stackit-dev/stackit/backend/internal/auth"
)

// CookieName is the HTTP-only cookie that carries the session token.
const CookieName = "jwt_token"

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// AuthMiddleware rejects requests without a valid token. The cookie wins over
// an Authorization: Bearer header when both are present.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		userID, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// UserID returns the id stored by AuthMiddleware.
func UserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(int)
	return id, ok && id > 0
}
