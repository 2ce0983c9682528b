package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Session carries the caller's identity for one upstream request. It is
// passed explicitly per call; nothing holds global token state.
type Session struct {
	UserID int
	Token  string
}

// Middleware validates the dashboard session JWT and stashes the resulting
// platform session on the request context.
func Middleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is empty"})
			c.Abort()
			return
		}

		claims, err := ValidateSessionToken(tokenString, jwtSecret)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			}
			c.Abort()
			return
		}

		c.Set("session", Session{
			UserID: claims.UserID,
			Token:  claims.PlatformToken,
		})

		c.Next()
	}
}

// GetSession returns the platform session set by Middleware.
func GetSession(c *gin.Context) (Session, bool) {
	v, exists := c.Get("session")
	if !exists {
		return Session{}, false
	}

	s, ok := v.(Session)
	if !ok {
		return Session{}, false
	}
	return s, true
}
