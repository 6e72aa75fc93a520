package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/gopherchat/internal/auth"
	"github.com/suPer8Hu/gopherchat/internal/config"
)

// Context keys for the resolved identity. Read-only for handlers.
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
)

// AuthRequired verifies the session cookie and attaches the identity to the
// request context. It validates the token only — downstream handlers must
// re-check that the user still exists. Invalid and expired cookies are
// cleared so a dead client session heals itself.
func AuthRequired(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.CookieName)
		if err != nil || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token Not Received"})
			return
		}

		claims, err := auth.ParseToken(token, cfg.JWTSecret)
		if err != nil {
			http.SetCookie(c.Writer, auth.ClearCookie(cfg.CookieName, cfg.CookieSecure))
			msg := "Token Invalid"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Token Expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}
