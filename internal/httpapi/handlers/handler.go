package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/suPer8Hu/gopherchat/internal/auth"
	"github.com/suPer8Hu/gopherchat/internal/chat"
	"github.com/suPer8Hu/gopherchat/internal/config"
	"github.com/suPer8Hu/gopherchat/internal/httpapi/middleware"
	"github.com/suPer8Hu/gopherchat/internal/models"
	"github.com/suPer8Hu/gopherchat/internal/users"
)

type Handler struct {
	Cfg   config.Config
	Users *users.Service
	Chat  *chat.Service
}

func NewHandler(cfg config.Config, userSvc *users.Service, chatSvc *chat.Service) *Handler {
	return &Handler{Cfg: cfg, Users: userSvc, Chat: chatSvc}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	// overwrite any previous session before setting the fresh one
	http.SetCookie(c.Writer, auth.ClearCookie(h.Cfg.CookieName, h.Cfg.CookieSecure))
	http.SetCookie(c.Writer, auth.SessionCookie(h.Cfg.CookieName, token, h.Cfg.TokenTTL, h.Cfg.CookieSecure))
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, auth.ClearCookie(h.Cfg.CookieName, h.Cfg.CookieSecure))
}

// resolveUser re-checks that the identity the middleware attached still
// exists. A valid token for a vanished user is an authentication failure,
// and the stale cookie is cleared on the way out.
func (h *Handler) resolveUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		fail(c, http.StatusUnauthorized, "Token Not Received")
		return nil, false
	}
	uid, ok := v.(uint64)
	if !ok {
		fail(c, http.StatusUnauthorized, "Token Not Received")
		return nil, false
	}

	u, err := h.Users.GetByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			h.clearSessionCookie(c)
			fail(c, http.StatusUnauthorized, "User not registered OR Token malfunctioned")
			return nil, false
		}
		log.Error().Err(err).Uint64("user_id", uid).Msg("user lookup failed")
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return nil, false
	}
	return u, true
}
