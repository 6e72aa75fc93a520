package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/suPer8Hu/gopherchat/internal/auth"
	"github.com/suPer8Hu/gopherchat/internal/users"
)

type signupReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "name, email and password are required")
		return
	}

	u, err := h.Users.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			fail(c, http.StatusConflict, "User already registered")
			return
		}
		log.Error().Err(err).Msg("signup failed")
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	token, err := auth.SignToken(u.ID, u.Email, h.Cfg.JWTSecret, h.Cfg.TokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("token signing failed")
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{"message": "OK", "name": u.Name, "email": u.Email})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotRegistered):
			fail(c, http.StatusUnauthorized, "User not registered")
		case errors.Is(err, users.ErrIncorrectPassword):
			fail(c, http.StatusForbidden, "Incorrect Password")
		default:
			log.Error().Err(err).Msg("login failed")
			fail(c, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	token, err := auth.SignToken(u.ID, u.Email, h.Cfg.JWTSecret, h.Cfg.TokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("token signing failed")
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{"message": "OK", "name": u.Name, "email": u.Email})
}

// AuthStatus re-resolves the user behind a verified token. Resolution is by
// ID only; an ID/email mismatch cannot occur with primary-key lookup.
func (h *Handler) AuthStatus(c *gin.Context) {
	u, ok := h.resolveUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK", "name": u.Name, "email": u.Email})
}

func (h *Handler) Logout(c *gin.Context) {
	// resolveUser clears the cookie itself on a dangling token, so clearing
	// stays best-effort even when the user is gone
	if _, ok := h.resolveUser(c); !ok {
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
