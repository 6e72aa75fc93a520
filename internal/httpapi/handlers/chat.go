package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type newMessageReq struct {
	Message string `json:"message"`
}

// NewMessage appends a turn pair and returns the full updated transcript.
// Gateway trouble is absorbed by the service's fallback path, so once the
// user resolves this only fails on a store fault.
func (h *Handler) NewMessage(c *gin.Context) {
	var req newMessageReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		fail(c, http.StatusBadRequest, "Message is required")
		return
	}

	u, ok := h.resolveUser(c)
	if !ok {
		return
	}

	turns, err := h.Chat.SendMessage(c.Request.Context(), u.ID, req.Message)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("chat exchange failed")
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": turns})
}

func (h *Handler) AllChats(c *gin.Context) {
	u, ok := h.resolveUser(c)
	if !ok {
		return
	}

	turns, err := h.Chat.History(c.Request.Context(), u.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("transcript load failed")
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OK", "chats": turns})
}

func (h *Handler) DeleteChats(c *gin.Context) {
	u, ok := h.resolveUser(c)
	if !ok {
		return
	}

	if err := h.Chat.Clear(c.Request.Context(), u.ID); err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("transcript clear failed")
		fail(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
