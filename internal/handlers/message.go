package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"messaging-service/internal/models"
)

// MessageService is the part of the messaging service used by MessageHandler.
type MessageService interface {
	EditMessage(ctx context.Context, userID, messageID int, content string) (models.Message, error)
	DeleteMessage(ctx context.Context, userID, messageID int) error
	PinMessage(ctx context.Context, userID, messageID int) (models.Message, error)
	UnpinMessage(ctx context.Context, userID, messageID int) (models.Message, error)
	ToggleReaction(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error)
	AddReaction(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error)
	RemoveReaction(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error)
	ListReactions(ctx context.Context, userID, messageID int) ([]models.Reaction, error)
	ToggleFavorite(ctx context.Context, userID, messageID int) (models.FavoriteChange, error)
	ListFavorites(ctx context.Context, userID int, page models.Page) ([]models.Message, error)
	ToggleMessageAsLater(ctx context.Context, userID, messageID int) (models.ReadLaterState, error)
	MarkMessageRead(ctx context.Context, userID, messageID int) (bool, error)
}

// MessageHandler manages per-message endpoints.
type MessageHandler struct {
	svc MessageService
	log *zap.Logger
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(svc MessageService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, log: log}
}

type emojiRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// Edit handles PATCH /messages/:id.
func (h *MessageHandler) Edit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.svc.EditMessage(c.Request.Context(), c.GetInt("userID"), id, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Delete handles DELETE /messages/:id.
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteMessage(c.Request.Context(), c.GetInt("userID"), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Pin handles POST /messages/:id/pin.
func (h *MessageHandler) Pin(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	msg, err := h.svc.PinMessage(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Unpin handles DELETE /messages/:id/pin.
func (h *MessageHandler) Unpin(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	msg, err := h.svc.UnpinMessage(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// ToggleReaction handles POST /messages/:id/reactions/toggle.
func (h *MessageHandler) ToggleReaction(c *gin.Context) {
	h.reaction(c, h.svc.ToggleReaction, http.StatusOK)
}

// AddReaction handles POST /messages/:id/reactions.
func (h *MessageHandler) AddReaction(c *gin.Context) {
	h.reaction(c, h.svc.AddReaction, http.StatusCreated)
}

func (h *MessageHandler) reaction(c *gin.Context, apply func(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error), status int) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req emojiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	change, err := apply(c.Request.Context(), c.GetInt("userID"), id, req.Emoji)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(status, change)
}

// RemoveReaction handles DELETE /messages/:id/reactions/:emoji.
func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.svc.RemoveReaction(c.Request.Context(), c.GetInt("userID"), id, c.Param("emoji")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListReactions handles GET /messages/:id/reactions.
func (h *MessageHandler) ListReactions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListReactions(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if list == nil {
		list = []models.Reaction{}
	}
	c.JSON(http.StatusOK, gin.H{"reactions": list})
}

// ToggleFavorite handles POST /messages/:id/favorite.
func (h *MessageHandler) ToggleFavorite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	change, err := h.svc.ToggleFavorite(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, change)
}

// ListFavorites handles GET /favorites.
func (h *MessageHandler) ListFavorites(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	msgs, err := h.svc.ListFavorites(c.Request.Context(), c.GetInt("userID"), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// ToggleReadLater handles POST /messages/:id/read-later.
func (h *MessageHandler) ToggleReadLater(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	state, err := h.svc.ToggleMessageAsLater(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// MarkRead handles POST /messages/:id/read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	changed, err := h.svc.MarkMessageRead(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}
