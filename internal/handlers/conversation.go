package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"messaging-service/internal/models"
	"messaging-service/internal/services"
)

// ConversationService is the part of the messaging service used by
// ConversationHandler.
type ConversationService interface {
	GetOrCreateConversation(ctx context.Context, userID, otherID int) (models.ConversationSummary, bool, error)
	ListConversations(ctx context.Context, userID int) ([]models.ConversationSummary, error)
	GetConversation(ctx context.Context, userID, conversationID int) (models.ConversationSummary, error)
	SendDirectMessage(ctx context.Context, senderID, conversationID int, draft models.MessageDraft) (models.Message, error)
	ListMessages(ctx context.Context, userID int, scope models.Scope, page models.Page) ([]models.Message, error)
	MarkAllAsRead(ctx context.Context, userID, conversationID int) (services.ReadResult, error)
	ConversationUnread(ctx context.Context, userID, conversationID int) (int, error)
}

// ConversationHandler manages direct conversation endpoints.
type ConversationHandler struct {
	svc ConversationService
	log *zap.Logger
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(svc ConversationService, log *zap.Logger) *ConversationHandler {
	return &ConversationHandler{svc: svc, log: log}
}

// StartConversation handles POST /conversations.
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	var req struct {
		UserID int `json:"user_id" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, created, err := h.svc.GetOrCreateConversation(c.Request.Context(), c.GetInt("userID"), req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"conversation": conv})
}

// ListConversations handles GET /conversations.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	list, err := h.svc.ListConversations(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if list == nil {
		list = []models.ConversationSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"conversations": list})
}

// GetConversation handles GET /conversations/:id.
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	conv, err := h.svc.GetConversation(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

// ListMessages handles GET /conversations/:id/messages.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}
	msgs, err := h.svc.ListMessages(c.Request.Context(), c.GetInt("userID"), models.ConversationScope(id), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// PostMessage handles POST /conversations/:id/messages.
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.svc.SendDirectMessage(c.Request.Context(), c.GetInt("userID"), id, req.draft())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// MarkRead handles POST /conversations/:id/read.
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.MarkAllAsRead(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Unread handles GET /conversations/:id/unread.
func (h *ConversationHandler) Unread(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	count, err := h.svc.ConversationUnread(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
