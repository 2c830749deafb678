package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"messaging-service/internal/models"
	"messaging-service/internal/services"
	"messaging-service/internal/telemetry"
)

// ChannelService is the part of the messaging service used by ChannelHandler.
type ChannelService interface {
	CreateChannel(ctx context.Context, creatorID int, in services.ChannelInput) (models.Channel, error)
	ListChannels(ctx context.Context, userID int) ([]models.Channel, error)
	GetChannel(ctx context.Context, userID, channelID int) (models.Channel, error)
	UpdateChannel(ctx context.Context, actorID, channelID int, name, description string) (models.Channel, error)
	ArchiveChannel(ctx context.Context, actorID, channelID int) (models.Channel, error)
	JoinChannel(ctx context.Context, userID, channelID int) (models.Channel, error)
	LeaveChannel(ctx context.Context, userID, channelID int) error
	AddMember(ctx context.Context, actorID, channelID, targetID int, role models.Role) (models.Member, error)
	RemoveMember(ctx context.Context, actorID, channelID, targetID int) error
	UpdateMemberRole(ctx context.Context, actorID, channelID, targetID int, role models.Role) (models.Member, error)
	TransferOwnership(ctx context.Context, actorID, channelID, newOwnerID int) (models.Channel, error)
	SendChannelMessage(ctx context.Context, senderID, channelID int, draft models.MessageDraft) (models.Message, error)
	ListMessages(ctx context.Context, userID int, scope models.Scope, page models.Page) ([]models.Message, error)
	MarkChannelAsRead(ctx context.Context, userID, channelID int) (int64, error)
	ChannelUnread(ctx context.Context, userID, channelID int) (int, error)
}

// ChannelHandler manages channel endpoints. Administrative commands are audited.
type ChannelHandler struct {
	svc   ChannelService
	audit *telemetry.AuditEmitter
	log   *zap.Logger
}

// NewChannelHandler constructs a ChannelHandler.
func NewChannelHandler(svc ChannelService, audit *telemetry.AuditEmitter, log *zap.Logger) *ChannelHandler {
	return &ChannelHandler{svc: svc, audit: audit, log: log}
}

// CreateChannel handles POST /channels.
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var req struct {
		Name        string             `json:"name" binding:"required"`
		Description string             `json:"description"`
		Type        models.ChannelType `json:"type" binding:"omitempty,oneof=public private"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.svc.CreateChannel(c.Request.Context(), c.GetInt("userID"), services.ChannelInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		h.fail(c, "channel.create", err, nil)
		return
	}
	emitAudit(c, h.audit, "INFO", "channel.create", "Channel created", map[string]any{"channel_id": ch.ID})
	c.JSON(http.StatusCreated, gin.H{"channel": ch})
}

// ListChannels handles GET /channels.
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	list, err := h.svc.ListChannels(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if list == nil {
		list = []models.Channel{}
	}
	c.JSON(http.StatusOK, gin.H{"channels": list})
}

// GetChannel handles GET /channels/:id.
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ch, err := h.svc.GetChannel(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": ch})
}

// UpdateChannel handles PATCH /channels/:id.
func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]any{"channel_id": id}
	ch, err := h.svc.UpdateChannel(c.Request.Context(), c.GetInt("userID"), id, req.Name, req.Description)
	if err != nil {
		h.fail(c, "channel.update", err, fields)
		return
	}
	emitAudit(c, h.audit, "INFO", "channel.update", "Channel updated", fields)
	c.JSON(http.StatusOK, gin.H{"channel": ch})
}

// ArchiveChannel handles DELETE /channels/:id.
func (h *ChannelHandler) ArchiveChannel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	fields := map[string]any{"channel_id": id}
	ch, err := h.svc.ArchiveChannel(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		h.fail(c, "channel.archive", err, fields)
		return
	}
	emitAudit(c, h.audit, "INFO", "channel.archive", "Channel archived", fields)
	c.JSON(http.StatusOK, gin.H{"channel": ch})
}

// Join handles POST /channels/:id/join.
func (h *ChannelHandler) Join(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ch, err := h.svc.JoinChannel(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": ch})
}

// Leave handles POST /channels/:id/leave.
func (h *ChannelHandler) Leave(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.LeaveChannel(c.Request.Context(), c.GetInt("userID"), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddMember handles POST /channels/:id/members.
func (h *ChannelHandler) AddMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		UserID int         `json:"user_id" binding:"required,gt=0"`
		Role   models.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]any{"channel_id": id, "target_user_id": req.UserID, "role": req.Role}
	m, err := h.svc.AddMember(c.Request.Context(), c.GetInt("userID"), id, req.UserID, req.Role)
	if err != nil {
		h.fail(c, "channel.member_add", err, fields)
		return
	}
	emitAudit(c, h.audit, "INFO", "channel.member_add", "Channel member added", fields)
	c.JSON(http.StatusCreated, gin.H{"member": m})
}

// RemoveMember handles DELETE /channels/:id/members/:user_id.
func (h *ChannelHandler) RemoveMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	target, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	fields := map[string]any{"channel_id": id, "target_user_id": target}
	if err := h.svc.RemoveMember(c.Request.Context(), c.GetInt("userID"), id, target); err != nil {
		h.fail(c, "channel.member_remove", err, fields)
		return
	}
	emitAudit(c, h.audit, "INFO", "channel.member_remove", "Channel member removed", fields)
	c.Status(http.StatusNoContent)
}

// UpdateMemberRole handles PATCH /channels/:id/members/:user_id.
func (h *ChannelHandler) UpdateMemberRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	target, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	var req struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]any{"channel_id": id, "target_user_id": target, "role": req.Role}
	m, err := h.svc.UpdateMemberRole(c.Request.Context(), c.GetInt("userID"), id, target, req.Role)
	if err != nil {
		h.fail(c, "channel.member_role", err, fields)
		return
	}
	emitAudit(c, h.audit, "INFO", "channel.member_role", "Channel member role updated", fields)
	c.JSON(http.StatusOK, gin.H{"member": m})
}

// TransferOwnership handles POST /channels/:id/transfer.
func (h *ChannelHandler) TransferOwnership(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		UserID int `json:"user_id" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]any{"channel_id": id, "new_owner_id": req.UserID}
	ch, err := h.svc.TransferOwnership(c.Request.Context(), c.GetInt("userID"), id, req.UserID)
	if err != nil {
		h.fail(c, "channel.transfer", err, fields)
		return
	}
	emitAudit(c, h.audit, "INFO", "channel.transfer", "Channel ownership transferred", fields)
	c.JSON(http.StatusOK, gin.H{"channel": ch})
}

// ListMessages handles GET /channels/:id/messages.
func (h *ChannelHandler) ListMessages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}
	msgs, err := h.svc.ListMessages(c.Request.Context(), c.GetInt("userID"), models.ChannelScope(id), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// PostMessage handles POST /channels/:id/messages.
func (h *ChannelHandler) PostMessage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.svc.SendChannelMessage(c.Request.Context(), c.GetInt("userID"), id, req.draft())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// MarkRead handles POST /channels/:id/read.
func (h *ChannelHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	marked, err := h.svc.MarkChannelAsRead(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": marked})
}

// Unread handles GET /channels/:id/unread.
func (h *ChannelHandler) Unread(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	count, err := h.svc.ChannelUnread(c.Request.Context(), c.GetInt("userID"), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *ChannelHandler) fail(c *gin.Context, action string, err error, fields map[string]any) {
	text := "internal error"
	if models.KindOf(err) != "" {
		text = err.Error()
	}
	emitAudit(c, h.audit, "ERROR", action, text, fields)
	respondError(c, h.log, err)
}
