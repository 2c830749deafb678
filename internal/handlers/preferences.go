package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"messaging-service/internal/models"
)

// PreferenceService is the part of the messaging service used by PreferenceHandler.
type PreferenceService interface {
	TogglePin(ctx context.Context, userID int, scope models.Scope) (models.Preferences, error)
	ToggleMute(ctx context.Context, userID int, scope models.Scope) (models.Preferences, error)
	SetHidden(ctx context.Context, userID int, scope models.Scope, hidden bool) (models.Preferences, error)
	MarkAsReadLater(ctx context.Context, userID int, scope models.Scope) (models.ReadLaterState, error)
	UnmarkAsReadLater(ctx context.Context, userID int, scope models.Scope) (models.ReadLaterState, error)
	UnmarkOnOpen(ctx context.Context, userID int, scope models.Scope) (models.ReadLaterState, error)
	ListPinnedMessages(ctx context.Context, userID int, scope models.Scope) ([]models.Message, error)
}

// PreferenceHandler serves the per-user preference endpoints shared by
// conversations and channels. Each method returns the handler for one
// scope kind.
type PreferenceHandler struct {
	svc PreferenceService
	log *zap.Logger
}

// NewPreferenceHandler builds a PreferenceHandler.
func NewPreferenceHandler(svc PreferenceService, log *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{svc: svc, log: log}
}

func (h *PreferenceHandler) scope(c *gin.Context, kind models.ScopeKind) (models.Scope, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return models.Scope{}, false
	}
	return models.Scope{Kind: kind, ID: id}, true
}

// TogglePin handles POST /{kind}/:id/pin.
func (h *PreferenceHandler) TogglePin(kind models.ScopeKind) gin.HandlerFunc {
	return h.preferences(kind, h.svc.TogglePin)
}

// ToggleMute handles POST /{kind}/:id/mute.
func (h *PreferenceHandler) ToggleMute(kind models.ScopeKind) gin.HandlerFunc {
	return h.preferences(kind, h.svc.ToggleMute)
}

// SetHidden handles PUT /{kind}/:id/hidden.
func (h *PreferenceHandler) SetHidden(kind models.ScopeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := h.scope(c, kind)
		if !ok {
			return
		}
		var req struct {
			Hidden *bool `json:"hidden" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		prefs, err := h.svc.SetHidden(c.Request.Context(), c.GetInt("userID"), scope, *req.Hidden)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"preferences": prefs})
	}
}

// MarkReadLater handles POST /{kind}/:id/read-later.
func (h *PreferenceHandler) MarkReadLater(kind models.ScopeKind) gin.HandlerFunc {
	return h.readLater(kind, h.svc.MarkAsReadLater)
}

// UnmarkReadLater handles DELETE /{kind}/:id/read-later.
func (h *PreferenceHandler) UnmarkReadLater(kind models.ScopeKind) gin.HandlerFunc {
	return h.readLater(kind, h.svc.UnmarkAsReadLater)
}

// Open handles POST /{kind}/:id/open.
func (h *PreferenceHandler) Open(kind models.ScopeKind) gin.HandlerFunc {
	return h.readLater(kind, h.svc.UnmarkOnOpen)
}

// ListPinned handles GET /{kind}/:id/pinned.
func (h *PreferenceHandler) ListPinned(kind models.ScopeKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := h.scope(c, kind)
		if !ok {
			return
		}
		msgs, err := h.svc.ListPinnedMessages(c.Request.Context(), c.GetInt("userID"), scope)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	}
}

func (h *PreferenceHandler) preferences(kind models.ScopeKind, apply func(context.Context, int, models.Scope) (models.Preferences, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := h.scope(c, kind)
		if !ok {
			return
		}
		prefs, err := apply(c.Request.Context(), c.GetInt("userID"), scope)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"preferences": prefs})
	}
}

func (h *PreferenceHandler) readLater(kind models.ScopeKind, apply func(context.Context, int, models.Scope) (models.ReadLaterState, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := h.scope(c, kind)
		if !ok {
			return
		}
		state, err := apply(c.Request.Context(), c.GetInt("userID"), scope)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, state)
	}
}
