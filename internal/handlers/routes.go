package handlers

import (
	"github.com/gin-gonic/gin"

	"messaging-service/internal/models"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Conversations *ConversationHandler
	Channels      *ChannelHandler
	Messages      *MessageHandler
	Preferences   *PreferenceHandler
}

// RegisterRoutes mounts every messaging endpoint on r. Callers attach
// authentication to r beforehand.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	conv := r.Group("/conversations")
	conv.POST("", h.Conversations.StartConversation)
	conv.GET("", h.Conversations.ListConversations)
	conv.GET("/:id", h.Conversations.GetConversation)
	conv.GET("/:id/messages", h.Conversations.ListMessages)
	conv.POST("/:id/messages", h.Conversations.PostMessage)
	conv.POST("/:id/read", h.Conversations.MarkRead)
	conv.GET("/:id/unread", h.Conversations.Unread)
	registerPreferences(conv, h.Preferences, models.ScopeConversation)

	ch := r.Group("/channels")
	ch.POST("", h.Channels.CreateChannel)
	ch.GET("", h.Channels.ListChannels)
	ch.GET("/:id", h.Channels.GetChannel)
	ch.PATCH("/:id", h.Channels.UpdateChannel)
	ch.DELETE("/:id", h.Channels.ArchiveChannel)
	ch.POST("/:id/join", h.Channels.Join)
	ch.POST("/:id/leave", h.Channels.Leave)
	ch.POST("/:id/members", h.Channels.AddMember)
	ch.PATCH("/:id/members/:user_id", h.Channels.UpdateMemberRole)
	ch.DELETE("/:id/members/:user_id", h.Channels.RemoveMember)
	ch.POST("/:id/transfer", h.Channels.TransferOwnership)
	ch.GET("/:id/messages", h.Channels.ListMessages)
	ch.POST("/:id/messages", h.Channels.PostMessage)
	ch.POST("/:id/read", h.Channels.MarkRead)
	ch.GET("/:id/unread", h.Channels.Unread)
	registerPreferences(ch, h.Preferences, models.ScopeChannel)

	msg := r.Group("/messages")
	msg.PATCH("/:id", h.Messages.Edit)
	msg.DELETE("/:id", h.Messages.Delete)
	msg.POST("/:id/pin", h.Messages.Pin)
	msg.DELETE("/:id/pin", h.Messages.Unpin)
	msg.GET("/:id/reactions", h.Messages.ListReactions)
	msg.POST("/:id/reactions", h.Messages.AddReaction)
	msg.POST("/:id/reactions/toggle", h.Messages.ToggleReaction)
	msg.DELETE("/:id/reactions/:emoji", h.Messages.RemoveReaction)
	msg.POST("/:id/favorite", h.Messages.ToggleFavorite)
	msg.POST("/:id/read-later", h.Messages.ToggleReadLater)
	msg.POST("/:id/read", h.Messages.MarkRead)

	r.GET("/favorites", h.Messages.ListFavorites)
}

func registerPreferences(g *gin.RouterGroup, h *PreferenceHandler, kind models.ScopeKind) {
	g.POST("/:id/pin", h.TogglePin(kind))
	g.POST("/:id/mute", h.ToggleMute(kind))
	g.PUT("/:id/hidden", h.SetHidden(kind))
	g.POST("/:id/read-later", h.MarkReadLater(kind))
	g.DELETE("/:id/read-later", h.UnmarkReadLater(kind))
	g.POST("/:id/open", h.Open(kind))
	g.GET("/:id/pinned", h.ListPinned(kind))
}
