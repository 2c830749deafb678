package models

// Event names pushed to clients after a command commits.
const (
	EventConversationCreated = "conversation.created"
	EventConversationRead    = "conversation.read"
	EventMessageCreated      = "message.created"
	EventMessageEdited       = "message.edited"
	EventMessageDeleted      = "message.deleted"
	EventMessagePinned       = "message.pinned"
	EventMessageUnpinned     = "message.unpinned"
	EventMessageRead         = "message.read"
	EventReactionAdded       = "reaction.added"
	EventReactionRemoved     = "reaction.removed"
	EventReactionReplaced    = "reaction.replaced"
	EventFavoriteAdded       = "favorite.added"
	EventFavoriteRemoved     = "favorite.removed"
	EventReadLaterChanged    = "read_later.changed"
	EventPreferencesChanged  = "preferences.changed"
	EventChannelCreated      = "channel.created"
	EventChannelUpdated      = "channel.updated"
	EventChannelArchived     = "channel.archived"
	EventChannelRead         = "channel.read"
	EventMemberAdded         = "channel.member_added"
	EventMemberRemoved       = "channel.member_removed"
	EventMemberRoleChanged   = "channel.member_role_changed"
	EventOwnershipTransfer   = "channel.ownership_transferred"
)

// Event is the envelope delivered to clients.
type Event struct {
	Type    string `json:"type"`
	Scope   *Scope `json:"scope,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// ReactionEventName maps a reaction outcome to its event name.
func ReactionEventName(o ReactionOutcome) string {
	switch o {
	case ReactionRemoved:
		return EventReactionRemoved
	case ReactionReplaced:
		return EventReactionReplaced
	}
	return EventReactionAdded
}
