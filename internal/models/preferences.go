package models

import "fmt"

// ScopeKind tells which kind of messaging space a scope points at.
type ScopeKind string

const (
	ScopeConversation ScopeKind = "conversation"
	ScopeChannel      ScopeKind = "channel"
)

// Scope identifies a conversation or a channel.
type Scope struct {
	Kind ScopeKind `json:"kind"`
	ID   int       `json:"id"`
}

// ConversationScope returns the scope of a direct conversation.
func ConversationScope(id int) Scope { return Scope{Kind: ScopeConversation, ID: id} }

// ChannelScope returns the scope of a channel.
func ChannelScope(id int) Scope { return Scope{Kind: ScopeChannel, ID: id} }

func (s Scope) String() string { return fmt.Sprintf("%s:%d", s.Kind, s.ID) }

// Validate rejects unknown kinds and empty ids.
func (s Scope) Validate() error {
	if s.Kind != ScopeConversation && s.Kind != ScopeChannel {
		return Validationf("unknown scope kind %q", s.Kind)
	}
	if s.ID <= 0 {
		return Validationf("missing %s id", s.Kind)
	}
	return nil
}

// Preferences holds the per-user flags attached to a conversation participant
// or a channel member. Both share this shape and the same storage columns.
type Preferences struct {
	Pinned                 bool `db:"is_pinned" json:"is_pinned"`
	Muted                  bool `db:"is_muted" json:"is_muted"`
	Hidden                 bool `db:"is_hidden" json:"is_hidden"`
	MarkedReadLater        bool `db:"marked_read_later" json:"marked_read_later"`
	LastReadLaterMessageID *int `db:"last_read_later_message_id" json:"last_read_later_message_id,omitempty"`
}

// TogglePin flips the pinned flag and returns the new value.
func (p *Preferences) TogglePin() bool {
	p.Pinned = !p.Pinned
	return p.Pinned
}

// ToggleMute flips the muted flag and returns the new value.
func (p *Preferences) ToggleMute() bool {
	p.Muted = !p.Muted
	return p.Muted
}

// SetHidden reports whether the value changed.
func (p *Preferences) SetHidden(hidden bool) bool {
	if p.Hidden == hidden {
		return false
	}
	p.Hidden = hidden
	return true
}

// ToggleMessageAsLater clears the mark when it already points at messageID,
// otherwise moves it there. It returns true when the message ends up marked.
func (p *Preferences) ToggleMessageAsLater(messageID int) bool {
	if p.LastReadLaterMessageID != nil && *p.LastReadLaterMessageID == messageID {
		p.LastReadLaterMessageID = nil
		return false
	}
	id := messageID
	p.LastReadLaterMessageID = &id
	return true
}

// MarkReadLater sets the scope-level flag. The message-level mark is untouched.
func (p *Preferences) MarkReadLater() bool {
	changed := !p.MarkedReadLater
	p.MarkedReadLater = true
	return changed
}

// UnmarkReadLater clears the scope-level flag. The message-level mark is untouched.
func (p *Preferences) UnmarkReadLater() bool {
	changed := p.MarkedReadLater
	p.MarkedReadLater = false
	return changed
}

// ClearReadLater clears both the scope-level flag and the message mark.
func (p *Preferences) ClearReadLater() bool {
	changed := p.MarkedReadLater || p.LastReadLaterMessageID != nil
	p.MarkedReadLater = false
	p.LastReadLaterMessageID = nil
	return changed
}
