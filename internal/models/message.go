package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentLength is the content limit in characters.
const MaxContentLength = 4000

// Message is a direct or channel message. Exactly one of ConversationID and
// ChannelID is set.
type Message struct {
	ID               int        `db:"id" json:"id"`
	ConversationID   *int       `db:"conversation_id" json:"conversation_id,omitempty"`
	ChannelID        *int       `db:"channel_id" json:"channel_id,omitempty"`
	SenderID         int        `db:"sender_id" json:"sender_id"`
	ReceiverID       *int       `db:"receiver_id" json:"receiver_id,omitempty"`
	Content          string     `db:"content" json:"content"`
	FileURL          string     `db:"file_url" json:"file_url,omitempty"`
	ReplyToMessageID *int       `db:"reply_to_message_id" json:"reply_to_message_id,omitempty"`
	IsForwarded      bool       `db:"is_forwarded" json:"is_forwarded"`
	IsEdited         bool       `db:"is_edited" json:"is_edited"`
	EditedAt         *time.Time `db:"edited_at" json:"edited_at,omitempty"`
	IsDeleted        bool       `db:"is_deleted" json:"-"`
	DeletedAt        *time.Time `db:"deleted_at" json:"-"`
	IsPinned         bool       `db:"is_pinned" json:"is_pinned"`
	PinnedAt         *time.Time `db:"pinned_at" json:"pinned_at,omitempty"`
	PinnedBy         *int       `db:"pinned_by" json:"pinned_by,omitempty"`
	IsRead           bool       `db:"is_read" json:"is_read"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// MessageDraft carries the caller-supplied parts of a new message.
type MessageDraft struct {
	SenderID         int
	Content          string
	FileURL          string
	ReplyToMessageID *int
	IsForwarded      bool
}

func (d MessageDraft) validate() error {
	if d.SenderID <= 0 {
		return Validationf("sender id is required")
	}
	if strings.TrimSpace(d.Content) == "" && strings.TrimSpace(d.FileURL) == "" {
		return Validationf("message needs content or a file")
	}
	if utf8.RuneCountInString(d.Content) > MaxContentLength {
		return Validationf("content exceeds %d characters", MaxContentLength)
	}
	return nil
}

// NewDirectMessage builds a message inside a direct conversation.
func NewDirectMessage(conversationID, receiverID int, d MessageDraft, now time.Time) (Message, error) {
	if err := d.validate(); err != nil {
		return Message{}, err
	}
	if conversationID <= 0 || receiverID <= 0 {
		return Message{}, Validationf("conversation and receiver are required")
	}
	conv, recv := conversationID, receiverID
	return Message{
		ConversationID:   &conv,
		SenderID:         d.SenderID,
		ReceiverID:       &recv,
		Content:          d.Content,
		FileURL:          d.FileURL,
		ReplyToMessageID: d.ReplyToMessageID,
		IsForwarded:      d.IsForwarded,
		CreatedAt:        now,
	}, nil
}

// NewChannelMessage builds a message inside a channel.
func NewChannelMessage(channelID int, d MessageDraft, now time.Time) (Message, error) {
	if err := d.validate(); err != nil {
		return Message{}, err
	}
	if channelID <= 0 {
		return Message{}, Validationf("channel is required")
	}
	ch := channelID
	return Message{
		ChannelID:        &ch,
		SenderID:         d.SenderID,
		Content:          d.Content,
		FileURL:          d.FileURL,
		ReplyToMessageID: d.ReplyToMessageID,
		IsForwarded:      d.IsForwarded,
		CreatedAt:        now,
	}, nil
}

// Scope returns the conversation or channel the message lives in.
func (m *Message) Scope() Scope {
	if m.ChannelID != nil {
		return ChannelScope(*m.ChannelID)
	}
	if m.ConversationID != nil {
		return ConversationScope(*m.ConversationID)
	}
	return Scope{}
}

// IsDirect reports whether the message belongs to a direct conversation.
func (m *Message) IsDirect() bool { return m.ConversationID != nil }

// EnsureMutable fails for deleted messages.
func (m *Message) EnsureMutable() error {
	if m.IsDeleted {
		return ErrMessageDeleted
	}
	return nil
}

// Edit replaces the content. Identical content is a successful no-op and
// leaves IsEdited and EditedAt alone; the returned bool reports a change.
func (m *Message) Edit(content string, now time.Time) (bool, error) {
	if err := m.EnsureMutable(); err != nil {
		return false, err
	}
	if strings.TrimSpace(content) == "" {
		return false, Validationf("content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return false, Validationf("content exceeds %d characters", MaxContentLength)
	}
	if content == m.Content {
		return false, nil
	}
	m.Content = content
	m.IsEdited = true
	m.EditedAt = &now
	return true, nil
}

// Delete soft-deletes the message. Deleting twice changes nothing.
func (m *Message) Delete(now time.Time) bool {
	if m.IsDeleted {
		return false
	}
	m.IsDeleted = true
	m.DeletedAt = &now
	return true
}

// Pin pins the message. Pinning a pinned message is a conflict.
func (m *Message) Pin(by int, now time.Time) error {
	if err := m.EnsureMutable(); err != nil {
		return err
	}
	if m.IsPinned {
		return Conflictf("message %d is already pinned", m.ID)
	}
	m.IsPinned = true
	m.PinnedAt = &now
	m.PinnedBy = &by
	return nil
}

// Unpin unpins the message. Unpinning an unpinned message is a conflict.
func (m *Message) Unpin() error {
	if err := m.EnsureMutable(); err != nil {
		return err
	}
	if !m.IsPinned {
		return Conflictf("message %d is not pinned", m.ID)
	}
	m.IsPinned = false
	m.PinnedAt = nil
	m.PinnedBy = nil
	return nil
}

// MarkAsRead sets IsRead on a direct message once.
func (m *Message) MarkAsRead() bool {
	if m.IsRead {
		return false
	}
	m.IsRead = true
	return true
}

// VisibleMessages drops deleted messages from a read projection.
func VisibleMessages(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if !m.IsDeleted {
			out = append(out, m)
		}
	}
	return out
}
