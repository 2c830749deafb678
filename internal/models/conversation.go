package models

import "time"

// Conversation is a direct thread between two users, or a user's own notes.
type Conversation struct {
	ID          int       `db:"id" json:"id"`
	User1ID     int       `db:"user1_id" json:"user1_id"`
	User2ID     int       `db:"user2_id" json:"user2_id"`
	InitiatedBy int       `db:"initiated_by" json:"initiated_by"`
	IsNotes     bool      `db:"is_notes" json:"is_notes"`
	HasMessages bool      `db:"has_messages" json:"has_messages"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Participants holds per-user preferences keyed by user id.
	Participants map[int]*Preferences `db:"-" json:"-"`
}

// ConversationSummary is the listing view of a conversation for one user.
type ConversationSummary struct {
	ConversationID int       `db:"id" json:"conversation_id"`
	OtherUserID    int       `db:"other_user_id" json:"other_user_id"`
	IsNotes        bool      `db:"is_notes" json:"is_notes"`
	HasMessages    bool      `db:"has_messages" json:"has_messages"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	Preferences    `json:"preferences"`
}

// CanonicalPair orders two participant ids, smaller first.
func CanonicalPair(a, b int) (int, int) {
	if a <= b {
		return a, b
	}
	return b, a
}

// NewConversation builds a conversation started by initiator with other.
func NewConversation(initiator, other int, now time.Time) (Conversation, error) {
	if initiator <= 0 || other <= 0 {
		return Conversation{}, Validationf("participant ids are required")
	}
	if initiator == other {
		return NewNotesConversation(initiator, now)
	}
	u1, u2 := CanonicalPair(initiator, other)
	return Conversation{
		User1ID:     u1,
		User2ID:     u2,
		InitiatedBy: initiator,
		CreatedAt:   now,
		Participants: map[int]*Preferences{
			u1: {},
			u2: {},
		},
	}, nil
}

// NewNotesConversation builds the self conversation of owner. It is visible
// from the start.
func NewNotesConversation(owner int, now time.Time) (Conversation, error) {
	if owner <= 0 {
		return Conversation{}, Validationf("owner id is required")
	}
	return Conversation{
		User1ID:      owner,
		User2ID:      owner,
		InitiatedBy:  owner,
		IsNotes:      true,
		HasMessages:  true,
		CreatedAt:    now,
		Participants: map[int]*Preferences{owner: {}},
	}, nil
}

// IsParticipant reports whether userID belongs to the conversation.
func (c *Conversation) IsParticipant(userID int) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherUserID returns the counterpart of userID. Notes return userID itself.
func (c *Conversation) OtherUserID(userID int) (int, error) {
	switch userID {
	case c.User1ID:
		return c.User2ID, nil
	case c.User2ID:
		return c.User1ID, nil
	}
	return 0, ErrNotParticipant
}

// ParticipantIDs lists distinct participant ids.
func (c *Conversation) ParticipantIDs() []int {
	if c.User1ID == c.User2ID {
		return []int{c.User1ID}
	}
	return []int{c.User1ID, c.User2ID}
}

// VisibleTo applies the listing rule: a conversation shows up once it has
// messages, for its initiator, or when it is a notes conversation.
func (c *Conversation) VisibleTo(userID int) bool {
	if !c.IsParticipant(userID) {
		return false
	}
	return c.HasMessages || c.InitiatedBy == userID || c.IsNotes
}

// RecordMessage flips HasMessages on the first message. It reports whether
// the conversation changed.
func (c *Conversation) RecordMessage() bool {
	if c.HasMessages {
		return false
	}
	c.HasMessages = true
	return true
}

// PreferencesFor returns the preferences of a participant.
func (c *Conversation) PreferencesFor(userID int) (*Preferences, error) {
	if !c.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if c.Participants == nil {
		c.Participants = map[int]*Preferences{}
	}
	p, ok := c.Participants[userID]
	if !ok {
		p = &Preferences{}
		c.Participants[userID] = p
	}
	return p, nil
}

// SummaryFor projects the conversation as seen by userID.
func (c *Conversation) SummaryFor(userID int) (ConversationSummary, error) {
	other, err := c.OtherUserID(userID)
	if err != nil {
		return ConversationSummary{}, err
	}
	p, err := c.PreferencesFor(userID)
	if err != nil {
		return ConversationSummary{}, err
	}
	return ConversationSummary{
		ConversationID: c.ID,
		OtherUserID:    other,
		IsNotes:        c.IsNotes,
		HasMessages:    c.HasMessages,
		CreatedAt:      c.CreatedAt,
		Preferences:    *p,
	}, nil
}
