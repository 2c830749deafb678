package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxEmojiLength = 64

// Reaction is one user's emoji on a message.
type Reaction struct {
	ID        int       `db:"id" json:"id"`
	MessageID int       `db:"message_id" json:"message_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Emoji     string    `db:"emoji" json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReactionOutcome names the transition a toggle produced.
type ReactionOutcome string

const (
	ReactionAdded    ReactionOutcome = "added"
	ReactionRemoved  ReactionOutcome = "removed"
	ReactionReplaced ReactionOutcome = "replaced"
)

// ReactionChange is the plan a reaction command hands to persistence:
// remove Remove (if set), then insert Add (if set).
type ReactionChange struct {
	Outcome ReactionOutcome `json:"outcome"`
	Add     *Reaction       `json:"added,omitempty"`
	Remove  *Reaction       `json:"removed,omitempty"`
}

func (c ReactionChange) Added() bool    { return c.Outcome == ReactionAdded }
func (c ReactionChange) Removed() bool  { return c.Outcome == ReactionRemoved }
func (c ReactionChange) Replaced() bool { return c.Outcome == ReactionReplaced }

func normalizeEmoji(emoji string) (string, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return "", Validationf("emoji is required")
	}
	if utf8.RuneCountInString(emoji) > maxEmojiLength {
		return "", Validationf("emoji is too long")
	}
	return emoji, nil
}

// ToggleReaction decides what happens when userID toggles emoji on msg given
// the user's current reaction on it (nil when none).
func ToggleReaction(msg *Message, current *Reaction, userID int, emoji string, now time.Time) (ReactionChange, error) {
	emoji, err := normalizeEmoji(emoji)
	if err != nil {
		return ReactionChange{}, err
	}
	if err := msg.EnsureMutable(); err != nil {
		return ReactionChange{}, err
	}
	next := &Reaction{MessageID: msg.ID, UserID: userID, Emoji: emoji, CreatedAt: now}
	switch {
	case current == nil:
		return ReactionChange{Outcome: ReactionAdded, Add: next}, nil
	case current.Emoji == emoji:
		return ReactionChange{Outcome: ReactionRemoved, Remove: current}, nil
	default:
		return ReactionChange{Outcome: ReactionReplaced, Add: next, Remove: current}, nil
	}
}

// AddReaction is the non-toggling add. A user already holding any reaction on
// the message gets a conflict.
func AddReaction(msg *Message, current *Reaction, userID int, emoji string, now time.Time) (ReactionChange, error) {
	emoji, err := normalizeEmoji(emoji)
	if err != nil {
		return ReactionChange{}, err
	}
	if err := msg.EnsureMutable(); err != nil {
		return ReactionChange{}, err
	}
	if current != nil {
		if current.Emoji == emoji {
			return ReactionChange{}, Conflictf("reaction %s already exists", emoji)
		}
		return ReactionChange{}, Conflictf("user %d already reacted with %s", userID, current.Emoji)
	}
	return ReactionChange{
		Outcome: ReactionAdded,
		Add:     &Reaction{MessageID: msg.ID, UserID: userID, Emoji: emoji, CreatedAt: now},
	}, nil
}

// RemoveReaction is the non-toggling remove.
func RemoveReaction(msg *Message, current *Reaction, emoji string) (ReactionChange, error) {
	emoji, err := normalizeEmoji(emoji)
	if err != nil {
		return ReactionChange{}, err
	}
	if err := msg.EnsureMutable(); err != nil {
		return ReactionChange{}, err
	}
	if current == nil || current.Emoji != emoji {
		return ReactionChange{}, NotFoundf("reaction %s not found", emoji)
	}
	return ReactionChange{Outcome: ReactionRemoved, Remove: current}, nil
}
