package models

import "time"

// Favorite bookmarks a message for a user.
type Favorite struct {
	UserID    int       `db:"user_id" json:"user_id"`
	MessageID int       `db:"message_id" json:"message_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FavoriteChange reports which way a favorite toggle went.
type FavoriteChange struct {
	Added   bool `json:"added"`
	Removed bool `json:"removed"`
}

// ToggleFavorite flips the favorite state of msg for a user who currently
// has (exists) or has not favorited it.
func ToggleFavorite(msg *Message, exists bool) (FavoriteChange, error) {
	if err := msg.EnsureMutable(); err != nil {
		return FavoriteChange{}, err
	}
	if exists {
		return FavoriteChange{Removed: true}, nil
	}
	return FavoriteChange{Added: true}, nil
}

// ReadReceipt records that a user read a channel message.
type ReadReceipt struct {
	MessageID int       `db:"message_id" json:"message_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ReadAt    time.Time `db:"read_at" json:"read_at"`
}

// ReadLaterState is the read-later state of one user in one scope.
type ReadLaterState struct {
	Scope           Scope `json:"scope"`
	MarkedReadLater bool  `json:"marked_read_later"`
	MessageID       *int  `json:"message_id,omitempty"`
}

// ReadLaterStateOf projects preferences into a ReadLaterState.
func ReadLaterStateOf(scope Scope, p Preferences) ReadLaterState {
	return ReadLaterState{Scope: scope, MarkedReadLater: p.MarkedReadLater, MessageID: p.LastReadLaterMessageID}
}
