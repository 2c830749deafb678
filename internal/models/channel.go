package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ChannelType is public or private.
type ChannelType string

const (
	ChannelPublic  ChannelType = "public"
	ChannelPrivate ChannelType = "private"
)

// Role is a member's role inside a channel.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

const (
	MaxChannelNameLength        = 100
	MaxChannelDescriptionLength = 1000
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember
}

func (r Role) rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

// AtLeast reports whether r is the same as or above min.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

// Member is a user's membership in a channel.
type Member struct {
	UserID   int       `db:"user_id" json:"user_id"`
	Role     Role      `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
	Preferences
}

// Channel is a multi-member messaging space.
type Channel struct {
	ID          int         `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	Type        ChannelType `db:"type" json:"type"`
	CreatorID   int         `db:"creator_id" json:"creator_id"`
	IsArchived  bool        `db:"is_archived" json:"is_archived"`
	ArchivedAt  *time.Time  `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`

	Members []Member `db:"-" json:"members,omitempty"`
}

// NewChannel creates a channel whose creator is its single Owner.
func NewChannel(creatorID int, name, description string, typ ChannelType, now time.Time) (Channel, error) {
	if creatorID <= 0 {
		return Channel{}, Validationf("creator id is required")
	}
	if typ == "" {
		typ = ChannelPublic
	}
	if typ != ChannelPublic && typ != ChannelPrivate {
		return Channel{}, Validationf("unknown channel type %q", typ)
	}
	ch := Channel{
		Type:      typ,
		CreatorID: creatorID,
		CreatedAt: now,
		Members:   []Member{{UserID: creatorID, Role: RoleOwner, JoinedAt: now}},
	}
	if err := ch.Rename(name, description); err != nil {
		return Channel{}, err
	}
	return ch, nil
}

// Rename updates name and description.
func (c *Channel) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Validationf("channel name is required")
	}
	if utf8.RuneCountInString(name) > MaxChannelNameLength {
		return Validationf("channel name exceeds %d characters", MaxChannelNameLength)
	}
	if utf8.RuneCountInString(description) > MaxChannelDescriptionLength {
		return Validationf("channel description exceeds %d characters", MaxChannelDescriptionLength)
	}
	c.Name = name
	c.Description = description
	return nil
}

// EnsureActive fails on archived channels.
func (c *Channel) EnsureActive() error {
	if c.IsArchived {
		return ErrChannelArchived
	}
	return nil
}

// Archive is the channel's delete. Archiving twice is a conflict.
func (c *Channel) Archive(now time.Time) error {
	if c.IsArchived {
		return Conflictf("channel %d is already archived", c.ID)
	}
	c.IsArchived = true
	c.ArchivedAt = &now
	return nil
}

// Member looks up a member by user id.
func (c *Channel) Member(userID int) (*Member, bool) {
	for i := range c.Members {
		if c.Members[i].UserID == userID {
			return &c.Members[i], true
		}
	}
	return nil, false
}

// IsMember reports membership.
func (c *Channel) IsMember(userID int) bool {
	_, ok := c.Member(userID)
	return ok
}

// MemberIDs lists member user ids in membership order.
func (c *Channel) MemberIDs() []int {
	ids := make([]int, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// Owner returns the current owner.
func (c *Channel) Owner() (Member, bool) {
	for _, m := range c.Members {
		if m.Role == RoleOwner {
			return m, true
		}
	}
	return Member{}, false
}

// RequireRole fails unless userID is a member holding at least min.
func (c *Channel) RequireRole(userID int, min Role) (*Member, error) {
	m, ok := c.Member(userID)
	if !ok {
		return nil, ErrNotParticipant
	}
	if !m.Role.AtLeast(min) {
		return nil, Forbiddenf("requires %s role", min)
	}
	return m, nil
}

// AddMember adds userID with role. Private channels only accept Admin
// members here. Owner is never assignable; ownership moves only through
// TransferOwnership.
func (c *Channel) AddMember(userID int, role Role, now time.Time) (Member, error) {
	if userID <= 0 {
		return Member{}, Validationf("user id is required")
	}
	if role == "" {
		role = RoleMember
	}
	if !role.Valid() {
		return Member{}, Validationf("unknown role %q", role)
	}
	if err := c.EnsureActive(); err != nil {
		return Member{}, err
	}
	if c.IsMember(userID) {
		return Member{}, Conflictf("user %d is already a member of channel %d", userID, c.ID)
	}
	if role == RoleOwner {
		return Member{}, InvalidStatef("ownership can only be transferred")
	}
	if c.Type == ChannelPrivate && !role.AtLeast(RoleAdmin) {
		return Member{}, InvalidStatef("private channels only accept admin members")
	}
	m := Member{UserID: userID, Role: role, JoinedAt: now}
	c.Members = append(c.Members, m)
	return m, nil
}

// RemoveMember removes a non-owner member.
func (c *Channel) RemoveMember(userID int) error {
	for i, m := range c.Members {
		if m.UserID != userID {
			continue
		}
		if m.Role == RoleOwner {
			return InvalidStatef("the channel owner cannot be removed")
		}
		c.Members = append(c.Members[:i], c.Members[i+1:]...)
		return nil
	}
	return NotFoundf("user %d is not a member of channel %d", userID, c.ID)
}

// UpdateMemberRole changes a non-owner member to a non-owner role. It
// reports whether the role changed.
func (c *Channel) UpdateMemberRole(userID int, role Role) (bool, error) {
	if !role.Valid() {
		return false, Validationf("unknown role %q", role)
	}
	m, ok := c.Member(userID)
	if !ok {
		return false, NotFoundf("user %d is not a member of channel %d", userID, c.ID)
	}
	if m.Role == RoleOwner {
		return false, InvalidStatef("the owner's role changes only through ownership transfer")
	}
	if role == RoleOwner {
		return false, InvalidStatef("ownership can only be transferred")
	}
	if m.Role == role {
		return false, nil
	}
	m.Role = role
	return true, nil
}

// TransferOwnership demotes currentOwnerID to Admin and promotes newOwnerID
// to Owner. Both must already be members.
func (c *Channel) TransferOwnership(currentOwnerID, newOwnerID int) error {
	current, ok := c.Member(currentOwnerID)
	if !ok {
		return ErrNotParticipant
	}
	if current.Role != RoleOwner {
		return Forbiddenf("only the owner can transfer ownership")
	}
	if currentOwnerID == newOwnerID {
		return InvalidStatef("user %d already owns channel %d", newOwnerID, c.ID)
	}
	next, ok := c.Member(newOwnerID)
	if !ok {
		return NotFoundf("user %d is not a member of channel %d", newOwnerID, c.ID)
	}
	current.Role = RoleAdmin
	next.Role = RoleOwner
	return nil
}

// Leave removes userID on their own request. Owners have to transfer first.
func (c *Channel) Leave(userID int) error {
	m, ok := c.Member(userID)
	if !ok {
		return ErrNotParticipant
	}
	if m.Role == RoleOwner {
		return InvalidStatef("the owner must transfer ownership before leaving")
	}
	return c.RemoveMember(userID)
}

// Join adds userID as a plain member of a public channel.
func (c *Channel) Join(userID int, now time.Time) (Member, error) {
	if c.Type != ChannelPublic {
		return Member{}, Forbiddenf("channel %d is private", c.ID)
	}
	return c.AddMember(userID, RoleMember, now)
}
