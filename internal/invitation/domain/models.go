// Package domain contains the pending-invite model and service contract.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// InviteTTL is how long an invite stays acceptable after creation.
const InviteTTL = 7 * 24 * time.Hour

var (
	ErrEmailRequired  = errors.New("email_required")
	ErrInviteNotFound = errors.New("invite_not_found")
	// ErrInviteExpired is returned on accept; the stale row is purged as a
	// side effect.
	ErrInviteExpired = errors.New("invite_expired")
	// ErrInviteGone is the lookup-by-token signal for an expired invite,
	// distinct from not-found.
	ErrInviteGone      = errors.New("invite_gone")
	ErrWrongRecipient  = errors.New("wrong_recipient")
	ErrDuplicateInvite = errors.New("duplicate_invite")
	ErrAlreadyMember   = errors.New("already_member")
	ErrInvalidRole     = errors.New("invalid_invite_role")
)

// Invite is a tokenized, expiring offer of membership addressed to an email
// address, independent of whether that address has an account yet.
type Invite struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"org_id"`
	Email     string       `gorm:"type:text;not null;index" json:"email"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	Token     string       `gorm:"type:text;not null;uniqueIndex:ux_org_invites_token" json:"-"`
	InvitedBy snowflake.ID `gorm:"column:invited_by;not null" json:"invited_by"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Invite) TableName() string { return "organization_invites" }
