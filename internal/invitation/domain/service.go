package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Caller is the authenticated subject acting on an invite. Recipient checks
// compare the invite's email with Caller.Email case-insensitively.
type Caller struct {
	UserID      snowflake.ID
	Email       string
	DisplayName string
}

type CreateInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type InviteView struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	OrgName   string    `json:"org_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInviteResponse reports email delivery separately from invite
// creation; a failed send never rolls the invite back.
type CreateInviteResponse struct {
	Invite    InviteView `json:"invite"`
	EmailSent bool       `json:"email_sent"`
}

type InviteLookupResponse struct {
	ID          string    `json:"id"`
	OrgName     string    `json:"org_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	InviterName string    `json:"inviter_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AcceptInviteResponse struct {
	OrgID string `json:"org_id"`
	Role  string `json:"role"`
}

type Service interface {
	Create(ctx context.Context, caller Caller, orgID snowflake.ID, req CreateInviteRequest) (*CreateInviteResponse, error)

	// LookupByToken serves the unauthenticated invite landing page.
	LookupByToken(ctx context.Context, token string) (*InviteLookupResponse, error)

	Accept(ctx context.Context, caller Caller, inviteID snowflake.ID) (*AcceptInviteResponse, error)
	Decline(ctx context.Context, caller Caller, inviteID snowflake.ID) error

	// ListForCaller returns non-expired invites addressed to the caller's
	// email, most recent first.
	ListForCaller(ctx context.Context, caller Caller) ([]InviteView, error)
}
