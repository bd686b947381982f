package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

type OrganizationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type OrganizationListItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

type OrganizationListResponse struct {
	Organizations []OrganizationListItem `json:"organizations"`
	ActiveOrgID   string                 `json:"active_org_id,omitempty"`
}

type MemberResponse struct {
	MembershipID string            `json:"membership_id"`
	UserID       string            `json:"user_id"`
	Email        string            `json:"email"`
	DisplayName  string            `json:"display_name"`
	Role         string            `json:"role"`
	Permissions  datatypes.JSONMap `json:"permissions,omitempty"`
	JoinedAt     time.Time         `json:"joined_at"`
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UpdateMemberRequest struct {
	Role        *string           `json:"role,omitempty"`
	Permissions datatypes.JSONMap `json:"permissions,omitempty"`
}

type TransferOwnershipRequest struct {
	MembershipID string `json:"membership_id"`
	Confirm      string `json:"confirm"`
}

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateOrganizationRequest) (*OrganizationResponse, error)

	// ListWithActive returns the caller's (organization, role) pairs and the
	// resolved active organization. A stale stored active-org reference is
	// replaced by the earliest membership and persisted.
	ListWithActive(ctx context.Context, userID snowflake.ID) (*OrganizationListResponse, error)

	// ResolveActiveOrg resolves and, if needed, repairs the caller's active
	// organization. Returns 0 when the caller has no memberships at all.
	ResolveActiveOrg(ctx context.Context, userID snowflake.ID) (snowflake.ID, error)

	SwitchActive(ctx context.Context, userID snowflake.ID, orgID snowflake.ID) error
	Delete(ctx context.Context, userID snowflake.ID, orgID snowflake.ID) error
	TransferOwnership(ctx context.Context, userID snowflake.ID, orgID snowflake.ID, req TransferOwnershipRequest) error

	ListMembers(ctx context.Context, orgID snowflake.ID) ([]MemberResponse, error)
	AddMember(ctx context.Context, callerID snowflake.ID, orgID snowflake.ID, req AddMemberRequest) (*MemberResponse, error)
	UpdateMember(ctx context.Context, callerID snowflake.ID, orgID snowflake.ID, membershipID snowflake.ID, req UpdateMemberRequest) error
	RemoveMember(ctx context.Context, callerID snowflake.ID, orgID snowflake.ID, membershipID snowflake.ID) error

	// RoleFor returns the caller's role in orgID, or ErrNotMember.
	RoleFor(ctx context.Context, orgID snowflake.ID, userID snowflake.ID) (string, error)
}
