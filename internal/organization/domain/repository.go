package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MembershipListItem joins a membership with its organization row.
type MembershipListItem struct {
	OrgID    snowflake.ID
	OrgName  string
	OrgSlug  string
	Role     string
	JoinedAt time.Time
}

// MemberListItem joins a membership with its user row.
type MemberListItem struct {
	MembershipID snowflake.ID
	UserID       snowflake.ID
	Email        string
	DisplayName  string
	Role         string
	Permissions  datatypes.JSONMap
	JoinedAt     time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrganization(ctx context.Context, org Organization) error
	GetOrganizationByID(ctx context.Context, id snowflake.ID) (*Organization, error)

	AddMember(ctx context.Context, member Membership) error
	GetMembership(ctx context.Context, orgID, userID snowflake.ID) (*Membership, error)
	GetMembershipByID(ctx context.Context, id snowflake.ID) (*Membership, error)
	ListMembershipsByUser(ctx context.Context, userID snowflake.ID) ([]MembershipListItem, error)
	ListMembersByOrg(ctx context.Context, orgID snowflake.ID) ([]MemberListItem, error)
	CountMembershipsByUser(ctx context.Context, userID snowflake.ID) (int64, error)
	UpdateMemberRole(ctx context.Context, membershipID snowflake.ID, role string) error
	UpdateMemberPermissions(ctx context.Context, membershipID snowflake.ID, permissions datatypes.JSONMap) error
	DeleteMembership(ctx context.Context, membershipID snowflake.ID) error

	// DeleteOrganizationCascade removes the organization together with its
	// memberships, pending invites, checklist templates and submissions.
	DeleteOrganizationCascade(ctx context.Context, orgID snowflake.ID) error

	// FindUserIDByEmail resolves a registered user by (case-insensitive) email.
	FindUserIDByEmail(ctx context.Context, email string) (snowflake.ID, error)

	GetActiveOrgID(ctx context.Context, userID snowflake.ID) (*int64, error)
	SetActiveOrgID(ctx context.Context, userID snowflake.ID, orgID *int64) error
}
