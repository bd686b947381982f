// Package domain contains persistence models for the organization service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// MaxMembershipsPerUser caps how many organizations a user may belong to.
const MaxMembershipsPerUser = 3

// TransferConfirmation is the literal a caller must echo back before an
// ownership transfer is executed.
const TransferConfirmation = "TRANSFER"

// Organization represents a tenant.
type Organization struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_name" json:"name"`
	Slug      string       `gorm:"type:text;not null" json:"slug"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Organization) TableName() string { return "organizations" }

// Membership represents a user's role within an organization.
// Permissions is an open bag of per-member overrides; authorization
// decisions only ever consult Role.
type Membership struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_org_user,priority:1" json:"org_id"`
	UserID      snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_org_user,priority:2" json:"user_id"`
	Role        string            `gorm:"type:text;not null" json:"role"`
	Permissions datatypes.JSONMap `gorm:"type:jsonb" json:"permissions,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Membership) TableName() string { return "organization_members" }

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}
