package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// InviteListItem joins an invite with its organization name.
type InviteListItem struct {
	Invite
	OrgName string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, invite Invite) error
	GetByID(ctx context.Context, id snowflake.ID) (*Invite, error)
	GetByToken(ctx context.Context, token string) (*Invite, error)
	// FindActive returns a non-expired invite for (email, org), if any.
	FindActive(ctx context.Context, orgID snowflake.ID, email string, now time.Time) (*Invite, error)
	ListActiveByEmail(ctx context.Context, email string, now time.Time) ([]InviteListItem, error)
	Delete(ctx context.Context, id snowflake.ID) error

	GetUserDisplayName(ctx context.Context, userID snowflake.ID) (string, error)
}
