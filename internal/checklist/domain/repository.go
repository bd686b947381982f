package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, tmpl Template) error
	// Get scopes the lookup to orgID so a template is never visible outside
	// its organization.
	Get(ctx context.Context, orgID, id snowflake.ID) (*Template, error)
	ListByOrg(ctx context.Context, orgID snowflake.ID) ([]Template, error)
	Update(ctx context.Context, tmpl *Template) error
	Delete(ctx context.Context, orgID, id snowflake.ID) error
}
