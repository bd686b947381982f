package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type CreateTemplateRequest struct {
	Title  string         `json:"title"`
	Trade  string         `json:"trade"`
	Fields datatypes.JSON `json:"fields"`
}

// UpdateTemplateRequest carries partial updates. Nil pointers leave the
// corresponding column untouched; any change to Fields bumps Version.
type UpdateTemplateRequest struct {
	Title  *string         `json:"title"`
	Trade  *string         `json:"trade"`
	Fields *datatypes.JSON `json:"fields"`
	Active *bool           `json:"active"`
}

type Service interface {
	Create(ctx context.Context, orgID, userID snowflake.ID, req CreateTemplateRequest) (*Template, error)
	Get(ctx context.Context, orgID, id snowflake.ID) (*Template, error)
	List(ctx context.Context, orgID snowflake.ID) ([]Template, error)
	Update(ctx context.Context, orgID, userID, id snowflake.ID, req UpdateTemplateRequest) (*Template, error)
	Delete(ctx context.Context, orgID, userID, id snowflake.ID) error
}
