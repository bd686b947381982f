package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type CreateSubmissionRequest struct {
	TemplateID  string            `json:"template_id"`
	SiteAddress string            `json:"site_address"`
	Answers     datatypes.JSONMap `json:"answers"`
}

type Service interface {
	Create(ctx context.Context, orgID, userID snowflake.ID, req CreateSubmissionRequest) (*Submission, error)
	Get(ctx context.Context, orgID, id snowflake.ID) (*Submission, error)
	List(ctx context.Context, orgID snowflake.ID) ([]SubmissionListItem, error)

	// Complete transitions a draft to completed and stamps SubmittedAt.
	// Only the original submitter may complete it.
	Complete(ctx context.Context, orgID, userID, id snowflake.ID) (*Submission, error)

	// RenderPDF returns the submission report as PDF bytes.
	RenderPDF(ctx context.Context, orgID, id snowflake.ID) ([]byte, error)
}
