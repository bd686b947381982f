package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// SubmissionListItem joins a submission with its template title and the
// submitter's display name for list views.
type SubmissionListItem struct {
	Submission
	TemplateTitle string `json:"template_title"`
	SubmitterName string `json:"submitter_name"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, sub Submission) error
	Get(ctx context.Context, orgID, id snowflake.ID) (*Submission, error)
	ListByOrg(ctx context.Context, orgID snowflake.ID) ([]SubmissionListItem, error)
	Update(ctx context.Context, sub *Submission) error

	// GetReport loads the submission joined with its org, template and
	// submitter rows for PDF rendering.
	GetReport(ctx context.Context, orgID, id snowflake.ID) (*Report, error)
}
