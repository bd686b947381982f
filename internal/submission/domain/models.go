// Package domain contains persistence models for the submission service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
)

var (
	ErrSubmissionNotFound = errors.New("submission_not_found")
	ErrSiteRequired       = errors.New("site_address_required")
	ErrAlreadyCompleted   = errors.New("submission_already_completed")
	ErrNotSubmitter       = errors.New("not_submitter")
)

// Submission is a filled-in checklist for a site. Answers mirrors the
// template's field structure keyed by field id; the server stores it opaquely.
type Submission struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID      `gorm:"not null;index" json:"org_id"`
	TemplateID  snowflake.ID      `gorm:"not null;index" json:"template_id"`
	SubmitterID snowflake.ID      `gorm:"not null" json:"submitter_id"`
	SiteAddress string            `gorm:"type:text;not null" json:"site_address"`
	Answers     datatypes.JSONMap `gorm:"type:jsonb" json:"answers"`
	Status      string            `gorm:"type:text;not null;default:'draft'" json:"status"`
	SubmittedAt *time.Time        `json:"submitted_at,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Submission) TableName() string { return "submissions" }

// Report is everything the PDF renderer needs for one submission.
type Report struct {
	OrgName       string
	TemplateTitle string
	Trade         string
	SiteAddress   string
	SubmitterName string
	Status        string
	SubmittedAt   *time.Time
	Answers       datatypes.JSONMap
}
