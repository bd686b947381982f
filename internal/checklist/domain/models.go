// Package domain contains persistence models for the checklist service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var (
	ErrTemplateNotFound = errors.New("template_not_found")
	ErrTitleRequired    = errors.New("title_required")
	ErrFieldsRequired   = errors.New("fields_required")
)

// Template is a per-organization checklist form definition. Fields holds the
// ordered sections and items as submitted by the form builder; the server
// treats it as opaque JSON.
type Template struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID   `gorm:"not null;index" json:"org_id"`
	Title     string         `gorm:"type:text;not null" json:"title"`
	Trade     string         `gorm:"type:text" json:"trade"`
	Version   int            `gorm:"not null;default:1" json:"version"`
	Fields    datatypes.JSON `gorm:"type:jsonb" json:"fields"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	CreatedBy snowflake.ID   `gorm:"not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Template) TableName() string { return "checklist_templates" }
