package repository

import (
	"context"
	"errors"

	"github.com/Kon-404/tracilo/internal/submission/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sub domain.Submission) error {
	return r.db.WithContext(ctx).Create(&sub).Error
}

func (r *repository) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Submission, error) {
	var sub domain.Submission
	err := r.db.WithContext(ctx).
		First(&sub, "id = ? AND org_id = ?", id, orgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) ListByOrg(ctx context.Context, orgID snowflake.ID) ([]domain.SubmissionListItem, error) {
	var items []domain.SubmissionListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT s.*, t.title AS template_title, u.display_name AS submitter_name
		 FROM submissions s
		 JOIN checklist_templates t ON t.id = s.template_id
		 JOIN users u ON u.id = s.submitter_id
		 WHERE s.org_id = ?
		 ORDER BY s.created_at DESC`,
		orgID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, sub *domain.Submission) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *repository) GetReport(ctx context.Context, orgID, id snowflake.ID) (*domain.Report, error) {
	sub, err := r.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	var row struct {
		OrgName       string
		TemplateTitle string
		Trade         string
		SubmitterName string
	}
	err = r.db.WithContext(ctx).Raw(
		`SELECT o.name AS org_name, t.title AS template_title, t.trade AS trade,
		        u.display_name AS submitter_name
		 FROM submissions s
		 JOIN organizations o ON o.id = s.org_id
		 JOIN checklist_templates t ON t.id = s.template_id
		 JOIN users u ON u.id = s.submitter_id
		 WHERE s.id = ?`,
		id,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &domain.Report{
		OrgName:       row.OrgName,
		TemplateTitle: row.TemplateTitle,
		Trade:         row.Trade,
		SiteAddress:   sub.SiteAddress,
		SubmitterName: row.SubmitterName,
		Status:        sub.Status,
		SubmittedAt:   sub.SubmittedAt,
		Answers:       sub.Answers,
	}, nil
}
