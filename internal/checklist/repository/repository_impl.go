package repository

import (
	"context"
	"errors"

	"github.com/Kon-404/tracilo/internal/checklist/domain"
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

func (r *repository) Create(ctx context.Context, tmpl domain.Template) error {
	return r.db.WithContext(ctx).Create(&tmpl).Error
}

func (r *repository) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Template, error) {
	var tmpl domain.Template
	err := r.db.WithContext(ctx).
		First(&tmpl, "id = ? AND org_id = ?", id, orgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return &tmpl, nil
}

func (r *repository) ListByOrg(ctx context.Context, orgID snowflake.ID) ([]domain.Template, error) {
	var templates []domain.Template
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repository) Update(ctx context.Context, tmpl *domain.Template) error {
	return r.db.WithContext(ctx).Save(tmpl).Error
}

func (r *repository) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Delete(&domain.Template{}, "id = ? AND org_id = ?", id, orgID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}
