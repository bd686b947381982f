package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Kon-404/tracilo/internal/invitation/domain"
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

func (r *repository) Create(ctx context.Context, invite domain.Invite) error {
	return r.db.WithContext(ctx).Create(&invite).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).First(&invite, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *repository) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).First(&invite, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *repository) FindActive(ctx context.Context, orgID snowflake.ID, email string, now time.Time) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND lower(email) = ? AND expires_at > ?", orgID, strings.ToLower(email), now).
		First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *repository) ListActiveByEmail(ctx context.Context, email string, now time.Time) ([]domain.InviteListItem, error) {
	var items []domain.InviteListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT i.*, o.name AS org_name
		 FROM organization_invites i
		 JOIN organizations o ON o.id = i.org_id
		 WHERE lower(i.email) = ? AND i.expires_at > ?
		 ORDER BY i.created_at DESC`,
		strings.ToLower(email), now,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Invite{}, "id = ?", id).Error
}

func (r *repository) GetUserDisplayName(ctx context.Context, userID snowflake.ID) (string, error) {
	var row struct {
		DisplayName string
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("display_name").
		Where("id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return "", err
	}
	return row.DisplayName, nil
}
