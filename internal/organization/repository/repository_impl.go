package repository

import (
	"context"
	"errors"

	"github.com/Kon-404/tracilo/internal/organization/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
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

func (r *repository) CreateOrganization(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Create(&org).Error
}

func (r *repository) GetOrganizationByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrgNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *repository) AddMember(ctx context.Context, member domain.Membership) error {
	return r.db.WithContext(ctx).Create(&member).Error
}

func (r *repository) GetMembership(ctx context.Context, orgID, userID snowflake.ID) (*domain.Membership, error) {
	var member domain.Membership
	err := r.db.WithContext(ctx).First(&member, "org_id = ? AND user_id = ?", orgID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) GetMembershipByID(ctx context.Context, id snowflake.ID) (*domain.Membership, error) {
	var member domain.Membership
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListMembershipsByUser(ctx context.Context, userID snowflake.ID) ([]domain.MembershipListItem, error) {
	var items []domain.MembershipListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT o.id AS org_id, o.name AS org_name, o.slug AS org_slug, m.role, m.created_at AS joined_at
		 FROM organizations o
		 JOIN organization_members m ON m.org_id = o.id
		 WHERE m.user_id = ?
		 ORDER BY m.created_at ASC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListMembersByOrg(ctx context.Context, orgID snowflake.ID) ([]domain.MemberListItem, error) {
	var items []domain.MemberListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT m.id AS membership_id, u.id AS user_id, u.email, u.display_name, m.role, m.permissions, m.created_at AS joined_at
		 FROM organization_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.org_id = ?
		 ORDER BY m.created_at ASC`,
		orgID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CountMembershipsByUser(ctx context.Context, userID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateMemberRole(ctx context.Context, membershipID snowflake.ID, role string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("id = ?", membershipID).
		Update("role", role).Error
}

func (r *repository) UpdateMemberPermissions(ctx context.Context, membershipID snowflake.ID, permissions datatypes.JSONMap) error {
	return r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("id = ?", membershipID).
		Update("permissions", permissions).Error
}

func (r *repository) DeleteMembership(ctx context.Context, membershipID snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Membership{}, "id = ?", membershipID).Error
}

func (r *repository) DeleteOrganizationCascade(ctx context.Context, orgID snowflake.ID) error {
	for _, stmt := range []string{
		`DELETE FROM submissions WHERE org_id = ?`,
		`DELETE FROM checklist_templates WHERE org_id = ?`,
		`DELETE FROM organization_invites WHERE org_id = ?`,
		`DELETE FROM organization_members WHERE org_id = ?`,
		`DELETE FROM organizations WHERE id = ?`,
	} {
		if err := r.db.WithContext(ctx).Exec(stmt, orgID).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FindUserIDByEmail(ctx context.Context, email string) (snowflake.ID, error) {
	var row struct {
		ID int64
	}
	result := r.db.WithContext(ctx).
		Table("users").
		Select("id").
		Where("lower(email) = lower(?)", email).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 || row.ID == 0 {
		return 0, domain.ErrUserNotFound
	}
	return snowflake.ID(row.ID), nil
}

func (r *repository) GetActiveOrgID(ctx context.Context, userID snowflake.ID) (*int64, error) {
	var row struct {
		ActiveOrgID *int64
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("active_org_id").
		Where("id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.ActiveOrgID, nil
}

func (r *repository) SetActiveOrgID(ctx context.Context, userID snowflake.ID, orgID *int64) error {
	return r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", userID).
		Update("active_org_id", orgID).Error
}
