// Package seed bootstraps a default organization and admin user so
// self-hosted installs are usable immediately after first start.
package seed

import (
	"context"
	"errors"

	authdomain "github.com/Kon-404/tracilo/internal/auth/domain"
	orgdomain "github.com/Kon-404/tracilo/internal/organization/domain"
	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultOrgName       = "Main"
	defaultOrgSlug       = "main"
	defaultAdminEmail    = "admin@tracilo.app"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Tracilo Admin"
)

// EnsureDefaultOrgAndAdmin seeds the default organization with an owner
// account. Safe to call on every startup.
func EnsureDefaultOrgAndAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureDefaultOrg(ctx, tx, node)
		if err != nil {
			return err
		}

		var user authdomain.User
		err = tx.WithContext(ctx).
			Where("lower(email) = ?", defaultAdminEmail).
			First(&user).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			hash := string(hashed)
			active := int64(org.ID)
			user = authdomain.User{
				ID:           node.Generate(),
				Email:        defaultAdminEmail,
				DisplayName:  defaultAdminDisplay,
				PasswordHash: &hash,
				ActiveOrgID:  &active,
			}
			if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
				return err
			}
		}

		var member orgdomain.Membership
		err = tx.WithContext(ctx).
			Where("org_id = ? AND user_id = ?", org.ID, user.ID).
			First(&member).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		member = orgdomain.Membership{
			ID:     node.Generate(),
			OrgID:  org.ID,
			UserID: user.ID,
			Role:   orgdomain.RoleOwner,
		}
		return tx.WithContext(ctx).Create(&member).Error
	})
}

func ensureDefaultOrg(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (*orgdomain.Organization, error) {
	var org orgdomain.Organization
	err := tx.WithContext(ctx).Where("slug = ?", defaultOrgSlug).First(&org).Error
	if err == nil {
		return &org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	org = orgdomain.Organization{
		ID:   node.Generate(),
		Name: defaultOrgName,
		Slug: defaultOrgSlug,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
