package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Kon-404/tracilo/internal/clock"
	"github.com/Kon-404/tracilo/internal/organization/domain"
	"github.com/Kon-404/tracilo/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	clk   clock.Clock
}

func NewService(conn *gorm.DB, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		db:    conn,
		repo:  repo,
		genID: genID,
		clk:   clk,
	}
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateOrganizationRequest) (*domain.OrganizationResponse, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	count, err := s.repo.CountMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxMembershipsPerUser {
		return nil, domain.ErrMembershipCap
	}

	now := s.clk.Now()
	orgID := s.genID.Generate()
	org := domain.Organization{
		ID:        orgID,
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrganization(ctx, org); err != nil {
			return err
		}

		member := domain.Membership{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			UserID:    userID,
			Role:      domain.RoleOwner,
			CreatedAt: now,
		}
		if err := repo.AddMember(ctx, member); err != nil {
			return err
		}

		active := int64(orgID)
		return repo.SetActiveOrgID(ctx, userID, &active)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}

	return &domain.OrganizationResponse{
		ID:   orgID.String(),
		Name: name,
		Slug: org.Slug,
	}, nil
}

func (s *service) ListWithActive(ctx context.Context, userID snowflake.ID) (*domain.OrganizationListResponse, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	items, err := s.repo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	activeID, err := s.resolveActive(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	resp := &domain.OrganizationListResponse{
		Organizations: make([]domain.OrganizationListItem, 0, len(items)),
	}
	if activeID != 0 {
		resp.ActiveOrgID = activeID.String()
	}
	for _, item := range items {
		resp.Organizations = append(resp.Organizations, domain.OrganizationListItem{
			ID:       item.OrgID.String(),
			Name:     item.OrgName,
			Slug:     item.OrgSlug,
			Role:     item.Role,
			JoinedAt: item.JoinedAt,
		})
	}
	return resp, nil
}

func (s *service) ResolveActiveOrg(ctx context.Context, userID snowflake.ID) (snowflake.ID, error) {
	if userID == 0 {
		return 0, domain.ErrInvalidUser
	}
	items, err := s.repo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.resolveActive(ctx, userID, items)
}

// resolveActive honors the stored active-org reference while it still points
// at one of the caller's memberships, otherwise falls back to the earliest
// membership and persists the repaired choice.
func (s *service) resolveActive(ctx context.Context, userID snowflake.ID, items []domain.MembershipListItem) (snowflake.ID, error) {
	stored, err := s.repo.GetActiveOrgID(ctx, userID)
	if err != nil {
		return 0, err
	}

	if stored != nil {
		for _, item := range items {
			if int64(item.OrgID) == *stored {
				return item.OrgID, nil
			}
		}
	}

	if len(items) == 0 {
		if stored != nil {
			if err := s.repo.SetActiveOrgID(ctx, userID, nil); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}

	fallback := int64(items[0].OrgID)
	if err := s.repo.SetActiveOrgID(ctx, userID, &fallback); err != nil {
		return 0, err
	}
	return items[0].OrgID, nil
}

func (s *service) SwitchActive(ctx context.Context, userID snowflake.ID, orgID snowflake.ID) error {
	if _, err := s.repo.GetMembership(ctx, orgID, userID); err != nil {
		return err
	}
	active := int64(orgID)
	return s.repo.SetActiveOrgID(ctx, userID, &active)
}

func (s *service) Delete(ctx context.Context, userID snowflake.ID, orgID snowflake.ID) error {
	member, err := s.repo.GetMembership(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotMember) {
			return domain.ErrNotOwner
		}
		return err
	}
	if member.Role != domain.RoleOwner {
		return domain.ErrNotOwner
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteOrganizationCascade(ctx, orgID)
	})
	if err != nil {
		return err
	}

	// Repair the caller's active org if it pointed at the deleted tenant.
	stored, err := s.repo.GetActiveOrgID(ctx, userID)
	if err != nil {
		return err
	}
	if stored == nil || *stored != int64(orgID) {
		return nil
	}
	remaining, err := s.repo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return s.repo.SetActiveOrgID(ctx, userID, nil)
	}
	next := int64(remaining[0].OrgID)
	return s.repo.SetActiveOrgID(ctx, userID, &next)
}

func (s *service) TransferOwnership(ctx context.Context, userID snowflake.ID, orgID snowflake.ID, req domain.TransferOwnershipRequest) error {
	if strings.TrimSpace(req.Confirm) != domain.TransferConfirmation {
		return domain.ErrBadConfirmation
	}

	caller, err := s.repo.GetMembership(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotMember) {
			return domain.ErrNotOwner
		}
		return err
	}
	if caller.Role != domain.RoleOwner {
		return domain.ErrNotOwner
	}

	targetID, err := snowflake.ParseString(strings.TrimSpace(req.MembershipID))
	if err != nil {
		return domain.ErrMemberNotFound
	}
	target, err := s.repo.GetMembershipByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.OrgID != orgID {
		return domain.ErrMemberNotFound
	}
	if target.ID == caller.ID {
		return domain.ErrTransferToSelf
	}

	// Both role updates commit together; between the two statements the
	// "exactly one owner" invariant holds only inside the transaction.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateMemberRole(ctx, caller.ID, domain.RoleAdmin); err != nil {
			return err
		}
		return repo.UpdateMemberRole(ctx, target.ID, domain.RoleOwner)
	})
}

func (s *service) ListMembers(ctx context.Context, orgID snowflake.ID) ([]domain.MemberResponse, error) {
	items, err := s.repo.ListMembersByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.MemberResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.MemberResponse{
			MembershipID: item.MembershipID.String(),
			UserID:       item.UserID.String(),
			Email:        item.Email,
			DisplayName:  item.DisplayName,
			Role:         item.Role,
			Permissions:  item.Permissions,
			JoinedAt:     item.JoinedAt,
		})
	}
	return resp, nil
}

func (s *service) AddMember(ctx context.Context, callerID snowflake.ID, orgID snowflake.ID, req domain.AddMemberRequest) (*domain.MemberResponse, error) {
	if err := s.requireAdmin(ctx, orgID, callerID); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, domain.ErrUserNotFound
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleMember
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	targetUserID, err := s.repo.FindUserIDByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetMembership(ctx, orgID, targetUserID); err == nil {
		return nil, domain.ErrAlreadyMember
	} else if !errors.Is(err, domain.ErrNotMember) {
		return nil, err
	}

	count, err := s.repo.CountMembershipsByUser(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxMembershipsPerUser {
		return nil, domain.ErrMembershipCap
	}

	member := domain.Membership{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		UserID:    targetUserID,
		Role:      role,
		CreatedAt: s.clk.Now(),
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAlreadyMember
		}
		return nil, err
	}

	return &domain.MemberResponse{
		MembershipID: member.ID.String(),
		UserID:       targetUserID.String(),
		Email:        email,
		Role:         role,
		JoinedAt:     member.CreatedAt,
	}, nil
}

func (s *service) UpdateMember(ctx context.Context, callerID snowflake.ID, orgID snowflake.ID, membershipID snowflake.ID, req domain.UpdateMemberRequest) error {
	if err := s.requireAdmin(ctx, orgID, callerID); err != nil {
		return err
	}

	target, err := s.repo.GetMembershipByID(ctx, membershipID)
	if err != nil {
		return err
	}
	if target.OrgID != orgID {
		return domain.ErrMemberNotFound
	}

	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if !domain.ValidRole(role) {
			return domain.ErrInvalidRole
		}
		if err := s.repo.UpdateMemberRole(ctx, target.ID, role); err != nil {
			return err
		}
	}
	if req.Permissions != nil {
		if err := s.repo.UpdateMemberPermissions(ctx, target.ID, req.Permissions); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) RemoveMember(ctx context.Context, callerID snowflake.ID, orgID snowflake.ID, membershipID snowflake.ID) error {
	if err := s.requireAdmin(ctx, orgID, callerID); err != nil {
		return err
	}

	target, err := s.repo.GetMembershipByID(ctx, membershipID)
	if err != nil {
		return err
	}
	if target.OrgID != orgID {
		return domain.ErrMemberNotFound
	}
	if target.UserID == callerID {
		return domain.ErrSelfRemoval
	}

	return s.repo.DeleteMembership(ctx, target.ID)
}

func (s *service) RoleFor(ctx context.Context, orgID snowflake.ID, userID snowflake.ID) (string, error) {
	member, err := s.repo.GetMembership(ctx, orgID, userID)
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

func (s *service) requireAdmin(ctx context.Context, orgID, userID snowflake.ID) error {
	member, err := s.repo.GetMembership(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotMember) {
			return domain.ErrNotAdmin
		}
		return err
	}
	if member.Role != domain.RoleOwner && member.Role != domain.RoleAdmin {
		return domain.ErrNotAdmin
	}
	return nil
}
