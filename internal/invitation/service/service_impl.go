package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Kon-404/tracilo/internal/clock"
	"github.com/Kon-404/tracilo/internal/config"
	"github.com/Kon-404/tracilo/internal/invitation/domain"
	orgdomain "github.com/Kon-404/tracilo/internal/organization/domain"
	"github.com/Kon-404/tracilo/internal/providers/email"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db      *gorm.DB
	repo    domain.Repository
	orgRepo orgdomain.Repository
	mailer  email.Provider
	genID   *snowflake.Node
	clk     clock.Clock
	baseURL string
}

func NewService(
	conn *gorm.DB,
	repo domain.Repository,
	orgRepo orgdomain.Repository,
	mailer email.Provider,
	genID *snowflake.Node,
	clk clock.Clock,
	cfg config.Config,
) domain.Service {
	return &service{
		db:      conn,
		repo:    repo,
		orgRepo: orgRepo,
		mailer:  mailer,
		genID:   genID,
		clk:     clk,
		baseURL: strings.TrimRight(cfg.AppBaseURL, "/"),
	}
}

func (s *service) Create(ctx context.Context, caller domain.Caller, orgID snowflake.ID, req domain.CreateInviteRequest) (*domain.CreateInviteResponse, error) {
	if err := s.requireAdmin(ctx, orgID, caller.UserID); err != nil {
		return nil, err
	}

	inviteeEmail := strings.ToLower(strings.TrimSpace(req.Email))
	if inviteeEmail == "" {
		return nil, domain.ErrEmailRequired
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = orgdomain.RoleMember
	}
	// Ownership is only ever granted through an explicit transfer.
	if role == orgdomain.RoleOwner || !orgdomain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	// An invitee who already has an account and a membership gets rejected
	// up front instead of receiving a dead-end invite.
	if userID, err := s.orgRepo.FindUserIDByEmail(ctx, inviteeEmail); err == nil {
		if _, err := s.orgRepo.GetMembership(ctx, orgID, userID); err == nil {
			return nil, domain.ErrAlreadyMember
		} else if !errors.Is(err, orgdomain.ErrNotMember) {
			return nil, err
		}
	} else if !errors.Is(err, orgdomain.ErrUserNotFound) {
		return nil, err
	}

	now := s.clk.Now()
	if _, err := s.repo.FindActive(ctx, orgID, inviteeEmail, now); err == nil {
		return nil, domain.ErrDuplicateInvite
	} else if !errors.Is(err, domain.ErrInviteNotFound) {
		return nil, err
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}

	invite := domain.Invite{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Email:     inviteeEmail,
		Role:      role,
		Token:     token,
		InvitedBy: caller.UserID,
		ExpiresAt: now.Add(domain.InviteTTL),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, invite); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.GetOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	// Delivery is best effort; the invite stands either way.
	emailSent := true
	if err := s.mailer.SendTemplate(ctx, []string{inviteeEmail}, "invite_member", map[string]interface{}{
		"org_name":     org.Name,
		"inviter_name": caller.DisplayName,
		"role":         role,
		"invite_url":   fmt.Sprintf("%s/invite/%s", s.baseURL, token),
		"expires_at":   invite.ExpiresAt.Format("Jan 2, 2006"),
	}); err != nil {
		emailSent = false
		zap.L().Warn("invite email delivery failed",
			zap.String("org_id", orgID.String()),
			zap.Error(err),
		)
	}

	return &domain.CreateInviteResponse{
		Invite: domain.InviteView{
			ID:        invite.ID.String(),
			OrgID:     orgID.String(),
			OrgName:   org.Name,
			Email:     inviteeEmail,
			Role:      role,
			Token:     token,
			ExpiresAt: invite.ExpiresAt,
			CreatedAt: invite.CreatedAt,
		},
		EmailSent: emailSent,
	}, nil
}

func (s *service) LookupByToken(ctx context.Context, token string) (*domain.InviteLookupResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInviteNotFound
	}

	invite, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.clk.Now().After(invite.ExpiresAt) {
		return nil, domain.ErrInviteGone
	}

	org, err := s.orgRepo.GetOrganizationByID(ctx, invite.OrgID)
	if err != nil {
		return nil, err
	}
	inviterName, err := s.repo.GetUserDisplayName(ctx, invite.InvitedBy)
	if err != nil {
		return nil, err
	}

	return &domain.InviteLookupResponse{
		ID:          invite.ID.String(),
		OrgName:     org.Name,
		Email:       invite.Email,
		Role:        invite.Role,
		InviterName: inviterName,
		ExpiresAt:   invite.ExpiresAt,
	}, nil
}

func (s *service) Accept(ctx context.Context, caller domain.Caller, inviteID snowflake.ID) (*domain.AcceptInviteResponse, error) {
	invite, err := s.repo.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(invite.Email, caller.Email) {
		return nil, domain.ErrWrongRecipient
	}

	if s.clk.Now().After(invite.ExpiresAt) {
		_ = s.repo.Delete(ctx, invite.ID)
		return nil, domain.ErrInviteExpired
	}

	if _, err := s.orgRepo.GetMembership(ctx, invite.OrgID, caller.UserID); err == nil {
		_ = s.repo.Delete(ctx, invite.ID)
		return nil, domain.ErrAlreadyMember
	} else if !errors.Is(err, orgdomain.ErrNotMember) {
		return nil, err
	}

	count, err := s.orgRepo.CountMembershipsByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if count >= orgdomain.MaxMembershipsPerUser {
		return nil, orgdomain.ErrMembershipCap
	}

	hadActive, err := s.orgRepo.GetActiveOrgID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orgRepo := s.orgRepo.WithTx(tx)
		member := orgdomain.Membership{
			ID:        s.genID.Generate(),
			OrgID:     invite.OrgID,
			UserID:    caller.UserID,
			Role:      invite.Role,
			CreatedAt: s.clk.Now(),
		}
		if err := orgRepo.AddMember(ctx, member); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, invite.ID)
	})
	if err != nil {
		return nil, err
	}

	if hadActive == nil {
		active := int64(invite.OrgID)
		if err := s.orgRepo.SetActiveOrgID(ctx, caller.UserID, &active); err != nil {
			return nil, err
		}
	}

	return &domain.AcceptInviteResponse{
		OrgID: invite.OrgID.String(),
		Role:  invite.Role,
	}, nil
}

func (s *service) Decline(ctx context.Context, caller domain.Caller, inviteID snowflake.ID) error {
	invite, err := s.repo.GetByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(invite.Email, caller.Email) {
		return domain.ErrWrongRecipient
	}
	return s.repo.Delete(ctx, invite.ID)
}

func (s *service) ListForCaller(ctx context.Context, caller domain.Caller) ([]domain.InviteView, error) {
	items, err := s.repo.ListActiveByEmail(ctx, caller.Email, s.clk.Now())
	if err != nil {
		return nil, err
	}
	views := make([]domain.InviteView, 0, len(items))
	for _, item := range items {
		views = append(views, domain.InviteView{
			ID:        item.ID.String(),
			OrgID:     item.OrgID.String(),
			OrgName:   item.OrgName,
			Email:     item.Email,
			Role:      item.Role,
			Token:     item.Token,
			ExpiresAt: item.ExpiresAt,
			CreatedAt: item.CreatedAt,
		})
	}
	return views, nil
}

func (s *service) requireAdmin(ctx context.Context, orgID, userID snowflake.ID) error {
	member, err := s.orgRepo.GetMembership(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, orgdomain.ErrNotMember) {
			return orgdomain.ErrNotAdmin
		}
		return err
	}
	if member.Role != orgdomain.RoleOwner && member.Role != orgdomain.RoleAdmin {
		return orgdomain.ErrNotAdmin
	}
	return nil
}

func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
