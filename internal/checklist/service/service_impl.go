package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Kon-404/tracilo/internal/checklist/domain"
	"github.com/Kon-404/tracilo/internal/clock"
	orgdomain "github.com/Kon-404/tracilo/internal/organization/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type service struct {
	db      *gorm.DB
	repo    domain.Repository
	orgRepo orgdomain.Repository
	genID   *snowflake.Node
	clk     clock.Clock
}

func NewService(
	conn *gorm.DB,
	repo domain.Repository,
	orgRepo orgdomain.Repository,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &service{
		db:      conn,
		repo:    repo,
		orgRepo: orgRepo,
		genID:   genID,
		clk:     clk,
	}
}

func (s *service) Create(ctx context.Context, orgID, userID snowflake.ID, req domain.CreateTemplateRequest) (*domain.Template, error) {
	if err := s.requireAdmin(ctx, orgID, userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(req.Fields) == 0 {
		return nil, domain.ErrFieldsRequired
	}

	now := s.clk.Now()
	tmpl := domain.Template{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Title:     title,
		Trade:     strings.TrimSpace(req.Trade),
		Version:   1,
		Fields:    req.Fields,
		Active:    true,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Template, error) {
	return s.repo.Get(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, orgID snowflake.ID) ([]domain.Template, error) {
	return s.repo.ListByOrg(ctx, orgID)
}

func (s *service) Update(ctx context.Context, orgID, userID, id snowflake.ID, req domain.UpdateTemplateRequest) (*domain.Template, error) {
	if err := s.requireAdmin(ctx, orgID, userID); err != nil {
		return nil, err
	}

	tmpl, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		tmpl.Title = title
	}
	if req.Trade != nil {
		tmpl.Trade = strings.TrimSpace(*req.Trade)
	}
	if req.Fields != nil {
		if len(*req.Fields) == 0 {
			return nil, domain.ErrFieldsRequired
		}
		tmpl.Fields = *req.Fields
		tmpl.Version++
	}
	if req.Active != nil {
		tmpl.Active = *req.Active
	}
	tmpl.UpdatedAt = s.clk.Now()

	if err := s.repo.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *service) Delete(ctx context.Context, orgID, userID, id snowflake.ID) error {
	if err := s.requireAdmin(ctx, orgID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, orgID, id)
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
