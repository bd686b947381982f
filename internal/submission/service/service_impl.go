package service

import (
	"context"
	"io"
	"strings"

	checklistdomain "github.com/Kon-404/tracilo/internal/checklist/domain"
	"github.com/Kon-404/tracilo/internal/clock"
	"github.com/Kon-404/tracilo/internal/providers/pdf"
	"github.com/Kon-404/tracilo/internal/submission/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type service struct {
	db            *gorm.DB
	repo          domain.Repository
	checklistRepo checklistdomain.Repository
	pdfProvider   pdf.Provider
	genID         *snowflake.Node
	clk           clock.Clock
}

func NewService(
	conn *gorm.DB,
	repo domain.Repository,
	checklistRepo checklistdomain.Repository,
	pdfProvider pdf.Provider,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &service{
		db:            conn,
		repo:          repo,
		checklistRepo: checklistRepo,
		pdfProvider:   pdfProvider,
		genID:         genID,
		clk:           clk,
	}
}

func (s *service) Create(ctx context.Context, orgID, userID snowflake.ID, req domain.CreateSubmissionRequest) (*domain.Submission, error) {
	site := strings.TrimSpace(req.SiteAddress)
	if site == "" {
		return nil, domain.ErrSiteRequired
	}

	templateID, err := snowflake.ParseString(req.TemplateID)
	if err != nil {
		return nil, checklistdomain.ErrTemplateNotFound
	}
	// Template must exist in the caller's org.
	if _, err := s.checklistRepo.Get(ctx, orgID, templateID); err != nil {
		return nil, err
	}

	now := s.clk.Now()
	sub := domain.Submission{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		TemplateID:  templateID,
		SubmitterID: userID,
		SiteAddress: site,
		Answers:     req.Answers,
		Status:      domain.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Submission, error) {
	return s.repo.Get(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, orgID snowflake.ID) ([]domain.SubmissionListItem, error) {
	return s.repo.ListByOrg(ctx, orgID)
}

func (s *service) Complete(ctx context.Context, orgID, userID, id snowflake.ID) (*domain.Submission, error) {
	sub, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if sub.SubmitterID != userID {
		return nil, domain.ErrNotSubmitter
	}
	if sub.Status == domain.StatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	now := s.clk.Now()
	sub.Status = domain.StatusCompleted
	sub.SubmittedAt = &now
	sub.UpdatedAt = now
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) RenderPDF(ctx context.Context, orgID, id snowflake.ID) ([]byte, error) {
	report, err := s.repo.GetReport(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	submittedAt := "-"
	if report.SubmittedAt != nil {
		submittedAt = report.SubmittedAt.Format("Jan 2, 2006 15:04")
	}

	reader, err := s.pdfProvider.GenerateSubmissionReport(ctx, pdf.ReportData{
		OrgName:       report.OrgName,
		TemplateTitle: report.TemplateTitle,
		Trade:         report.Trade,
		SiteAddress:   report.SiteAddress,
		SubmitterName: report.SubmitterName,
		Status:        report.Status,
		SubmittedAt:   submittedAt,
		Answers:       report.Answers,
	})
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}
