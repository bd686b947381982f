package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	authdomain "github.com/Kon-404/tracilo/internal/auth/domain"
	checklistdomain "github.com/Kon-404/tracilo/internal/checklist/domain"
	checklistrepository "github.com/Kon-404/tracilo/internal/checklist/repository"
	"github.com/Kon-404/tracilo/internal/clock"
	orgdomain "github.com/Kon-404/tracilo/internal/organization/domain"
	"github.com/Kon-404/tracilo/internal/providers/pdf"
	"github.com/Kon-404/tracilo/internal/submission/domain"
	"github.com/Kon-404/tracilo/internal/submission/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type submissionEnv struct {
	svc      domain.Service
	db       *gorm.DB
	clk      *clock.FakeClock
	genID    *snowflake.Node
	orgID    snowflake.ID
	userID   snowflake.ID
	template *checklistdomain.Template
}

func newSubmissionEnv(t *testing.T) *submissionEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&orgdomain.Organization{},
		&orgdomain.Membership{},
		&checklistdomain.Template{},
		&domain.Submission{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	org := orgdomain.Organization{ID: node.Generate(), Name: "Acme", Slug: "acme"}
	require.NoError(t, db.Create(&org).Error)

	user := authdomain.User{ID: node.Generate(), Email: "tech@example.com", DisplayName: "Site Tech"}
	require.NoError(t, db.Create(&user).Error)

	tmpl := checklistdomain.Template{
		ID:        node.Generate(),
		OrgID:     org.ID,
		Title:     "Switchboard Inspection",
		Trade:     "electrical",
		Version:   1,
		Fields:    datatypes.JSON(`[]`),
		Active:    true,
		CreatedBy: user.ID,
	}
	require.NoError(t, db.Create(&tmpl).Error)

	svc := NewService(db, repository.NewRepository(db), checklistrepository.NewRepository(db), pdf.New(), node, clk)

	return &submissionEnv{
		svc:      svc,
		db:       db,
		clk:      clk,
		genID:    node,
		orgID:    org.ID,
		userID:   user.ID,
		template: &tmpl,
	}
}

func TestCreateSubmission(t *testing.T) {
	env := newSubmissionEnv(t)
	ctx := context.Background()

	sub, err := env.svc.Create(ctx, env.orgID, env.userID, domain.CreateSubmissionRequest{
		TemplateID:  env.template.ID.String(),
		SiteAddress: "12 Harbour St, Auckland",
		Answers:     datatypes.JSONMap{"isolated": true},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, sub.Status)
	assert.Nil(t, sub.SubmittedAt)

	t.Run("missing site address", func(t *testing.T) {
		_, err := env.svc.Create(ctx, env.orgID, env.userID, domain.CreateSubmissionRequest{
			TemplateID: env.template.ID.String(),
		})
		assert.ErrorIs(t, err, domain.ErrSiteRequired)
	})

	t.Run("template from another org", func(t *testing.T) {
		_, err := env.svc.Create(ctx, env.genID.Generate(), env.userID, domain.CreateSubmissionRequest{
			TemplateID:  env.template.ID.String(),
			SiteAddress: "12 Harbour St",
		})
		assert.ErrorIs(t, err, checklistdomain.ErrTemplateNotFound)
	})
}

func TestCompleteSubmission(t *testing.T) {
	env := newSubmissionEnv(t)
	ctx := context.Background()

	sub, err := env.svc.Create(ctx, env.orgID, env.userID, domain.CreateSubmissionRequest{
		TemplateID:  env.template.ID.String(),
		SiteAddress: "12 Harbour St",
	})
	require.NoError(t, err)

	env.clk.Advance(time.Hour)

	completed, err := env.svc.Complete(ctx, env.orgID, env.userID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
	require.NotNil(t, completed.SubmittedAt)
	assert.Equal(t, env.clk.Now(), *completed.SubmittedAt)

	t.Run("already completed", func(t *testing.T) {
		_, err := env.svc.Complete(ctx, env.orgID, env.userID, sub.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	})

	t.Run("only the submitter may complete", func(t *testing.T) {
		other, err := env.svc.Create(ctx, env.orgID, env.userID, domain.CreateSubmissionRequest{
			TemplateID:  env.template.ID.String(),
			SiteAddress: "9 Queen St",
		})
		require.NoError(t, err)

		_, err = env.svc.Complete(ctx, env.orgID, env.genID.Generate(), other.ID)
		assert.ErrorIs(t, err, domain.ErrNotSubmitter)
	})
}

func TestRenderPDF(t *testing.T) {
	env := newSubmissionEnv(t)
	ctx := context.Background()

	sub, err := env.svc.Create(ctx, env.orgID, env.userID, domain.CreateSubmissionRequest{
		TemplateID:  env.template.ID.String(),
		SiteAddress: "12 Harbour St",
		Answers:     datatypes.JSONMap{"isolated": true, "rcd_tested": "pass"},
	})
	require.NoError(t, err)
	_, err = env.svc.Complete(ctx, env.orgID, env.userID, sub.ID)
	require.NoError(t, err)

	doc, err := env.svc.RenderPDF(ctx, env.orgID, sub.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "renders a PDF document")

	_, err = env.svc.RenderPDF(ctx, env.orgID, env.genID.Generate())
	assert.ErrorIs(t, err, domain.ErrSubmissionNotFound)
}

func TestListSubmissions(t *testing.T) {
	env := newSubmissionEnv(t)
	ctx := context.Background()

	for _, site := range []string{"12 Harbour St", "9 Queen St"} {
		_, err := env.svc.Create(ctx, env.orgID, env.userID, domain.CreateSubmissionRequest{
			TemplateID:  env.template.ID.String(),
			SiteAddress: site,
		})
		require.NoError(t, err)
		env.clk.Advance(time.Minute)
	}

	items, err := env.svc.List(ctx, env.orgID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "9 Queen St", items[0].SiteAddress, "newest first")
	assert.Equal(t, "Switchboard Inspection", items[0].TemplateTitle)
	assert.Equal(t, "Site Tech", items[0].SubmitterName)
}
