package service

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/Kon-404/tracilo/internal/auth/domain"
	"github.com/Kon-404/tracilo/internal/checklist/domain"
	"github.com/Kon-404/tracilo/internal/checklist/repository"
	"github.com/Kon-404/tracilo/internal/clock"
	orgdomain "github.com/Kon-404/tracilo/internal/organization/domain"
	orgrepository "github.com/Kon-404/tracilo/internal/organization/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type checklistEnv struct {
	svc   domain.Service
	db    *gorm.DB
	clk   *clock.FakeClock
	genID *snowflake.Node
}

func newChecklistEnv(t *testing.T) *checklistEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&orgdomain.Organization{},
		&orgdomain.Membership{},
		&domain.Template{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	return &checklistEnv{
		svc:   NewService(db, repository.NewRepository(db), orgrepository.NewRepository(db), node, clk),
		db:    db,
		clk:   clk,
		genID: node,
	}
}

func (e *checklistEnv) createMember(t *testing.T, orgID snowflake.ID, role string) snowflake.ID {
	t.Helper()
	userID := e.genID.Generate()
	require.NoError(t, e.db.Create(&orgdomain.Membership{
		ID: e.genID.Generate(), OrgID: orgID, UserID: userID, Role: role,
	}).Error)
	return userID
}

var testFields = datatypes.JSON(`[{"section":"Safety","items":[{"id":"isolated","label":"Supply isolated","type":"checkbox"}]}]`)

func TestCreateTemplate(t *testing.T) {
	env := newChecklistEnv(t)
	ctx := context.Background()
	orgID := env.genID.Generate()
	admin := env.createMember(t, orgID, orgdomain.RoleAdmin)

	tmpl, err := env.svc.Create(ctx, orgID, admin, domain.CreateTemplateRequest{
		Title:  "Switchboard Inspection",
		Trade:  "electrical",
		Fields: testFields,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tmpl.Version)
	assert.True(t, tmpl.Active)

	t.Run("missing title", func(t *testing.T) {
		_, err := env.svc.Create(ctx, orgID, admin, domain.CreateTemplateRequest{Fields: testFields})
		assert.ErrorIs(t, err, domain.ErrTitleRequired)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.svc.Create(ctx, orgID, admin, domain.CreateTemplateRequest{Title: "Empty"})
		assert.ErrorIs(t, err, domain.ErrFieldsRequired)
	})

	t.Run("plain member cannot create", func(t *testing.T) {
		member := env.createMember(t, orgID, orgdomain.RoleMember)
		_, err := env.svc.Create(ctx, orgID, member, domain.CreateTemplateRequest{Title: "X", Fields: testFields})
		assert.ErrorIs(t, err, orgdomain.ErrNotAdmin)
	})
}

func TestUpdateTemplate_FieldsBumpVersion(t *testing.T) {
	env := newChecklistEnv(t)
	ctx := context.Background()
	orgID := env.genID.Generate()
	admin := env.createMember(t, orgID, orgdomain.RoleOwner)

	tmpl, err := env.svc.Create(ctx, orgID, admin, domain.CreateTemplateRequest{Title: "Inspection", Fields: testFields})
	require.NoError(t, err)

	title := "Final Inspection"
	updated, err := env.svc.Update(ctx, orgID, admin, tmpl.ID, domain.UpdateTemplateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version, "title-only change keeps the version")

	newFields := datatypes.JSON(`[{"section":"Safety","items":[]}]`)
	updated, err = env.svc.Update(ctx, orgID, admin, tmpl.ID, domain.UpdateTemplateRequest{Fields: &newFields})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
}

func TestTemplateOrgScoping(t *testing.T) {
	env := newChecklistEnv(t)
	ctx := context.Background()
	orgID := env.genID.Generate()
	otherOrgID := env.genID.Generate()
	admin := env.createMember(t, orgID, orgdomain.RoleAdmin)

	tmpl, err := env.svc.Create(ctx, orgID, admin, domain.CreateTemplateRequest{Title: "Inspection", Fields: testFields})
	require.NoError(t, err)

	_, err = env.svc.Get(ctx, otherOrgID, tmpl.ID)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestDeleteTemplate(t *testing.T) {
	env := newChecklistEnv(t)
	ctx := context.Background()
	orgID := env.genID.Generate()
	admin := env.createMember(t, orgID, orgdomain.RoleAdmin)

	tmpl, err := env.svc.Create(ctx, orgID, admin, domain.CreateTemplateRequest{Title: "Inspection", Fields: testFields})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, orgID, admin, tmpl.ID))
	assert.ErrorIs(t, env.svc.Delete(ctx, orgID, admin, tmpl.ID), domain.ErrTemplateNotFound)
}
