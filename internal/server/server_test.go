package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "github.com/Kon-404/tracilo/internal/auth/domain"
	"github.com/Kon-404/tracilo/internal/auth/session"
	checklistdomain "github.com/Kon-404/tracilo/internal/checklist/domain"
	"github.com/Kon-404/tracilo/internal/config"
	invitedomain "github.com/Kon-404/tracilo/internal/invitation/domain"
	orgdomain "github.com/Kon-404/tracilo/internal/organization/domain"
	submissiondomain "github.com/Kon-404/tracilo/internal/submission/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "session-token"

type fakeAuthService struct {
	subject *authdomain.Subject
}

func (f *fakeAuthService) CreateUser(ctx context.Context, req authdomain.CreateUserRequest) (*authdomain.User, error) {
	return &authdomain.User{ID: snowflake.ID(200), Email: req.Email}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	return &authdomain.LoginResult{
		User:      &authdomain.User{ID: snowflake.ID(200), Email: req.Email},
		RawToken:  testToken,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) error {
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Subject, error) {
	if rawToken == testToken && f.subject != nil {
		return f.subject, nil
	}
	return nil, authdomain.ErrInvalidSession
}

type fakeOrgService struct {
	activeOrg snowflake.ID
	role      string
}

func (f *fakeOrgService) Create(ctx context.Context, userID snowflake.ID, req orgdomain.CreateOrganizationRequest) (*orgdomain.OrganizationResponse, error) {
	return &orgdomain.OrganizationResponse{ID: "1", Name: req.Name, Slug: "slug"}, nil
}

func (f *fakeOrgService) ListWithActive(ctx context.Context, userID snowflake.ID) (*orgdomain.OrganizationListResponse, error) {
	return &orgdomain.OrganizationListResponse{}, nil
}

func (f *fakeOrgService) ResolveActiveOrg(ctx context.Context, userID snowflake.ID) (snowflake.ID, error) {
	return f.activeOrg, nil
}

func (f *fakeOrgService) SwitchActive(ctx context.Context, userID, orgID snowflake.ID) error {
	return nil
}

func (f *fakeOrgService) Delete(ctx context.Context, userID, orgID snowflake.ID) error {
	return nil
}

func (f *fakeOrgService) TransferOwnership(ctx context.Context, userID, orgID snowflake.ID, req orgdomain.TransferOwnershipRequest) error {
	return nil
}

func (f *fakeOrgService) ListMembers(ctx context.Context, orgID snowflake.ID) ([]orgdomain.MemberResponse, error) {
	return nil, nil
}

func (f *fakeOrgService) AddMember(ctx context.Context, callerID, orgID snowflake.ID, req orgdomain.AddMemberRequest) (*orgdomain.MemberResponse, error) {
	return nil, orgdomain.ErrUserNotFound
}

func (f *fakeOrgService) UpdateMember(ctx context.Context, callerID, orgID, membershipID snowflake.ID, req orgdomain.UpdateMemberRequest) error {
	return nil
}

func (f *fakeOrgService) RemoveMember(ctx context.Context, callerID, orgID, membershipID snowflake.ID) error {
	return nil
}

func (f *fakeOrgService) RoleFor(ctx context.Context, orgID, userID snowflake.ID) (string, error) {
	if f.role == "" {
		return "", orgdomain.ErrNotMember
	}
	return f.role, nil
}

type fakeInviteService struct {
	lookupErr error
}

func (f *fakeInviteService) Create(ctx context.Context, caller invitedomain.Caller, orgID snowflake.ID, req invitedomain.CreateInviteRequest) (*invitedomain.CreateInviteResponse, error) {
	return &invitedomain.CreateInviteResponse{EmailSent: false}, nil
}

func (f *fakeInviteService) LookupByToken(ctx context.Context, token string) (*invitedomain.InviteLookupResponse, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return &invitedomain.InviteLookupResponse{OrgName: "Acme", Email: "invitee@example.com"}, nil
}

func (f *fakeInviteService) Accept(ctx context.Context, caller invitedomain.Caller, inviteID snowflake.ID) (*invitedomain.AcceptInviteResponse, error) {
	return nil, invitedomain.ErrInviteNotFound
}

func (f *fakeInviteService) Decline(ctx context.Context, caller invitedomain.Caller, inviteID snowflake.ID) error {
	return invitedomain.ErrWrongRecipient
}

func (f *fakeInviteService) ListForCaller(ctx context.Context, caller invitedomain.Caller) ([]invitedomain.InviteView, error) {
	return nil, nil
}

type fakeChecklistService struct{}

func (f *fakeChecklistService) Create(ctx context.Context, orgID, userID snowflake.ID, req checklistdomain.CreateTemplateRequest) (*checklistdomain.Template, error) {
	return &checklistdomain.Template{ID: snowflake.ID(7), OrgID: orgID, Title: req.Title}, nil
}

func (f *fakeChecklistService) Get(ctx context.Context, orgID, id snowflake.ID) (*checklistdomain.Template, error) {
	return nil, checklistdomain.ErrTemplateNotFound
}

func (f *fakeChecklistService) List(ctx context.Context, orgID snowflake.ID) ([]checklistdomain.Template, error) {
	return nil, nil
}

func (f *fakeChecklistService) Update(ctx context.Context, orgID, userID, id snowflake.ID, req checklistdomain.UpdateTemplateRequest) (*checklistdomain.Template, error) {
	return nil, checklistdomain.ErrTemplateNotFound
}

func (f *fakeChecklistService) Delete(ctx context.Context, orgID, userID, id snowflake.ID) error {
	return checklistdomain.ErrTemplateNotFound
}

type fakeSubmissionService struct{}

func (f *fakeSubmissionService) Create(ctx context.Context, orgID, userID snowflake.ID, req submissiondomain.CreateSubmissionRequest) (*submissiondomain.Submission, error) {
	return nil, submissiondomain.ErrSiteRequired
}

func (f *fakeSubmissionService) Get(ctx context.Context, orgID, id snowflake.ID) (*submissiondomain.Submission, error) {
	return nil, submissiondomain.ErrSubmissionNotFound
}

func (f *fakeSubmissionService) List(ctx context.Context, orgID snowflake.ID) ([]submissiondomain.SubmissionListItem, error) {
	return nil, nil
}

func (f *fakeSubmissionService) Complete(ctx context.Context, orgID, userID, id snowflake.ID) (*submissiondomain.Submission, error) {
	return nil, submissiondomain.ErrSubmissionNotFound
}

func (f *fakeSubmissionService) RenderPDF(ctx context.Context, orgID, id snowflake.ID) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

type testServer struct {
	srv     *Server
	auth    *fakeAuthService
	org     *fakeOrgService
	invites *fakeInviteService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{Environment: "test"}
	auth := &fakeAuthService{
		subject: &authdomain.Subject{
			UserID:      snowflake.ID(200),
			Email:       "alice@example.com",
			DisplayName: "Alice",
		},
	}
	org := &fakeOrgService{activeOrg: snowflake.ID(42), role: orgdomain.RoleOwner}
	invites := &fakeInviteService{}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	srv := NewServer(ServerParams{
		Gin:             NewEngine(cfg),
		Cfg:             cfg,
		AuthSvc:         auth,
		Sessions:        session.NewManager(cfg),
		GenID:           node,
		OrganizationSvc: org,
		InvitationSvc:   invites,
		ChecklistSvc:    &fakeChecklistService{},
		SubmissionSvc:   &fakeSubmissionService{},
	})

	return &testServer{srv: srv, auth: auth, org: org, invites: invites}
}

func (ts *testServer) do(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: testToken})
	}
	rec := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/organizations", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/api/organizations", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/auth/me", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice@example.com", resp["email"])
}

func TestLookupInvite(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/invitations/by-token", nil, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/invitations/by-token?token=abc", nil, false)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired maps to 410", func(t *testing.T) {
		ts.invites.lookupErr = invitedomain.ErrInviteGone
		defer func() { ts.invites.lookupErr = nil }()

		rec := ts.do(http.MethodGet, "/api/invitations/by-token?token=abc", nil, false)
		assert.Equal(t, http.StatusGone, rec.Code)
	})

	t.Run("missing maps to 404", func(t *testing.T) {
		ts.invites.lookupErr = invitedomain.ErrInviteNotFound
		defer func() { ts.invites.lookupErr = nil }()

		rec := ts.do(http.MethodGet, "/api/invitations/by-token?token=abc", nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestErrorTaxonomy(t *testing.T) {
	ts := newTestServer(t)

	t.Run("decline by wrong recipient is 403", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/invitations/123/decline", nil, true)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("accept of unknown invite is 404", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/invitations/123/accept", nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("add member with unknown email is 404", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/organization/members", gin.H{"email": "x@example.com"}, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("submission without site address is 400", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/submissions", gin.H{"template_id": "1"}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChecklistMutationRequiresAdmin(t *testing.T) {
	ts := newTestServer(t)
	body := gin.H{"title": "Switchboard Inspection", "fields": []gin.H{}}

	t.Run("plain member is refused", func(t *testing.T) {
		ts.org.role = orgdomain.RoleMember
		rec := ts.do(http.MethodPost, "/api/checklists", body, true)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin may create", func(t *testing.T) {
		ts.org.role = orgdomain.RoleAdmin
		rec := ts.do(http.MethodPost, "/api/checklists", body, true)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("reads stay open to members", func(t *testing.T) {
		ts.org.role = orgdomain.RoleMember
		rec := ts.do(http.MethodGet, "/api/checklists", nil, true)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOrgContextRequired(t *testing.T) {
	ts := newTestServer(t)
	ts.org.activeOrg = 0

	rec := ts.do(http.MethodGet, "/api/checklists", nil, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmissionPDFContentType(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/submissions/123/pdf", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
