package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Kon-404/tracilo/internal/auth"
	authdomain "github.com/Kon-404/tracilo/internal/auth/domain"
	"github.com/Kon-404/tracilo/internal/auth/session"
	"github.com/Kon-404/tracilo/internal/checklist"
	checklistdomain "github.com/Kon-404/tracilo/internal/checklist/domain"
	"github.com/Kon-404/tracilo/internal/clock"
	"github.com/Kon-404/tracilo/internal/config"
	"github.com/Kon-404/tracilo/internal/invitation"
	invitedomain "github.com/Kon-404/tracilo/internal/invitation/domain"
	"github.com/Kon-404/tracilo/internal/organization"
	orgdomain "github.com/Kon-404/tracilo/internal/organization/domain"
	"github.com/Kon-404/tracilo/internal/providers/email"
	"github.com/Kon-404/tracilo/internal/providers/pdf"
	"github.com/Kon-404/tracilo/internal/ratelimit"
	"github.com/Kon-404/tracilo/internal/submission"
	submissiondomain "github.com/Kon-404/tracilo/internal/submission/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	clock.Module,
	auth.Module,
	email.Module,
	pdf.Module,
	organization.Module,
	invitation.Module,
	checklist.Module,
	submission.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.L().Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					zap.L().Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	authSvc         authdomain.Service
	sessions        *session.Manager
	genID           *snowflake.Node
	organizationSvc orgdomain.Service
	invitationSvc   invitedomain.Service
	checklistSvc    checklistdomain.Service
	submissionSvc   submissiondomain.Service
	limiter         *ratelimit.TokenBucket
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	AuthSvc         authdomain.Service
	Sessions        *session.Manager
	GenID           *snowflake.Node
	OrganizationSvc orgdomain.Service
	InvitationSvc   invitedomain.Service
	ChecklistSvc    checklistdomain.Service
	SubmissionSvc   submissiondomain.Service
	Limiter         *ratelimit.TokenBucket `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authSvc:         p.AuthSvc,
		sessions:        p.Sessions,
		genID:           p.GenID,
		organizationSvc: p.OrganizationSvc,
		invitationSvc:   p.InvitationSvc,
		checklistSvc:    p.ChecklistSvc,
		submissionSvc:   p.SubmissionSvc,
		limiter:         p.Limiter,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	api.GET("/organizations", s.ListOrganizations)
	api.POST("/organizations", s.CreateOrganization)
	api.DELETE("/organizations/:id", s.DeleteOrganization)
	api.POST("/organizations/switch", s.SwitchOrganization)

	api.POST("/invitations/:id/accept", s.AcceptInvite)
	api.POST("/invitations/:id/decline", s.DeclineInvite)
	api.GET("/invitations", s.ListMyInvites)

	// Everything below operates inside the caller's active organization.
	org := api.Group("", s.OrgContext())

	org.POST("/organization/transfer-ownership", s.TransferOwnership)
	org.GET("/organization/members", s.ListMembers)
	org.POST("/organization/members", s.AddMember)
	org.PUT("/organization/members/:id", s.UpdateMember)
	org.DELETE("/organization/members/:id", s.RemoveMember)

	org.POST("/invitations", s.CreateInvite)

	org.GET("/checklists", s.ListChecklists)
	org.GET("/checklists/:id", s.GetChecklist)

	// Template management is owner/admin only; reads stay open to members.
	manage := org.Group("", s.RequireRole(orgdomain.RoleOwner, orgdomain.RoleAdmin))
	manage.POST("/checklists", s.CreateChecklist)
	manage.PATCH("/checklists/:id", s.UpdateChecklist)
	manage.DELETE("/checklists/:id", s.DeleteChecklist)

	org.GET("/submissions", s.ListSubmissions)
	org.POST("/submissions", s.CreateSubmission)
	org.GET("/submissions/:id", s.GetSubmission)
	org.POST("/submissions/:id/complete", s.CompleteSubmission)
	org.GET("/submissions/:id/pdf", s.SubmissionPDF)
}

func (s *Server) registerPublicRoutes() {
	s.engine.GET("/api/invitations/by-token",
		s.RateLimit("invite_lookup", 1, 30),
		s.LookupInvite,
	)
}

func (s *Server) subject(c *gin.Context) *authdomain.Subject {
	v, ok := c.Get(contextSubjectKey)
	if !ok {
		return nil
	}
	subject, ok := v.(*authdomain.Subject)
	if !ok {
		return nil
	}
	return subject
}
