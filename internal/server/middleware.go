package server

import (
	"github.com/Kon-404/tracilo/internal/orgcontext"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contextSubjectKey = "auth_subject"

// AuthRequired resolves the session cookie into an authenticated subject.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		subject, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextSubjectKey, subject)
		c.Next()
	}
}

// OrgContext resolves the caller's active organization and injects it into
// the request context. Callers without any membership get 403 on org-scoped
// routes.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := s.subject(c)
		if subject == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		orgID, err := s.organizationSvc.ResolveActiveOrg(c.Request.Context(), subject.UserID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if orgID == 0 {
			AbortWithError(c, ErrForbidden)
			return
		}

		c.Request = c.Request.WithContext(orgcontext.WithOrgID(c.Request.Context(), int64(orgID)))
		c.Next()
	}
}

// RequireRole gates a route on the caller's role in the active organization.
func (s *Server) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := s.subject(c)
		if subject == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrForbidden)
			return
		}

		role, err := s.organizationSvc.RoleFor(c.Request.Context(), orgID, subject.UserID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

// RateLimit throttles unauthenticated endpoints per client IP. A nil bucket
// (no redis configured) disables limiting entirely.
func (s *Server) RateLimit(name string, rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		key := "ratelimit:" + name + ":" + c.ClientIP()
		res, err := s.limiter.Allow(c.Request.Context(), key, rate, burst)
		if err != nil {
			// Redis being down should not take the endpoint with it.
			zap.L().Warn("rate limiter unavailable", zap.String("limiter", name), zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
