package server

import (
	"net/http"
	"strings"

	authdomain "github.com/Kon-404/tracilo/internal/auth/domain"
	invitedomain "github.com/Kon-404/tracilo/internal/invitation/domain"
	"github.com/Kon-404/tracilo/internal/orgcontext"
	"github.com/gin-gonic/gin"
)

type createInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) CreateInvite(c *gin.Context) {
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

	var req createInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invitationSvc.Create(c.Request.Context(), s.caller(subject), orgID, invitedomain.CreateInviteRequest{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) LookupInvite(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		AbortWithError(c, newValidationError("token", "token_required", "token is required"))
		return
	}

	resp, err := s.invitationSvc.LookupByToken(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) AcceptInvite(c *gin.Context) {
	subject := s.subject(c)
	if subject == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	inviteID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invitationSvc.Accept(c.Request.Context(), s.caller(subject), inviteID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeclineInvite(c *gin.Context) {
	subject := s.subject(c)
	if subject == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	inviteID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.invitationSvc.Decline(c.Request.Context(), s.caller(subject), inviteID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListMyInvites(c *gin.Context) {
	subject := s.subject(c)
	if subject == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invites, err := s.invitationSvc.ListForCaller(c.Request.Context(), s.caller(subject))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invites})
}

func (s *Server) caller(subject *authdomain.Subject) invitedomain.Caller {
	return invitedomain.Caller{
		UserID:      subject.UserID,
		Email:       subject.Email,
		DisplayName: subject.DisplayName,
	}
}
