package server

import (
	"net/http"

	orgdomain "github.com/Kon-404/tracilo/internal/organization/domain"
	"github.com/Kon-404/tracilo/internal/orgcontext"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
}

type switchOrganizationRequest struct {
	OrgID string `json:"org_id"`
}

type transferOwnershipRequest struct {
	MembershipID string `json:"membership_id"`
	Confirm      string `json:"confirm"`
}

func (s *Server) ListOrganizations(c *gin.Context) {
	subject := s.subject(c)
	if subject == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.organizationSvc.ListWithActive(c.Request.Context(), subject.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateOrganization(c *gin.Context) {
	subject := s.subject(c)
	if subject == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	org, err := s.organizationSvc.Create(c.Request.Context(), subject.UserID, orgdomain.CreateOrganizationRequest{
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (s *Server) DeleteOrganization(c *gin.Context) {
	subject := s.subject(c)
	if subject == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	orgID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.organizationSvc.Delete(c.Request.Context(), subject.UserID, orgID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) SwitchOrganization(c *gin.Context) {
	subject := s.subject(c)
	if subject == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req switchOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	orgID, err := snowflake.ParseString(req.OrgID)
	if err != nil {
		AbortWithError(c, orgdomain.ErrInvalidOrganization)
		return
	}

	if err := s.organizationSvc.SwitchActive(c.Request.Context(), subject.UserID, orgID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_org_id": orgID.String()})
}

func (s *Server) TransferOwnership(c *gin.Context) {
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

	var req transferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.organizationSvc.TransferOwnership(c.Request.Context(), subject.UserID, orgID, orgdomain.TransferOwnershipRequest{
		MembershipID: req.MembershipID,
		Confirm:      req.Confirm,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
