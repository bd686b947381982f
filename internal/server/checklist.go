package server

import (
	"net/http"

	checklistdomain "github.com/Kon-404/tracilo/internal/checklist/domain"
	"github.com/Kon-404/tracilo/internal/orgcontext"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type createChecklistRequest struct {
	Title  string         `json:"title"`
	Trade  string         `json:"trade"`
	Fields datatypes.JSON `json:"fields"`
}

type updateChecklistRequest struct {
	Title  *string         `json:"title"`
	Trade  *string         `json:"trade"`
	Fields *datatypes.JSON `json:"fields"`
	Active *bool           `json:"active"`
}

func (s *Server) ListChecklists(c *gin.Context) {
	orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrForbidden)
		return
	}

	templates, err := s.checklistSvc.List(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checklists": templates})
}

func (s *Server) CreateChecklist(c *gin.Context) {
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

	var req createChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tmpl, err := s.checklistSvc.Create(c.Request.Context(), orgID, subject.UserID, checklistdomain.CreateTemplateRequest{
		Title:  req.Title,
		Trade:  req.Trade,
		Fields: req.Fields,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

func (s *Server) GetChecklist(c *gin.Context) {
	orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrForbidden)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	tmpl, err := s.checklistSvc.Get(c.Request.Context(), orgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (s *Server) UpdateChecklist(c *gin.Context) {
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
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tmpl, err := s.checklistSvc.Update(c.Request.Context(), orgID, subject.UserID, id, checklistdomain.UpdateTemplateRequest{
		Title:  req.Title,
		Trade:  req.Trade,
		Fields: req.Fields,
		Active: req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (s *Server) DeleteChecklist(c *gin.Context) {
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
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.checklistSvc.Delete(c.Request.Context(), orgID, subject.UserID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
