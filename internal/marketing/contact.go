package marketing

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact forwards a prospect's message to the sales inbox. Unlike the invite
// path, delivery is part of the request: if every attempt fails the caller
// gets a 502 and should retry later.
func (s *Server) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	name := strings.TrimSpace(req.Name)
	fromEmail := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	if name == "" || fromEmail == "" || message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}
	if !strings.Contains(fromEmail, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	err := s.sender.SendTemplate(c.Request.Context(), []string{s.cfg.ContactInbox}, "contact_message", map[string]interface{}{
		"name":    name,
		"email":   fromEmail,
		"message": message,
	})
	if err != nil {
		zap.L().Error("contact message delivery failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "message could not be delivered, please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
