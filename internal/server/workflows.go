package server

import (
	"encoding/json"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	workflowdomain "github.com/vexaai/vexa/internal/workflow/domain"
)

func (s *Server) ListWorkflows(c *gin.Context) {
	workflows, err := s.workflowSvc.List(c.Request.Context(), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"workflows": workflows,
	})
}

func (s *Server) GetWorkflow(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, workflowdomain.ErrNotFound)
		return
	}

	workflow, err := s.workflowSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !workflow.IsActive {
		AbortWithError(c, workflowdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"workflow": workflow,
	})
}

func (s *Server) DownloadWorkflow(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, workflowdomain.ErrNotFound)
		return
	}

	workflow, err := s.workflowSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	allowed, err := s.entitlementSvc.HasAccess(c.Request.Context(), claims.Email, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !allowed {
		AbortWithError(c, ErrForbidden)
		return
	}

	s.metrics.RecordDownload(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"name":     workflow.Name,
		"workflow": json.RawMessage(workflow.Definition),
	})
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(raw)
}
