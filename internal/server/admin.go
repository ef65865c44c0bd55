package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	authdomain "github.com/vexaai/vexa/internal/auth/domain"
	requestdomain "github.com/vexaai/vexa/internal/request/domain"
	workflowdomain "github.com/vexaai/vexa/internal/workflow/domain"
)

func (s *Server) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.authSvc.AdminLogin(c.Request.Context(), authdomain.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   resp.Token,
		"user":    resp.User,
	})
}

func (s *Server) AdminStats(c *gin.Context) {
	stats, err := s.adminSvc.DashboardStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

func (s *Server) AdminListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	list, err := s.adminSvc.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   list.Users,
		"total":   list.Total,
	})
}

func (s *Server) AdminListRequests(c *gin.Context) {
	requests, err := s.requestSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": requests,
	})
}

func (s *Server) AdminUpdateRequestStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, requestdomain.ErrNotFound)
		return
	}

	status := c.Query("status")
	if status == "" {
		AbortWithError(c, requestdomain.ErrInvalidStatus)
		return
	}

	updated, err := s.requestSvc.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"request": updated,
	})
}

func (s *Server) AdminListWorkflows(c *gin.Context) {
	workflows, err := s.workflowSvc.List(c.Request.Context(), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"workflows": workflows,
	})
}

func (s *Server) AdminGetWorkflow(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"workflow": workflow,
	})
}

type createWorkflowRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Icon        string          `json:"icon"`
	Description string          `json:"description"`
	Price       json.Number     `json:"price"`
	Tags        []string        `json:"tags"`
	Definition  json.RawMessage `json:"definition"`
}

func (s *Server) AdminCreateWorkflow(c *gin.Context) {
	var req createWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	workflow, err := s.workflowSvc.Create(c.Request.Context(), workflowdomain.CreateWorkflowRequest{
		Name:        req.Name,
		Category:    req.Category,
		Icon:        req.Icon,
		Description: req.Description,
		Price:       req.Price.String(),
		Tags:        req.Tags,
		Definition:  req.Definition,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"workflow": workflow,
	})
}

type updateWorkflowRequest struct {
	Name        *string         `json:"name"`
	Category    *string         `json:"category"`
	Icon        *string         `json:"icon"`
	Description *string         `json:"description"`
	Price       *json.Number    `json:"price"`
	Tags        []string        `json:"tags"`
	Definition  json.RawMessage `json:"definition"`
	IsActive    *bool           `json:"is_active"`
}

func (s *Server) AdminUpdateWorkflow(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, workflowdomain.ErrNotFound)
		return
	}

	var req updateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var price *string
	if req.Price != nil {
		value := req.Price.String()
		price = &value
	}

	workflow, err := s.workflowSvc.Update(c.Request.Context(), id, workflowdomain.UpdateWorkflowRequest{
		Name:        req.Name,
		Category:    req.Category,
		Icon:        req.Icon,
		Description: req.Description,
		Price:       price,
		Tags:        req.Tags,
		Definition:  req.Definition,
		IsActive:    req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"workflow": workflow,
	})
}

func (s *Server) AdminDeleteWorkflow(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, workflowdomain.ErrNotFound)
		return
	}

	if err := s.workflowSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "workflow deleted",
	})
}
