package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	paymentdomain "github.com/vexaai/vexa/internal/payment/domain"
	requestdomain "github.com/vexaai/vexa/internal/request/domain"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

type initializePaymentRequest struct {
	Email        string      `json:"email"`
	Amount       json.Number `json:"amount"`
	PurchaseType string      `json:"purchase_type"`
	WorkflowID   string      `json:"workflow_id"`
}

func (s *Server) InitializePayment(c *gin.Context) {
	var req initializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var workflowID *snowflake.ID
	if req.WorkflowID != "" {
		id, err := snowflake.ParseString(req.WorkflowID)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		workflowID = &id
	}

	session, err := s.paymentSvc.Initialize(c.Request.Context(), paymentdomain.InitializeRequest{
		Email:        req.Email,
		Amount:       req.Amount.String(),
		PurchaseType: req.PurchaseType,
		WorkflowID:   workflowID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"authorization_url": session.AuthorizationURL,
		"access_code":       session.AccessCode,
		"reference":         session.Reference,
	})
}

func (s *Server) VerifyPayment(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.paymentSvc.Verify(c.Request.Context(), reference)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"verified": result.Verified,
		"amount":   result.Amount,
		"customer": result.CustomerEmail,
		"metadata": result.Metadata,
	})
}

// PaymentWebhook handles gateway callbacks. Processing failures after the
// signature checks out are still acknowledged so the gateway does not retry
// forever; clients can always re-verify.
func (s *Server) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidPayload)
		return
	}

	signature := c.GetHeader("x-paystack-signature")

	err = s.paymentSvc.HandleWebhook(c.Request.Context(), body, signature)
	if err != nil {
		if errors.Is(err, paymentdomain.ErrInvalidSignature) ||
			errors.Is(err, paymentdomain.ErrInvalidPayload) ||
			errors.Is(err, paymentdomain.ErrNotConfigured) {
			AbortWithError(c, err)
			return
		}
		s.log.Error("webhook reconciliation failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type customRequestBody struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	WorkflowDescription string `json:"workflow_description"`
	UseCase             string `json:"use_case"`
	Budget              string `json:"budget"`
	Timeline            string `json:"timeline"`
}

func (s *Server) SubmitCustomRequest(c *gin.Context) {
	var req customRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.requestSvc.Submit(c.Request.Context(), requestdomain.SubmitRequest{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		WorkflowDescription: req.WorkflowDescription,
		UseCase:             req.UseCase,
		Budget:              req.Budget,
		Timeline:            req.Timeline,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "request received",
		"request_id": created.ID,
	})
}
