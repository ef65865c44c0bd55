package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	PurchaseSingle    = "single"
	PurchaseAllAccess = "all-access"
)

// CheckoutSession is what the frontend needs to send the buyer to the
// gateway's hosted checkout page.
type CheckoutSession struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Sale is the durable record of a successful payment. Exactly one row exists
// per gateway reference regardless of how many times the payment is verified.
type Sale struct {
	ID            snowflake.ID  `json:"id"`
	Reference     string        `json:"reference"`
	CustomerEmail string        `json:"customer_email"`
	WorkflowID    *snowflake.ID `json:"workflow_id,omitempty"`
	WorkflowName  string        `json:"workflow_name"`
	PurchaseType  string        `json:"purchase_type"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Channel       string        `json:"channel"`
	PaymentStatus string        `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Metadata rides along with the gateway transaction and comes back verbatim
// on verify and webhook payloads.
type Metadata struct {
	PurchaseType string `json:"purchase_type"`
	WorkflowID   string `json:"workflow_id,omitempty"`
	WorkflowName string `json:"workflow_name,omitempty"`
}

type InitializeRequest struct {
	Email        string
	Amount       string
	PurchaseType string
	WorkflowID   *snowflake.ID
}

type VerificationResult struct {
	Verified      bool     `json:"verified"`
	Amount        float64  `json:"amount"`
	CustomerEmail string   `json:"customer"`
	Metadata      Metadata `json:"metadata"`
	Sale          *Sale    `json:"-"`
}

// InitializeTxn is the gateway-side view of a checkout: amounts are minor
// units, never floats.
type InitializeTxn struct {
	Email       string
	AmountMinor int64
	Currency    string
	Reference   string
	CallbackURL string
	Metadata    Metadata
}

// Transaction is a gateway transaction as reported by verify or webhook.
type Transaction struct {
	Status        string
	Reference     string
	AmountMinor   int64
	Currency      string
	Channel       string
	CustomerEmail string
	Metadata      Metadata
}

// Gateway abstracts the payment provider HTTP API.
type Gateway interface {
	Initialize(ctx context.Context, txn InitializeTxn) (*CheckoutSession, error)
	Verify(ctx context.Context, reference string) (*Transaction, error)
	// ValidateWebhook checks the signature header against the raw body.
	ValidateWebhook(body []byte, signature string) error
}

var (
	ErrNotConfigured       = errors.New("payments_not_configured")
	ErrGateway             = errors.New("gateway_error")
	ErrGatewayTimeout      = errors.New("gateway_timeout")
	ErrInvalidSignature    = errors.New("invalid_signature")
	ErrInvalidPayload      = errors.New("invalid_payload")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidPurchaseType = errors.New("invalid_purchase_type")
	ErrWorkflowRequired    = errors.New("workflow_required")
)
