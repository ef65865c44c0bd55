package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/vexaai/vexa/internal/config"
	entitlementdomain "github.com/vexaai/vexa/internal/entitlement/domain"
	"github.com/vexaai/vexa/internal/observability/metrics"
	"github.com/vexaai/vexa/internal/payment/domain"
	workflowdomain "github.com/vexaai/vexa/internal/workflow/domain"
	"github.com/vexaai/vexa/pkg/currency"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	providerName       = "paystack"
	eventChargeSuccess = "charge.success"
	callbackPath       = "/payment-success"
)

type Params struct {
	fx.In

	Config       config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	Workflows    workflowdomain.Repository
	Entitlements entitlementdomain.Repository
	Gateway      domain.Gateway
	Metrics      *metrics.Metrics
}

type Service struct {
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	workflows    workflowdomain.Repository
	entitlements entitlementdomain.Repository
	gateway      domain.Gateway
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		cfg:          p.Config,
		db:           p.DB,
		log:          p.Log.Named("payment.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		workflows:    p.Workflows,
		entitlements: p.Entitlements,
		gateway:      p.Gateway,
		metrics:      p.Metrics,
	}
}

func (s *Service) Initialize(ctx context.Context, req domain.InitializeRequest) (*domain.CheckoutSession, error) {
	if !s.configured() {
		return nil, domain.ErrNotConfigured
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	amountMinor, err := currency.ToMinorUnits(req.Amount)
	if err != nil || amountMinor <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	purchaseType := strings.TrimSpace(req.PurchaseType)
	if purchaseType != domain.PurchaseSingle && purchaseType != domain.PurchaseAllAccess {
		return nil, domain.ErrInvalidPurchaseType
	}

	if err := s.enforceListPrice(purchaseType, amountMinor); err != nil {
		return nil, err
	}

	metadata := domain.Metadata{PurchaseType: purchaseType}
	if purchaseType == domain.PurchaseSingle {
		if req.WorkflowID == nil {
			return nil, domain.ErrWorkflowRequired
		}
		workflow, err := s.workflows.FindByID(ctx, s.db, *req.WorkflowID)
		if err != nil {
			return nil, err
		}
		if workflow == nil || !workflow.IsActive {
			return nil, workflowdomain.ErrNotFound
		}
		metadata.WorkflowID = workflow.ID.String()
		metadata.WorkflowName = workflow.Name
	}

	session, err := s.gateway.Initialize(ctx, domain.InitializeTxn{
		Email:       email,
		AmountMinor: amountMinor,
		Currency:    s.cfg.Currency,
		Reference:   newReference(),
		CallbackURL: s.cfg.FrontendURL + callbackPath,
		Metadata:    metadata,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPaymentEvent(ctx, providerName, "initialize")
	s.log.Info("checkout initialized",
		zap.String("reference", session.Reference),
		zap.String("purchase_type", purchaseType),
	)
	return session, nil
}

func (s *Service) Verify(ctx context.Context, reference string) (*domain.VerificationResult, error) {
	if !s.configured() {
		return nil, domain.ErrNotConfigured
	}

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domain.ErrInvalidPayload
	}

	txn, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	result := &domain.VerificationResult{
		Amount:        currency.FromMinorUnits(txn.AmountMinor),
		CustomerEmail: txn.CustomerEmail,
		Metadata:      txn.Metadata,
	}
	if txn.Status != "success" {
		s.metrics.RecordPaymentEvent(ctx, providerName, "verify_pending")
		return result, nil
	}

	sale, err := s.reconcile(ctx, txn)
	if err != nil {
		return nil, err
	}
	result.Verified = true
	result.Sale = sale

	s.metrics.RecordPaymentEvent(ctx, providerName, "verify_success")
	return result, nil
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Channel   string `json:"channel"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
		Metadata domain.Metadata `json:"metadata"`
	} `json:"data"`
}

func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.configured() {
		return domain.ErrNotConfigured
	}

	if err := s.gateway.ValidateWebhook(body, signature); err != nil {
		s.metrics.RecordWebhookEvent(ctx, "unknown", "rejected")
		return domain.ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return domain.ErrInvalidPayload
	}

	if event.Event != eventChargeSuccess {
		s.metrics.RecordWebhookEvent(ctx, event.Event, "ignored")
		return nil
	}
	if strings.TrimSpace(event.Data.Reference) == "" {
		return domain.ErrInvalidPayload
	}

	txn := &domain.Transaction{
		Status:        "success",
		Reference:     event.Data.Reference,
		AmountMinor:   event.Data.Amount,
		Currency:      strings.ToUpper(event.Data.Currency),
		Channel:       event.Data.Channel,
		CustomerEmail: strings.ToLower(strings.TrimSpace(event.Data.Customer.Email)),
		Metadata:      event.Data.Metadata,
	}
	if _, err := s.reconcile(ctx, txn); err != nil {
		return err
	}

	s.metrics.RecordWebhookEvent(ctx, event.Event, "reconciled")
	return nil
}

// reconcile records the sale and applies its entitlement effects exactly
// once. Verify and webhook race freely; the sales.reference unique
// constraint picks the single winner.
func (s *Service) reconcile(ctx context.Context, txn *domain.Transaction) (*domain.Sale, error) {
	var sale *domain.Sale

	err := s.db.Transaction(func(tx *gorm.DB) error {
		purchaseType := normalizePurchaseType(txn.Metadata.PurchaseType)

		var workflowID *snowflake.ID
		if raw := strings.TrimSpace(txn.Metadata.WorkflowID); raw != "" {
			if id, err := snowflake.ParseString(raw); err == nil {
				workflowID = &id
			}
		}

		now := time.Now().UTC()
		candidate := &domain.Sale{
			ID:            s.genID.Generate(),
			Reference:     txn.Reference,
			CustomerEmail: txn.CustomerEmail,
			WorkflowID:    workflowID,
			WorkflowName:  txn.Metadata.WorkflowName,
			PurchaseType:  purchaseType,
			Amount:        currency.FromMinorUnits(txn.AmountMinor),
			Currency:      txn.Currency,
			Channel:       txn.Channel,
			PaymentStatus: "success",
			CreatedAt:     now,
		}

		inserted, err := s.repo.InsertSale(ctx, tx, candidate)
		if err != nil {
			return err
		}
		if !inserted {
			existing, err := s.repo.FindByReference(ctx, tx, txn.Reference)
			if err != nil {
				return err
			}
			sale = existing
			return nil
		}

		switch {
		case purchaseType == domain.PurchaseAllAccess:
			if _, err := s.entitlements.Grant(ctx, tx, &entitlementdomain.Entitlement{
				ID:            s.genID.Generate(),
				CustomerEmail: txn.CustomerEmail,
				AllAccess:     true,
				SaleReference: txn.Reference,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		case workflowID != nil:
			if err := s.workflows.RecordEntitlement(ctx, tx, *workflowID, candidate.Amount); err != nil {
				return err
			}
			if _, err := s.entitlements.Grant(ctx, tx, &entitlementdomain.Entitlement{
				ID:            s.genID.Generate(),
				CustomerEmail: txn.CustomerEmail,
				WorkflowID:    workflowID,
				SaleReference: txn.Reference,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}

		sale = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale reconciled",
		zap.String("reference", txn.Reference),
		zap.String("purchase_type", sale.PurchaseType),
	)
	return sale, nil
}

func (s *Service) configured() bool {
	return strings.TrimSpace(s.cfg.PaystackSecretKey) != ""
}

// enforceListPrice rejects amounts that do not match the configured
// storefront list price for the purchase type. An unset price leaves the
// amount unconstrained.
func (s *Service) enforceListPrice(purchaseType string, amountMinor int64) error {
	list := s.cfg.SingleWorkflowPrice
	if purchaseType == domain.PurchaseAllAccess {
		list = s.cfg.AllAccessPrice
	}
	if strings.TrimSpace(list) == "" {
		return nil
	}
	listMinor, err := currency.ToMinorUnits(list)
	if err != nil {
		return nil
	}
	if amountMinor != listMinor {
		return domain.ErrInvalidAmount
	}
	return nil
}

func normalizePurchaseType(raw string) string {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case domain.PurchaseAllAccess, "all_access":
		return domain.PurchaseAllAccess
	default:
		return domain.PurchaseSingle
	}
}

func newReference() string {
	id := uuid.New()
	return "VEXA-" + strings.ToUpper(hex.EncodeToString(id[:]))[:12]
}
