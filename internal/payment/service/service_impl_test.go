package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/config"
	entitlementrepo "github.com/vexaai/vexa/internal/entitlement/repository"
	"github.com/vexaai/vexa/internal/payment/domain"
	"github.com/vexaai/vexa/internal/payment/repository"
	workflowrepo "github.com/vexaai/vexa/internal/workflow/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:paymentdb_%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE workflows (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC NOT NULL,
			tags TEXT NOT NULL DEFAULT '[]',
			definition TEXT NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			downloads INTEGER NOT NULL DEFAULT 0,
			revenue NUMERIC NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE sales (
			id INTEGER PRIMARY KEY,
			reference TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			workflow_id INTEGER,
			workflow_name TEXT NOT NULL DEFAULT '',
			purchase_type TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			currency TEXT NOT NULL,
			channel TEXT NOT NULL DEFAULT '',
			payment_status TEXT NOT NULL DEFAULT 'success',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_sales_reference ON sales (reference)`,
		`CREATE TABLE entitlements (
			id INTEGER PRIMARY KEY,
			customer_email TEXT NOT NULL,
			workflow_id INTEGER,
			all_access BOOLEAN NOT NULL DEFAULT 0,
			sale_reference TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_entitlements_workflow
			ON entitlements (customer_email, workflow_id) WHERE workflow_id IS NOT NULL`,
		`CREATE UNIQUE INDEX idx_entitlements_all_access
			ON entitlements (customer_email) WHERE all_access`,
	}
	for _, stmt := range schema {
		if err := gdb.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return gdb
}

type fakeGateway struct {
	txn       *domain.Transaction
	verifyErr error

	mu       sync.Mutex
	initTxns []domain.InitializeTxn
}

func (f *fakeGateway) Initialize(_ context.Context, txn domain.InitializeTxn) (*domain.CheckoutSession, error) {
	f.mu.Lock()
	f.initTxns = append(f.initTxns, txn)
	f.mu.Unlock()
	return &domain.CheckoutSession{
		AuthorizationURL: "https://checkout.paystack.com/abc123",
		AccessCode:       "abc123",
		Reference:        txn.Reference,
	}, nil
}

func (f *fakeGateway) Verify(context.Context, string) (*domain.Transaction, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	txn := *f.txn
	return &txn, nil
}

func (f *fakeGateway) ValidateWebhook(_ []byte, signature string) error {
	if signature != "valid-signature" {
		return domain.ErrInvalidSignature
	}
	return nil
}

func newService(t *testing.T, gdb *gorm.DB, gw domain.Gateway) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake.NewNode: %v", err)
	}
	return New(Params{
		Config: config.Config{
			PaystackSecretKey: "sk_test_secret",
			Currency:          "GHS",
			FrontendURL:       "http://localhost:8000",
		},
		DB:           gdb,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         repository.Provide(),
		Workflows:    workflowrepo.Provide(),
		Entitlements: entitlementrepo.Provide(),
		Gateway:      gw,
	})
}

func seedWorkflow(t *testing.T, gdb *gorm.DB, id int64, name string, price float64) {
	t.Helper()
	err := gdb.Exec(
		`INSERT INTO workflows (id, name, slug, price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		id, name, name, price,
	).Error
	if err != nil {
		t.Fatalf("seed workflow: %v", err)
	}
}

func countRows(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var count int64
	if err := gdb.Raw("SELECT COUNT(*) FROM " + table).Scan(&count).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}

func successTxn(reference string, workflowID int64) *domain.Transaction {
	return &domain.Transaction{
		Status:        "success",
		Reference:     reference,
		AmountMinor:   14900,
		Currency:      "GHS",
		Channel:       "card",
		CustomerEmail: "buyer@example.com",
		Metadata: domain.Metadata{
			PurchaseType: domain.PurchaseSingle,
			WorkflowID:   fmt.Sprintf("%d", workflowID),
			WorkflowName: "Email Bot",
		},
	}
}

func TestVerifyReconcilesExactlyOnce(t *testing.T) {
	gdb := setupDB(t)
	seedWorkflow(t, gdb, 42, "email-bot", 149)
	gw := &fakeGateway{txn: successTxn("VEXA-AAAA11112222", 42)}
	svc := newService(t, gdb, gw)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := svc.Verify(ctx, "VEXA-AAAA11112222")
		if err != nil {
			t.Fatalf("Verify #%d: %v", i, err)
		}
		if !result.Verified {
			t.Fatalf("Verify #%d: expected verified", i)
		}
		if result.Amount != 149 {
			t.Fatalf("amount = %v", result.Amount)
		}
	}

	if got := countRows(t, gdb, "sales"); got != 1 {
		t.Fatalf("sales rows = %d, want 1", got)
	}
	if got := countRows(t, gdb, "entitlements"); got != 1 {
		t.Fatalf("entitlement rows = %d, want 1", got)
	}

	var downloads int64
	var revenue float64
	if err := gdb.Raw(`SELECT downloads FROM workflows WHERE id = 42`).Scan(&downloads).Error; err != nil {
		t.Fatalf("read downloads: %v", err)
	}
	if err := gdb.Raw(`SELECT revenue FROM workflows WHERE id = 42`).Scan(&revenue).Error; err != nil {
		t.Fatalf("read revenue: %v", err)
	}
	if downloads != 1 {
		t.Fatalf("downloads = %d, want 1", downloads)
	}
	if revenue != 149 {
		t.Fatalf("revenue = %v, want 149", revenue)
	}
}

func TestVerifyPendingWritesNothing(t *testing.T) {
	gdb := setupDB(t)
	txn := successTxn("VEXA-BBBB11112222", 42)
	txn.Status = "pending"
	svc := newService(t, gdb, &fakeGateway{txn: txn})

	result, err := svc.Verify(context.Background(), "VEXA-BBBB11112222")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Verified {
		t.Fatal("expected verified=false for pending transaction")
	}
	if got := countRows(t, gdb, "sales"); got != 0 {
		t.Fatalf("sales rows = %d, want 0", got)
	}
}

func TestVerifyAndWebhookRace(t *testing.T) {
	gdb := setupDB(t)
	seedWorkflow(t, gdb, 42, "email-bot", 149)
	txn := successTxn("VEXA-CCCC11112222", 42)
	svc := newService(t, gdb, &fakeGateway{txn: txn})
	ctx := context.Background()

	body, err := json.Marshal(map[string]interface{}{
		"event": "charge.success",
		"data": map[string]interface{}{
			"status":    "success",
			"reference": txn.Reference,
			"amount":    txn.AmountMinor,
			"currency":  "GHS",
			"channel":   "card",
			"customer":  map[string]string{"email": "buyer@example.com"},
			"metadata":  txn.Metadata,
		},
	})
	if err != nil {
		t.Fatalf("marshal webhook body: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := svc.Verify(ctx, txn.Reference); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if err := svc.HandleWebhook(ctx, body, "valid-signature"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent reconcile: %v", err)
	}

	if got := countRows(t, gdb, "sales"); got != 1 {
		t.Fatalf("sales rows = %d, want 1", got)
	}
	var downloads int64
	if err := gdb.Raw(`SELECT downloads FROM workflows WHERE id = 42`).Scan(&downloads).Error; err != nil {
		t.Fatalf("read downloads: %v", err)
	}
	if downloads != 1 {
		t.Fatalf("downloads = %d, want 1", downloads)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	gdb := setupDB(t)
	svc := newService(t, gdb, &fakeGateway{txn: successTxn("VEXA-DDDD11112222", 42)})

	body := []byte(`{"event":"charge.success","data":{"reference":"VEXA-DDDD11112222"}}`)
	if err := svc.HandleWebhook(context.Background(), body, "forged"); err != domain.ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if got := countRows(t, gdb, "sales"); got != 0 {
		t.Fatalf("sales rows = %d, want 0", got)
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	gdb := setupDB(t)
	svc := newService(t, gdb, &fakeGateway{txn: successTxn("VEXA-EEEE11112222", 42)})

	body := []byte(`{"event":"transfer.success","data":{"reference":"VEXA-EEEE11112222"}}`)
	if err := svc.HandleWebhook(context.Background(), body, "valid-signature"); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if got := countRows(t, gdb, "sales"); got != 0 {
		t.Fatalf("sales rows = %d, want 0", got)
	}
}

func TestAllAccessGrantsCatalogWideEntitlement(t *testing.T) {
	gdb := setupDB(t)
	txn := &domain.Transaction{
		Status:        "success",
		Reference:     "VEXA-FFFF11112222",
		AmountMinor:   79900,
		Currency:      "GHS",
		CustomerEmail: "buyer@example.com",
		Metadata:      domain.Metadata{PurchaseType: domain.PurchaseAllAccess},
	}
	svc := newService(t, gdb, &fakeGateway{txn: txn})

	result, err := svc.Verify(context.Background(), txn.Reference)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Verified {
		t.Fatal("expected verified")
	}

	var allAccess int64
	err = gdb.Raw(`SELECT COUNT(*) FROM entitlements WHERE customer_email = ? AND all_access`, "buyer@example.com").Scan(&allAccess).Error
	if err != nil {
		t.Fatalf("count entitlements: %v", err)
	}
	if allAccess != 1 {
		t.Fatalf("all-access rows = %d, want 1", allAccess)
	}
}

func TestInitializeValidation(t *testing.T) {
	gdb := setupDB(t)
	seedWorkflow(t, gdb, 42, "email-bot", 149)
	gw := &fakeGateway{}
	svc := newService(t, gdb, gw)
	ctx := context.Background()
	workflowID := snowflake.ID(42)

	cases := []struct {
		name string
		req  domain.InitializeRequest
		want error
	}{
		{"bad email", domain.InitializeRequest{Email: "nope", Amount: "149", PurchaseType: domain.PurchaseSingle, WorkflowID: &workflowID}, domain.ErrInvalidEmail},
		{"bad amount", domain.InitializeRequest{Email: "a@b.com", Amount: "149.999", PurchaseType: domain.PurchaseSingle, WorkflowID: &workflowID}, domain.ErrInvalidAmount},
		{"zero amount", domain.InitializeRequest{Email: "a@b.com", Amount: "0", PurchaseType: domain.PurchaseSingle, WorkflowID: &workflowID}, domain.ErrInvalidAmount},
		{"bad purchase type", domain.InitializeRequest{Email: "a@b.com", Amount: "149", PurchaseType: "subscription", WorkflowID: &workflowID}, domain.ErrInvalidPurchaseType},
		{"missing workflow", domain.InitializeRequest{Email: "a@b.com", Amount: "149", PurchaseType: domain.PurchaseSingle}, domain.ErrWorkflowRequired},
	}
	for _, tc := range cases {
		if _, err := svc.Initialize(ctx, tc.req); err != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestInitializeEnforcesConfiguredListPrices(t *testing.T) {
	gdb := setupDB(t)
	seedWorkflow(t, gdb, 42, "email-bot", 149)
	gw := &fakeGateway{}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake.NewNode: %v", err)
	}
	svc := New(Params{
		Config: config.Config{
			PaystackSecretKey:   "sk_test_secret",
			Currency:            "GHS",
			FrontendURL:         "http://localhost:8000",
			SingleWorkflowPrice: "149",
			AllAccessPrice:      "799",
		},
		DB:           gdb,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         repository.Provide(),
		Workflows:    workflowrepo.Provide(),
		Entitlements: entitlementrepo.Provide(),
		Gateway:      gw,
	})
	ctx := context.Background()
	workflowID := snowflake.ID(42)

	cases := []struct {
		name string
		req  domain.InitializeRequest
		want error
	}{
		{"single off list price", domain.InitializeRequest{Email: "a@b.com", Amount: "120", PurchaseType: domain.PurchaseSingle, WorkflowID: &workflowID}, domain.ErrInvalidAmount},
		{"single at list price", domain.InitializeRequest{Email: "a@b.com", Amount: "149", PurchaseType: domain.PurchaseSingle, WorkflowID: &workflowID}, nil},
		{"all-access off list price", domain.InitializeRequest{Email: "a@b.com", Amount: "798", PurchaseType: domain.PurchaseAllAccess}, domain.ErrInvalidAmount},
		{"all-access at list price", domain.InitializeRequest{Email: "a@b.com", Amount: "799", PurchaseType: domain.PurchaseAllAccess}, nil},
	}
	for _, tc := range cases {
		if _, err := svc.Initialize(ctx, tc.req); err != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestInitializeBuildsGatewayTransaction(t *testing.T) {
	gdb := setupDB(t)
	seedWorkflow(t, gdb, 42, "Email Bot", 149)
	gw := &fakeGateway{}
	svc := newService(t, gdb, gw)
	workflowID := snowflake.ID(42)

	session, err := svc.Initialize(context.Background(), domain.InitializeRequest{
		Email:        "Buyer@Example.com",
		Amount:       "149",
		PurchaseType: domain.PurchaseSingle,
		WorkflowID:   &workflowID,
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if session.AuthorizationURL == "" || session.Reference == "" {
		t.Fatal("incomplete checkout session")
	}

	if len(gw.initTxns) != 1 {
		t.Fatalf("gateway calls = %d", len(gw.initTxns))
	}
	txn := gw.initTxns[0]
	if txn.AmountMinor != 14900 {
		t.Fatalf("amount minor = %d, want 14900", txn.AmountMinor)
	}
	if txn.Email != "buyer@example.com" {
		t.Fatalf("email = %s", txn.Email)
	}
	if txn.Currency != "GHS" {
		t.Fatalf("currency = %s", txn.Currency)
	}
	if txn.CallbackURL != "http://localhost:8000/payment-success" {
		t.Fatalf("callback = %s", txn.CallbackURL)
	}
	if len(txn.Reference) != len("VEXA-")+12 || txn.Reference[:5] != "VEXA-" {
		t.Fatalf("reference = %s", txn.Reference)
	}
	if txn.Metadata.WorkflowName != "Email Bot" {
		t.Fatalf("metadata workflow name = %s", txn.Metadata.WorkflowName)
	}
}

func TestNotConfigured(t *testing.T) {
	gdb := setupDB(t)
	node, _ := snowflake.NewNode(1)
	svc := New(Params{
		Config:       config.Config{},
		DB:           gdb,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         repository.Provide(),
		Workflows:    workflowrepo.Provide(),
		Entitlements: entitlementrepo.Provide(),
		Gateway:      &fakeGateway{},
	})

	if _, err := svc.Initialize(context.Background(), domain.InitializeRequest{}); err != domain.ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := svc.Verify(context.Background(), "ref"); err != domain.ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := svc.HandleWebhook(context.Background(), nil, ""); err != domain.ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
