// Package paystack implements the payment gateway against the Paystack
// transaction API.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/vexaai/vexa/internal/config"
	"github.com/vexaai/vexa/internal/payment/domain"
)

const requestTimeout = 30 * time.Second

type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func New(cfg config.Config) *Client {
	return &Client{
		secretKey: cfg.PaystackSecretKey,
		baseURL:   cfg.PaystackBaseURL,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

type initializePayload struct {
	Email       string          `json:"email"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Reference   string          `json:"reference"`
	CallbackURL string          `json:"callback_url,omitempty"`
	Metadata    domain.Metadata `json:"metadata"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status bool   `json:"status"`
	Data   struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Channel  string `json:"channel"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
		Metadata domain.Metadata `json:"metadata"`
	} `json:"data"`
}

func (c *Client) Initialize(ctx context.Context, txn domain.InitializeTxn) (*domain.CheckoutSession, error) {
	payload, err := json.Marshal(initializePayload{
		Email:       txn.Email,
		Amount:      txn.AmountMinor,
		Currency:    txn.Currency,
		Reference:   txn.Reference,
		CallbackURL: txn.CallbackURL,
		Metadata:    txn.Metadata,
	})
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}

	var resp initializeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode initialize response: %v", domain.ErrGateway, err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: %s", domain.ErrGateway, resp.Message)
	}

	return &domain.CheckoutSession{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (*domain.Transaction, error) {
	body, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}

	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode verify response: %v", domain.ErrGateway, err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: verification unresolved for %s", domain.ErrGateway, reference)
	}

	return &domain.Transaction{
		Status:        resp.Data.Status,
		Reference:     reference,
		AmountMinor:   resp.Data.Amount,
		Currency:      strings.ToUpper(resp.Data.Currency),
		Channel:       resp.Data.Channel,
		CustomerEmail: strings.ToLower(strings.TrimSpace(resp.Data.Customer.Email)),
		Metadata:      resp.Data.Metadata,
	}, nil
}

// ValidateWebhook checks the x-paystack-signature header: HMAC-SHA512 of the
// raw body keyed with the secret key, hex encoded.
func (c *Client) ValidateWebhook(body []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return domain.ErrInvalidSignature
	}

	mac := hmac.New(sha512.New, []byte(c.secretKey))
	_, _ = mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, domain.ErrGatewayTimeout
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrGateway, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ domain.Gateway = (*Client)(nil)
