package domain

import "context"

type Service interface {
	Initialize(ctx context.Context, req InitializeRequest) (*CheckoutSession, error)
	Verify(ctx context.Context, reference string) (*VerificationResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}
