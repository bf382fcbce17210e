package payment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubProvider is a no-op gateway for development; swap in a real processor
// adapter in production.
type StubProvider struct{}

func (s *StubProvider) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	ref := fmt.Sprintf("stub_%s_%d", req.OrderID, req.UserID)
	return &PaymentResponse{
		Reference: ref,
		Status:    "PENDING",
		ExpiresAt: time.Now().Add(req.ExpiresIn),
	}, nil
}

func (s *StubProvider) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	return strings.HasPrefix(reference, "stub_"), nil
}

func (s *StubProvider) InitiatePayout(ctx context.Context, req PayoutRequest) error {
	return nil
}
