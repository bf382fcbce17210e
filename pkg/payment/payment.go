package payment

import (
	"context"
	"time"
)

// PaymentRequest describes a token purchase being handed to the external
// gateway. The core never talks to a concrete processor; it only emits these.
type PaymentRequest struct {
	UserID      uint
	AmountINR   int64
	Tokens      int64
	OrderID     string // unique order reference, echoed back in the webhook
	Description string
	ExpiresIn   time.Duration
}

type PaymentResponse struct {
	Reference   string
	Status      string
	CheckoutURL string
	ExpiresAt   time.Time
}

// PayoutRequest drives a token withdrawal through the gateway.
type PayoutRequest struct {
	UserID    uint
	AmountINR int64
	Reference string
}

type Provider interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error)
	VerifyPayment(ctx context.Context, reference string) (bool, error)
	InitiatePayout(ctx context.Context, req PayoutRequest) error
}
