package payment

import (
	"context"
	"errors"
	"net/url"
)

var (
	// ErrInvalidSignature means the callback hash did not verify; the
	// callback must be rejected without touching any state.
	ErrInvalidSignature = errors.New("invalid gateway signature")
	// ErrGatewayUnavailable is retryable; initiate is side-effect-free so
	// nothing needs to be undone.
	ErrGatewayUnavailable = errors.New("gateway unavailable")
)

// CheckoutRequest describes one hosted-checkout hand-off. TxnID is the
// merchant transaction id; the gateway echoes it back in the callback and
// it is the idempotency key for settlement.
type CheckoutRequest struct {
	TxnID       string
	UserID      uint
	AmountPaise int64
	Purpose     string // DEPOSIT, EVENT_REGISTRATION, INVESTMENT, COMPANY_REGISTRATION
	ProductInfo string
	FirstName   string
	Email       string
	Phone       string
	SuccessURL  string
	FailureURL  string
}

// CheckoutSession is what the frontend needs to send the user to the
// gateway: either a plain redirect or an HTML form POST with FormData.
type CheckoutSession struct {
	PaymentURL string            `json:"payment_url"`
	FormData   map[string]string `json:"form_data,omitempty"`
	Provider   string            `json:"provider"`
}

// CallbackResult is a verified, parsed gateway callback.
type CallbackResult struct {
	TxnID       string
	GatewayRef  string // gateway-side payment id (mihpayid for PayU)
	Status      string // raw gateway status string
	Succeeded   bool
	AmountPaise int64
	Mode        string // payment mode reported by the gateway (CC, NB, UPI...)
}

// Provider abstracts the hosted gateway. BuildCheckout performs no I/O and
// mutates nothing; VerifyCallback must reject tampered payloads.
type Provider interface {
	BuildCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	VerifyCallback(values url.Values) (*CallbackResult, error)
}
