package payment

import (
	"context"
	"net/url"
	"strings"
)

// StubProvider is a no-op provider for development; callbacks built by
// BuildStubCallback verify against it.
type StubProvider struct{}

func (s *StubProvider) BuildCheckout(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	return &CheckoutSession{
		PaymentURL: "http://localhost/stub-checkout?txnid=" + req.TxnID,
		Provider:   "stub",
	}, nil
}

func (s *StubProvider) VerifyCallback(values url.Values) (*CallbackResult, error) {
	if values.Get("hash") != "stub" {
		return nil, ErrInvalidSignature
	}
	amountPaise, err := ParseRupees(values.Get("amount"))
	if err != nil {
		return nil, err
	}
	status := values.Get("status")
	return &CallbackResult{
		TxnID:       values.Get("txnid"),
		GatewayRef:  "stub-" + values.Get("txnid"),
		Status:      status,
		Succeeded:   strings.EqualFold(status, "success"),
		AmountPaise: amountPaise,
	}, nil
}
