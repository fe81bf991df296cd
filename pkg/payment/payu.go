package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PayUProvider builds the form-POST hand-off to PayU's hosted payment page
// and verifies the asynchronous success/failure callbacks.
//
// Request hash (sent with the form):
//
//	sha512(key|txnid|amount|productinfo|firstname|email|udf1..udf5||||||salt)
//
// Response hash (returned in the callback) is the same fields in reverse
// with the salt and status first:
//
//	sha512(salt|status||||||udf5..udf1|email|firstname|productinfo|amount|txnid|key)
type PayUProvider struct {
	MerchantKey string
	Salt        string
	BaseURL     string // https://test.payu.in or https://secure.payu.in
}

const payuStatusSuccess = "success"

func NewPayUProvider(merchantKey, salt, baseURL string) *PayUProvider {
	if baseURL == "" {
		baseURL = "https://test.payu.in"
	}
	return &PayUProvider{MerchantKey: merchantKey, Salt: salt, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (p *PayUProvider) BuildCheckout(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	amount := FormatRupees(req.AmountPaise)
	udf1 := req.Purpose
	udf2 := strconv.FormatUint(uint64(req.UserID), 10)
	productInfo := req.ProductInfo
	if productInfo == "" {
		productInfo = req.Purpose
	}

	form := map[string]string{
		"key":         p.MerchantKey,
		"txnid":       req.TxnID,
		"amount":      amount,
		"productinfo": productInfo,
		"firstname":   req.FirstName,
		"email":       req.Email,
		"phone":       req.Phone,
		"surl":        req.SuccessURL,
		"furl":        req.FailureURL,
		"udf1":        udf1,
		"udf2":        udf2,
		"hash":        p.requestHash(req.TxnID, amount, productInfo, req.FirstName, req.Email, udf1, udf2),
	}

	return &CheckoutSession{
		PaymentURL: p.BaseURL + "/_payment",
		FormData:   form,
		Provider:   "payu",
	}, nil
}

// VerifyCallback checks the reverse hash before anything else; a mismatch
// returns ErrInvalidSignature and the payload must be discarded.
func (p *PayUProvider) VerifyCallback(values url.Values) (*CallbackResult, error) {
	status := values.Get("status")
	expected := p.responseHash(
		status,
		values.Get("udf2"), values.Get("udf1"),
		values.Get("email"), values.Get("firstname"),
		values.Get("productinfo"), values.Get("amount"),
		values.Get("txnid"),
	)
	if got := values.Get("hash"); got == "" || !strings.EqualFold(got, expected) {
		return nil, ErrInvalidSignature
	}

	amountPaise, err := ParseRupees(values.Get("amount"))
	if err != nil {
		return nil, fmt.Errorf("payu callback amount: %w", err)
	}

	return &CallbackResult{
		TxnID:       values.Get("txnid"),
		GatewayRef:  values.Get("mihpayid"),
		Status:      status,
		Succeeded:   strings.EqualFold(status, payuStatusSuccess),
		AmountPaise: amountPaise,
		Mode:        values.Get("mode"),
	}, nil
}

func (p *PayUProvider) requestHash(txnid, amount, productInfo, firstName, email, udf1, udf2 string) string {
	fields := []string{
		p.MerchantKey, txnid, amount, productInfo, firstName, email,
		udf1, udf2, "", "", "", // udf1..udf5
		"", "", "", "", "", // reserved
		p.Salt,
	}
	return sha512Hex(strings.Join(fields, "|"))
}

func (p *PayUProvider) responseHash(status, udf2, udf1, email, firstName, productInfo, amount, txnid string) string {
	fields := []string{
		p.Salt, status,
		"", "", "", "", "", // reserved
		"", "", "", udf2, udf1, // udf5..udf1
		email, firstName, productInfo, amount, txnid,
		p.MerchantKey,
	}
	return sha512Hex(strings.Join(fields, "|"))
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

// FormatRupees renders paise as the decimal rupee string PayU expects.
func FormatRupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}

// ParseRupees converts a decimal rupee string ("1500.00", "1500.5",
// "1500") to paise.
func ParseRupees(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac, _ := strings.Cut(s, ".")
	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q", s)
	}
	var paise int64
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		if len(frac) == 1 {
			frac += "0"
		}
		paise, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad amount %q", s)
		}
	}
	return rupees*100 + paise, nil
}
