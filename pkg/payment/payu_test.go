package payment

import (
	"context"
	"net/url"
	"testing"
)

func testProvider() *PayUProvider {
	return NewPayUProvider("gtKFFx", "eCwWELxi", "https://test.payu.in")
}

func TestBuildCheckout(t *testing.T) {
	p := testProvider()
	session, err := p.BuildCheckout(context.Background(), CheckoutRequest{
		TxnID:       "QPabc123",
		UserID:      42,
		AmountPaise: 150000, // 1500.00
		Purpose:     "DEPOSIT",
		FirstName:   "asha",
		Email:       "asha@example.com",
		Phone:       "9999999999",
		SuccessURL:  "https://qipad.example/cb",
		FailureURL:  "https://qipad.example/cb",
	})
	if err != nil {
		t.Fatalf("BuildCheckout: %v", err)
	}
	if session.PaymentURL != "https://test.payu.in/_payment" {
		t.Errorf("PaymentURL = %s", session.PaymentURL)
	}
	if session.FormData["amount"] != "1500.00" {
		t.Errorf("amount = %s, want 1500.00", session.FormData["amount"])
	}
	if session.FormData["udf1"] != "DEPOSIT" || session.FormData["udf2"] != "42" {
		t.Errorf("udf fields = %s/%s", session.FormData["udf1"], session.FormData["udf2"])
	}
	if session.FormData["hash"] == "" {
		t.Error("hash missing from form")
	}
}

// callbackValues builds a callback the way the gateway would, using the
// provider's own reverse-hash scheme.
func callbackValues(p *PayUProvider, status, amount, txnid string) url.Values {
	v := url.Values{}
	v.Set("status", status)
	v.Set("txnid", txnid)
	v.Set("amount", amount)
	v.Set("productinfo", "DEPOSIT")
	v.Set("firstname", "asha")
	v.Set("email", "asha@example.com")
	v.Set("udf1", "DEPOSIT")
	v.Set("udf2", "42")
	v.Set("mihpayid", "403993715531")
	v.Set("hash", p.responseHash(status, "42", "DEPOSIT", "asha@example.com", "asha", "DEPOSIT", amount, txnid))
	return v
}

func TestVerifyCallback(t *testing.T) {
	p := testProvider()

	t.Run("valid success callback", func(t *testing.T) {
		res, err := p.VerifyCallback(callbackValues(p, "success", "1500.00", "QPabc123"))
		if err != nil {
			t.Fatalf("VerifyCallback: %v", err)
		}
		if !res.Succeeded {
			t.Error("expected Succeeded")
		}
		if res.AmountPaise != 150000 {
			t.Errorf("amount = %d, want 150000", res.AmountPaise)
		}
		if res.TxnID != "QPabc123" || res.GatewayRef != "403993715531" {
			t.Errorf("ids = %s/%s", res.TxnID, res.GatewayRef)
		}
	})

	t.Run("failure callback verifies but not succeeded", func(t *testing.T) {
		res, err := p.VerifyCallback(callbackValues(p, "failure", "1500.00", "QPabc123"))
		if err != nil {
			t.Fatalf("VerifyCallback: %v", err)
		}
		if res.Succeeded {
			t.Error("failure status must not be Succeeded")
		}
	})

	t.Run("tampered amount rejected", func(t *testing.T) {
		v := callbackValues(p, "success", "1500.00", "QPabc123")
		v.Set("amount", "1.00")
		if _, err := p.VerifyCallback(v); err != ErrInvalidSignature {
			t.Fatalf("err = %v, want ErrInvalidSignature", err)
		}
	})

	t.Run("tampered status rejected", func(t *testing.T) {
		v := callbackValues(p, "failure", "1500.00", "QPabc123")
		v.Set("status", "success")
		if _, err := p.VerifyCallback(v); err != ErrInvalidSignature {
			t.Fatalf("err = %v, want ErrInvalidSignature", err)
		}
	})

	t.Run("missing hash rejected", func(t *testing.T) {
		v := callbackValues(p, "success", "1500.00", "QPabc123")
		v.Del("hash")
		if _, err := p.VerifyCallback(v); err != ErrInvalidSignature {
			t.Fatalf("err = %v, want ErrInvalidSignature", err)
		}
	})

	t.Run("wrong salt rejected", func(t *testing.T) {
		other := NewPayUProvider("gtKFFx", "differentsalt", "")
		v := callbackValues(other, "success", "1500.00", "QPabc123")
		if _, err := p.VerifyCallback(v); err != ErrInvalidSignature {
			t.Fatalf("err = %v, want ErrInvalidSignature", err)
		}
	})
}

func TestFormatRupees(t *testing.T) {
	tests := []struct {
		paise int64
		want  string
	}{
		{150000, "1500.00"},
		{100, "1.00"},
		{105, "1.05"},
		{150, "1.50"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatRupees(tt.paise); got != tt.want {
			t.Errorf("FormatRupees(%d) = %s, want %s", tt.paise, got, tt.want)
		}
	}
}

func TestParseRupees(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1500.00", 150000, false},
		{"1500.5", 150050, false},
		{"1500", 150000, false},
		{"0.05", 5, false},
		{" 10.00 ", 1000, false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRupees(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRupees(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRupees(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, paise := range []int64{1, 99, 100, 12345, 5000000} {
		got, err := ParseRupees(FormatRupees(paise))
		if err != nil {
			t.Fatalf("round trip %d: %v", paise, err)
		}
		if got != paise {
			t.Errorf("round trip %d = %d", paise, got)
		}
	}
}
