package service

import (
	"testing"

	"qipad/internal/domain"
)

func TestIdempotencyKeyOrNil(t *testing.T) {
	t.Run("absent key stored as NULL", func(t *testing.T) {
		// Empty strings are not NULL to the unique index: two keyless
		// payments would collide on "" and the second insert would fail.
		if got := idempotencyKeyOrNil(""); got != nil {
			t.Errorf("idempotencyKeyOrNil(\"\") = %q, want nil", *got)
		}
	})

	t.Run("supplied key kept", func(t *testing.T) {
		got := idempotencyKeyOrNil("dep-42")
		if got == nil || *got != "dep-42" {
			t.Errorf("idempotencyKeyOrNil(dep-42) = %v", got)
		}
	})
}

func TestLateSuccess(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		succeeded bool
		want      bool
	}{
		{"success after expiry sweep", domain.PaymentStatusExpired, true, true},
		{"failure after expiry sweep", domain.PaymentStatusExpired, false, false},
		{"success while pending", domain.PaymentStatusPending, true, false},
		{"success when completed", domain.PaymentStatusCompleted, true, false},
		{"success when failed", domain.PaymentStatusFailed, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lateSuccess(tt.status, tt.succeeded); got != tt.want {
				t.Errorf("lateSuccess(%s, %v) = %v, want %v", tt.status, tt.succeeded, got, tt.want)
			}
		})
	}
}
