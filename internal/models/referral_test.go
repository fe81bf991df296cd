package models

import (
	"testing"
	"time"

	"qipad/internal/domain"
)

func TestReferralReadyToCredit(t *testing.T) {
	tests := []struct {
		name string
		ref  Referral
		want bool
	}{
		{"neither event", Referral{Status: domain.ReferralStatusPending}, false},
		{"kyc only", Referral{Status: domain.ReferralStatusPending, KycDone: true}, false},
		{"deposit only", Referral{Status: domain.ReferralStatusPending, DepositDone: true}, false},
		{"both events", Referral{Status: domain.ReferralStatusPending, KycDone: true, DepositDone: true}, true},
		{"already credited", Referral{Status: domain.ReferralStatusCredited, KycDone: true, DepositDone: true}, false},
		{"expired", Referral{Status: domain.ReferralStatusExpired, KycDone: true, DepositDone: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.ReadyToCredit(); got != tt.want {
				t.Errorf("ReadyToCredit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreditGate(t *testing.T) {
	// The credit transition must check the flags in the database row, not in
	// the caller's snapshot: with KYC and first deposit landing concurrently,
	// each caller reads the other's flag as false, and a snapshot-based gate
	// would let both skip the credit.
	gate := CreditGate()
	if gate["status"] != domain.ReferralStatusPending {
		t.Errorf("status filter = %v, want PENDING", gate["status"])
	}
	for _, flag := range []string{"kyc_done", "deposit_done"} {
		v, present := gate[flag]
		if !present || v != true {
			t.Errorf("gate must require %s = true, got %v", flag, v)
		}
	}
}

func TestReferralExpiredBy(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("within window", func(t *testing.T) {
		ref := Referral{Status: domain.ReferralStatusPending, CreatedAt: created}
		if ref.ExpiredBy(created.AddDate(0, 0, 89), 90) {
			t.Error("day 89 should not be expired")
		}
	})

	t.Run("past window", func(t *testing.T) {
		ref := Referral{Status: domain.ReferralStatusPending, CreatedAt: created}
		if !ref.ExpiredBy(created.AddDate(0, 0, 91), 90) {
			t.Error("day 91 should be expired")
		}
	})

	t.Run("credited never expires", func(t *testing.T) {
		ref := Referral{Status: domain.ReferralStatusCredited, CreatedAt: created}
		if ref.ExpiredBy(created.AddDate(0, 0, 365), 90) {
			t.Error("credited referral must not expire")
		}
	})
}
