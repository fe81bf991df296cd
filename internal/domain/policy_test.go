package domain

import "testing"

func TestCostPaise(t *testing.T) {
	tests := []struct {
		action string
		wantQP int64
		ok     bool
	}{
		{ActionInnovation, 100, true},
		{ActionJob, 50, true},
		{ActionEvent, 25, true},
		{ActionCompany, 200, true},
		{"community", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			paise, ok := CostPaise(tt.action)
			if ok != tt.ok {
				t.Fatalf("CostPaise(%q) ok = %v, want %v", tt.action, ok, tt.ok)
			}
			if paise != tt.wantQP*PaisePerQP {
				t.Errorf("CostPaise(%q) = %d, want %d", tt.action, paise, tt.wantQP*PaisePerQP)
			}
		})
	}
}

func TestCheckAffordability(t *testing.T) {
	t.Run("sufficient balance", func(t *testing.T) {
		a := CheckAffordability(150*PaisePerQP, 100*PaisePerQP)
		if !a.HasEnoughCredits {
			t.Error("expected affordable")
		}
		if a.Shortfall != 0 {
			t.Errorf("shortfall = %d, want 0", a.Shortfall)
		}
	})

	t.Run("exact balance", func(t *testing.T) {
		a := CheckAffordability(100*PaisePerQP, 100*PaisePerQP)
		if !a.HasEnoughCredits {
			t.Error("expected exact balance to be affordable")
		}
	})

	t.Run("shortfall reported", func(t *testing.T) {
		// 10 QP in the wallet, innovation costs 100 QP.
		a := CheckAffordability(10*PaisePerQP, 100*PaisePerQP)
		if a.HasEnoughCredits {
			t.Error("expected not affordable")
		}
		if a.Shortfall != 90*PaisePerQP {
			t.Errorf("shortfall = %d, want %d", a.Shortfall, 90*PaisePerQP)
		}
		if a.CurrentBalance != 10*PaisePerQP || a.Cost != 100*PaisePerQP {
			t.Errorf("payload = %+v", a)
		}
	})

	t.Run("zero balance", func(t *testing.T) {
		a := CheckAffordability(0, 25*PaisePerQP)
		if a.Shortfall != 25*PaisePerQP {
			t.Errorf("shortfall = %d, want %d", a.Shortfall, 25*PaisePerQP)
		}
	})
}
