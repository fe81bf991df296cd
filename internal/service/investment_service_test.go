package service

import (
	"errors"
	"testing"

	"qipad/internal/domain"
	"qipad/internal/models"
)

func openProject() *models.Project {
	return &models.Project{
		Status:                 domain.ProjectStatusOpen,
		FundingGoalPaise:       10000000, // 1,00,000 QP
		MinimumInvestmentPaise: 5000000,  // 50,000 QP
	}
}

func TestInvestmentValidation(t *testing.T) {
	s := &InvestmentService{}

	t.Run("invest below minimum rejected", func(t *testing.T) {
		p := CommitmentParams{Type: domain.InvestmentTypeInvest, AmountPaise: 500000, ExpectedStakes: 1}
		err := s.validate(openProject(), &p)
		if !errors.Is(err, domain.ErrBelowMinimum) {
			t.Fatalf("err = %v, want ErrBelowMinimum", err)
		}
	})

	t.Run("invest at minimum accepted", func(t *testing.T) {
		p := CommitmentParams{Type: domain.InvestmentTypeInvest, AmountPaise: 5000000, ExpectedStakes: 5}
		if err := s.validate(openProject(), &p); err != nil {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("support below minimum accepted", func(t *testing.T) {
		// Minimum applies only to equity investments; a 5,000 QP support
		// against a 50,000 QP minimum is fine.
		p := CommitmentParams{Type: domain.InvestmentTypeSupport, AmountPaise: 500000}
		if err := s.validate(openProject(), &p); err != nil {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("support forces stakes to zero", func(t *testing.T) {
		p := CommitmentParams{Type: domain.InvestmentTypeSupport, AmountPaise: 500000, ExpectedStakes: 12.5}
		if err := s.validate(openProject(), &p); err != nil {
			t.Fatalf("err = %v", err)
		}
		if p.ExpectedStakes != 0 {
			t.Errorf("stakes = %v, want 0", p.ExpectedStakes)
		}
	})

	t.Run("stake out of range rejected", func(t *testing.T) {
		// Zero stakes belong to SUPPORT; an equity investment must name a
		// positive percentage.
		for _, stakes := range []float64{-1, 0, 100.01, 200} {
			p := CommitmentParams{Type: domain.InvestmentTypeInvest, AmountPaise: 5000000, ExpectedStakes: stakes}
			if err := s.validate(openProject(), &p); !errors.Is(err, domain.ErrInvalidStake) {
				t.Errorf("stakes %v: err = %v, want ErrInvalidStake", stakes, err)
			}
		}
	})

	t.Run("closed project rejected", func(t *testing.T) {
		project := openProject()
		project.Status = domain.ProjectStatusClosed
		p := CommitmentParams{Type: domain.InvestmentTypeSupport, AmountPaise: 500000}
		if err := s.validate(project, &p); !errors.Is(err, ErrProjectNotOpen) {
			t.Fatalf("err = %v, want ErrProjectNotOpen", err)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		p := CommitmentParams{Type: domain.InvestmentTypeSupport, AmountPaise: 0}
		if err := s.validate(openProject(), &p); err == nil {
			t.Fatal("expected error for zero amount")
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		p := CommitmentParams{Type: "DONATE", AmountPaise: 500000}
		if err := s.validate(openProject(), &p); err == nil {
			t.Fatal("expected error for unknown type")
		}
	})
}

func TestPlatformFee(t *testing.T) {
	tests := []struct {
		amount int64
		want   int64
	}{
		{10000000, 200000}, // 2% of 1,00,000 QP
		{100, 2},
		{50, 1},
		{49, 0}, // rounds down
	}
	for _, tt := range tests {
		if got := platformFee(tt.amount); got != tt.want {
			t.Errorf("platformFee(%d) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}
