package service

import (
	"context"
	"fmt"

	"qipad/internal/domain"
	"qipad/internal/models"
)

// CreditService applies the QP cost policy to wallet balances: check,
// deduct, and the compensating refund when a gated action fails after the
// deduction has committed.
type CreditService struct {
	wallets *WalletService
}

func NewCreditService(wallets *WalletService) *CreditService {
	return &CreditService{wallets: wallets}
}

// Check resolves the user's balance and compares it against the action
// cost. Never mutates anything.
func (s *CreditService) Check(userID uint, action string) (domain.Affordability, error) {
	cost, ok := domain.CostPaise(action)
	if !ok {
		return domain.Affordability{}, domain.ErrUnknownAction
	}
	w, err := s.wallets.GetOrCreate(userID)
	if err != nil {
		return domain.Affordability{}, err
	}
	return domain.CheckAffordability(w.BalancePaise, cost), nil
}

// Deduct charges the action cost as a SPEND entry. An insufficient balance
// surfaces as ErrInsufficientFunds; the handler turns it into the
// structured affordability payload rather than a bare error.
func (s *CreditService) Deduct(ctx context.Context, userID uint, action, refType, refID string) (*models.LedgerEntry, error) {
	cost, ok := domain.CostPaise(action)
	if !ok {
		return nil, domain.ErrUnknownAction
	}
	desc := fmt.Sprintf("credits spent: %s", action)
	return s.wallets.Append(ctx, userID, domain.LedgerTypeSpend, -cost, desc, refType, refID)
}

// Refund is the compensating step when the action fails after its deduction
// committed. It appends a REFUND entry of the full cost; the original SPEND
// row stays in the ledger.
func (s *CreditService) Refund(ctx context.Context, userID uint, action, refType, refID, reason string) (*models.LedgerEntry, error) {
	cost, ok := domain.CostPaise(action)
	if !ok {
		return nil, domain.ErrUnknownAction
	}
	desc := fmt.Sprintf("refund (%s): %s", action, reason)
	return s.wallets.Append(ctx, userID, domain.LedgerTypeRefund, cost, desc, refType, refID)
}
