package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"qipad/internal/models"
	"qipad/internal/repository"
	"qipad/pkg/lock"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalletService owns every balance mutation. A mutation is always one
// atomic unit: conditional balance update + appended ledger row, executed
// under the user's distributed wallet lock.
type WalletService struct {
	db      *gorm.DB
	wallets *repository.WalletRepository
	redis   *redis.Client
}

func NewWalletService(db *gorm.DB, wallets *repository.WalletRepository, redisClient *redis.Client) *WalletService {
	return &WalletService{db: db, wallets: wallets, redis: redisClient}
}

func (s *WalletService) GetOrCreate(userID uint) (*models.Wallet, error) {
	return s.wallets.GetOrCreate(userID)
}

func (s *WalletService) GetBalance(userID uint) (*models.Wallet, error) {
	return s.wallets.GetOrCreate(userID)
}

func (s *WalletService) Transactions(userID uint, limit, offset int) ([]models.LedgerEntry, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.wallets.ListEntries(userID, limit, offset)
}

// WithWalletLock runs fn while holding the user's wallet lock. Concurrent
// mutations for the same user serialize here; different users proceed in
// parallel.
func (s *WalletService) WithWalletLock(ctx context.Context, userID uint, fn func() error) error {
	l := lock.NewWalletLock(s.redis, userID, uuid.NewString())
	if err := l.Lock(ctx, 50*time.Millisecond, 100); err != nil {
		return fmt.Errorf("wallet lock user %d: %w", userID, err)
	}
	defer func() {
		if err := l.Unlock(context.Background()); err != nil {
			log.Printf("[wallet] unlock user %d: %v", userID, err)
		}
	}()
	return fn()
}

// AppendTx applies one ledger mutation inside the caller's transaction.
// The caller must hold the wallet lock. amountPaise is signed; a debit that
// would overdraw fails with ErrInsufficientFunds and rolls the tx back.
func (s *WalletService) AppendTx(tx *gorm.DB, userID uint, entryType string, amountPaise int64, description, refType, refID string) (*models.LedgerEntry, error) {
	if _, err := s.wallets.GetOrCreate(userID); err != nil {
		return nil, err
	}
	balanceAfter, err := s.wallets.AdjustBalance(tx, userID, amountPaise)
	if err != nil {
		return nil, err
	}
	entry := &models.LedgerEntry{
		EntryNo:           uuid.NewString(),
		UserID:            userID,
		Type:              entryType,
		AmountPaise:       amountPaise,
		BalanceAfterPaise: balanceAfter,
		Description:       description,
		ReferenceType:     refType,
		ReferenceID:       refID,
	}
	if err := s.wallets.CreateEntry(tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Append is the standalone form: lock + transaction around a single entry.
func (s *WalletService) Append(ctx context.Context, userID uint, entryType string, amountPaise int64, description, refType, refID string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.WithWalletLock(ctx, userID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			entry, err = s.AppendTx(tx, userID, entryType, amountPaise, description, refType, refID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[wallet] user=%d %s %+d paise balance=%d", userID, entryType, amountPaise, entry.BalanceAfterPaise)
	return entry, nil
}

// Reconcile compares the cached balance against the ledger sum. Drift
// means a bug; it is reported, never silently repaired.
func (s *WalletService) Reconcile(userID uint) error {
	w, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return err
	}
	sum, err := s.wallets.SumEntries(userID)
	if err != nil {
		return err
	}
	if sum != w.BalancePaise {
		return fmt.Errorf("wallet drift user %d: balance=%d ledger=%d", userID, w.BalancePaise, sum)
	}
	return nil
}
