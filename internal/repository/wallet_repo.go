package repository

import (
	"qipad/internal/domain"
	"qipad/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) DB() *gorm.DB { return r.db }

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// GetOrCreate is safe under concurrent signup retries: the unique index on
// user_id plus DO NOTHING makes the create race-free.
func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w := models.Wallet{UserID: userID}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&w).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(userID)
}

// AdjustBalance moves the balance by deltaPaise inside tx and returns the
// new balance. The WHERE guard makes an overdraft impossible regardless of
// interleaving; zero rows affected means insufficient funds.
func (r *WalletRepository) AdjustBalance(tx *gorm.DB, userID uint, deltaPaise int64) (int64, error) {
	res := tx.Model(&models.Wallet{}).
		Where("user_id = ? AND balance_paise + ? >= 0", userID, deltaPaise).
		UpdateColumn("balance_paise", gorm.Expr("balance_paise + ?", deltaPaise))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrInsufficientFunds
	}
	var w models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return 0, err
	}
	return w.BalancePaise, nil
}

// CreateEntry appends a ledger row inside tx. Entries are never updated.
func (r *WalletRepository) CreateEntry(tx *gorm.DB, entry *models.LedgerEntry) error {
	return tx.Create(entry).Error
}

// ListEntries returns a page of ledger history, newest first.
func (r *WalletRepository) ListEntries(userID uint, limit, offset int) ([]models.LedgerEntry, int64, error) {
	var total int64
	if err := r.db.Model(&models.LedgerEntry{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.LedgerEntry
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, total, err
}

// SumEntries recomputes the balance from the ledger; used by the
// reconciliation check, never by request paths.
func (r *WalletRepository) SumEntries(userID uint) (int64, error) {
	var sum *int64
	err := r.db.Model(&models.LedgerEntry{}).
		Where("user_id = ?", userID).
		Select("SUM(amount_paise)").Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}
