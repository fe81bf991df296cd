package database

import (
	"strconv"

	"qipad/config"
	"qipad/internal/domain"
	"qipad/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
		// Surface duplicate-key violations as gorm.ErrDuplicatedKey so the
		// services can tell "already exists" apart from a transient failure.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.LedgerEntry{},
		&models.ReferralCode{},
		&models.Referral{},
		&models.Payment{},
		&models.Project{},
		&models.Investment{},
		&models.Job{},
		&models.JobApplication{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Company{},
		&models.Notification{},
		&models.AuditLog{},
		&models.OutboxMessage{},
		&models.SystemSetting{},
	)
}

// SeedSettings inserts business defaults if absent so ops can tune them
// without a deploy.
func SeedSettings(db *gorm.DB, cfg *config.BusinessConfig) {
	defaults := map[string]string{
		domain.SettingJoiningBonusQP:     strconv.FormatInt(cfg.JoiningBonusQP, 10),
		domain.SettingReferredTopUpQP:    strconv.FormatInt(cfg.ReferredTopUpQP, 10),
		domain.SettingReferrerBonusQP:    strconv.FormatInt(cfg.ReferrerBonusQP, 10),
		domain.SettingReferralExpiryDays: strconv.Itoa(cfg.ReferralExpiryDays),
		domain.SettingPaymentExpiryHours: strconv.Itoa(cfg.PaymentExpiryHours),
		domain.SettingCompanyRegFeeQP:    strconv.FormatInt(cfg.CompanyRegFeeQP, 10),
	}
	for k, v := range defaults {
		var count int64
		db.Model(&models.SystemSetting{}).Where("`key` = ?", k).Count(&count)
		if count == 0 {
			db.Create(&models.SystemSetting{Key: k, Value: v})
		}
	}
}
