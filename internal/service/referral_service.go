package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"qipad/config"
	"qipad/internal/domain"
	"qipad/internal/models"
	"qipad/internal/repository"

	"gorm.io/gorm"
)

// ReferralService runs the referral reward state machine. A referral is
// created PENDING at signup and pays the referrer only after the referred
// user completes KYC AND makes a first deposit, in either order. Pending
// referrals past the expiry window are never paid.
type ReferralService struct {
	db        *gorm.DB
	referrals *repository.ReferralRepository
	users     *repository.UserRepository
	wallets   *WalletService
	outbox    *repository.OutboxRepository
	settings  *repository.SettingRepository
	cfg       *config.Config
	notifier  Notifier
}

func NewReferralService(
	db *gorm.DB,
	referrals *repository.ReferralRepository,
	users *repository.UserRepository,
	wallets *WalletService,
	outbox *repository.OutboxRepository,
	settings *repository.SettingRepository,
	cfg *config.Config,
	notifier Notifier,
) *ReferralService {
	return &ReferralService{
		db:        db,
		referrals: referrals,
		users:     users,
		wallets:   wallets,
		outbox:    outbox,
		settings:  settings,
		cfg:       cfg,
		notifier:  notifier,
	}
}

func (s *ReferralService) GetOrCreateCode(userID uint) (*models.ReferralCode, error) {
	return s.referrals.GetOrCreateCode(userID)
}

func (s *ReferralService) ListMine(referrerID uint, limit, offset int) ([]models.Referral, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.referrals.ListByReferrerID(referrerID, limit, offset)
}

// RegisterReferral links a new user to the owner of the given code and pays
// the referred user the signup top-up. A user can be referred at most once,
// and never by themselves.
func (s *ReferralService) RegisterReferral(ctx context.Context, referredUserID uint, code string) (*models.Referral, error) {
	rc, err := s.referrals.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("referral code %q not found", code)
		}
		return nil, err
	}
	if rc.UserID == referredUserID {
		return nil, domain.ErrDuplicateReferral
	}
	ref := &models.Referral{
		ReferrerID:     rc.UserID,
		ReferredUserID: referredUserID,
		Code:           rc.Code,
		Status:         domain.ReferralStatusPending,
	}
	if err := s.referrals.CreateReferral(ref); err != nil {
		return nil, referralCreateErr(err)
	}

	topUp := s.settings.GetInt64(domain.SettingReferredTopUpQP, s.cfg.Business.ReferredTopUpQP) * domain.PaisePerQP
	if topUp > 0 {
		_, err = s.wallets.Append(ctx, referredUserID, domain.LedgerTypeEarn, topUp,
			"signup bonus for joining with a referral code", "referral", fmt.Sprint(ref.ID))
		if err != nil {
			log.Printf("[referral] top-up for user %d failed: %v", referredUserID, err)
		}
	}
	return ref, nil
}

// referralCreateErr maps the unique-index violation on referred_user_id to
// the duplicate-referral sentinel. Anything else (connection loss, deadlock)
// passes through; reporting it as "already referred" would hide a transient
// failure from the caller.
func referralCreateErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateReferral
	}
	return err
}

// OnKycComplete records the KYC qualifying event for a referred user.
// No-op for users who were not referred.
func (s *ReferralService) OnKycComplete(ctx context.Context, userID uint) error {
	return s.onQualifyingEvent(ctx, userID, s.referrals.MarkKycDone)
}

// OnFirstDeposit records the first-deposit qualifying event for a referred
// user. Subsequent deposits re-enter here harmlessly: the flag update and
// the credit transition are both idempotent.
func (s *ReferralService) OnFirstDeposit(ctx context.Context, userID uint) error {
	return s.onQualifyingEvent(ctx, userID, s.referrals.MarkDepositDone)
}

func (s *ReferralService) onQualifyingEvent(ctx context.Context, userID uint, mark func(uint) error) error {
	ref, err := s.referrals.GetByReferredUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if ref.Status != domain.ReferralStatusPending {
		return nil
	}
	if ref.ExpiredBy(time.Now(), s.expiryDays()) {
		if _, err := s.referrals.ExpireIfPending(ref.ID); err != nil {
			return err
		}
		return nil
	}
	if err := mark(ref.ID); err != nil {
		return err
	}
	return s.maybeCredit(ctx, ref)
}

// maybeCredit attempts the PENDING -> CREDITED transition. It runs after
// every qualifying event without consulting this worker's read of the flags:
// when KYC and the first deposit land concurrently, each worker's snapshot
// shows the other flag unset, and gating on it would leave the referral
// stuck PENDING with both flags true. The transition's row filter checks
// both flags in the database, so at most one attempt ever passes, and the
// bonus entry and outbox event commit with it or not at all.
func (s *ReferralService) maybeCredit(ctx context.Context, ref *models.Referral) error {
	reward := s.settings.GetInt64(domain.SettingReferrerBonusQP, s.cfg.Business.ReferrerBonusQP) * domain.PaisePerQP

	var credited bool
	err := s.wallets.WithWalletLock(ctx, ref.ReferrerID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			ok, err := s.referrals.CreditIfPending(tx, ref.ID, reward)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			_, err = s.wallets.AppendTx(tx, ref.ReferrerID, domain.LedgerTypeReferralBonus, reward,
				"referral bonus: referred user completed KYC and first deposit",
				"referral", fmt.Sprint(ref.ID))
			if err != nil {
				return err
			}
			payload, _ := json.Marshal(map[string]interface{}{
				"referral_id":      ref.ID,
				"referrer_id":      ref.ReferrerID,
				"referred_user_id": ref.ReferredUserID,
				"reward_paise":     reward,
			})
			if err := s.outbox.Create(tx, &models.OutboxMessage{
				MessageKey: fmt.Sprint(ref.ID),
				Topic:      s.cfg.Kafka.Topic.ReferralCredited,
				Payload:    string(payload),
				Status:     models.OutboxStatusPending,
			}); err != nil {
				return err
			}
			credited = true
			return nil
		})
	})
	if err != nil {
		return err
	}
	if credited {
		log.Printf("[referral] credited referral=%d referrer=%d reward=%d paise", ref.ID, ref.ReferrerID, reward)
		if s.notifier != nil {
			s.notifier.Notify(ctx, ref.ReferrerID, "referral_credited", "Referral bonus earned",
				fmt.Sprintf("Your referral qualified. %d QP credited to your wallet.", reward/domain.PaisePerQP), "")
		}
	}
	return nil
}

// ExpireStale sweeps referrals that stayed PENDING past the window.
func (s *ReferralService) ExpireStale() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.expiryDays())
	return s.referrals.ExpirePendingBefore(cutoff)
}

func (s *ReferralService) expiryDays() int {
	return int(s.settings.GetInt64(domain.SettingReferralExpiryDays, int64(s.cfg.Business.ReferralExpiryDays)))
}
