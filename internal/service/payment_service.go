package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"qipad/config"
	"qipad/internal/domain"
	"qipad/internal/models"
	"qipad/internal/repository"
	"qipad/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FundingBroadcaster pushes live funding updates to websocket subscribers.
type FundingBroadcaster interface {
	BroadcastFunding(projectID uint, currentPaise, goalPaise int64, progressPercent float64)
}

// PaymentService drives the hosted-checkout lifecycle: initiate a PENDING
// payment, verify the gateway callback, and settle per purpose. Settlement
// is idempotent per transaction id; replayed callbacks only re-ack.
type PaymentService struct {
	db          *gorm.DB
	payments    *repository.PaymentRepository
	investments *repository.InvestmentRepository
	projects    *repository.ProjectRepository
	events      *repository.EventRepository
	companies   *repository.CompanyRepository
	outbox      *repository.OutboxRepository
	users       *repository.UserRepository
	wallets     *WalletService
	referrals   *ReferralService
	provider    payment.Provider
	cfg         *config.Config
	notifier    Notifier
	broadcaster FundingBroadcaster
}

func NewPaymentService(
	db *gorm.DB,
	payments *repository.PaymentRepository,
	investments *repository.InvestmentRepository,
	projects *repository.ProjectRepository,
	events *repository.EventRepository,
	companies *repository.CompanyRepository,
	outbox *repository.OutboxRepository,
	users *repository.UserRepository,
	wallets *WalletService,
	referrals *ReferralService,
	provider payment.Provider,
	cfg *config.Config,
	notifier Notifier,
	broadcaster FundingBroadcaster,
) *PaymentService {
	return &PaymentService{
		db:          db,
		payments:    payments,
		investments: investments,
		projects:    projects,
		events:      events,
		companies:   companies,
		outbox:      outbox,
		users:       users,
		wallets:     wallets,
		referrals:   referrals,
		provider:    provider,
		cfg:         cfg,
		notifier:    notifier,
		broadcaster: broadcaster,
	}
}

type InitiateParams struct {
	UserID         uint
	Purpose        string
	AmountPaise    int64
	IdempotencyKey string
	Metadata       string
}

func newTxnID() string {
	// PayU caps txnid at 25 alphanumeric chars.
	return "QP" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

// idempotencyKeyOrNil stores an absent client key as NULL so the unique
// index only constrains keys that were actually supplied.
func idempotencyKeyOrNil(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}

// Initiate records a PENDING payment and builds the gateway hand-off. The
// row insert is the only side effect; a gateway failure after it leaves a
// harmless PENDING row for the expiry sweep.
func (s *PaymentService) Initiate(ctx context.Context, p InitiateParams) (*models.Payment, *payment.CheckoutSession, error) {
	if p.AmountPaise <= 0 {
		return nil, nil, fmt.Errorf("amount must be positive")
	}
	if p.IdempotencyKey != "" {
		if existing, err := s.payments.GetByIdempotencyKey(p.IdempotencyKey); err == nil {
			session, err := s.buildCheckout(ctx, existing)
			return existing, session, err
		}
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.Business.PaymentExpiryHours) * time.Hour)
	pay := &models.Payment{
		UserID:         p.UserID,
		Purpose:        p.Purpose,
		AmountPaise:    p.AmountPaise,
		Provider:       "payu",
		TxnID:          newTxnID(),
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: idempotencyKeyOrNil(p.IdempotencyKey),
		Metadata:       p.Metadata,
		ExpiresAt:      &expiresAt,
	}
	if err := s.payments.Create(pay); err != nil {
		return nil, nil, err
	}
	session, err := s.buildCheckout(ctx, pay)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[payment] initiated txn=%s user=%d purpose=%s amount=%d paise", pay.TxnID, pay.UserID, pay.Purpose, pay.AmountPaise)
	return pay, session, nil
}

func (s *PaymentService) buildCheckout(ctx context.Context, pay *models.Payment) (*payment.CheckoutSession, error) {
	user, err := s.users.GetByID(pay.UserID)
	if err != nil {
		return nil, err
	}
	callbackURL := s.cfg.Server.BaseURL + "/api/v1/payments/callback"
	return s.provider.BuildCheckout(ctx, payment.CheckoutRequest{
		TxnID:       pay.TxnID,
		UserID:      pay.UserID,
		AmountPaise: pay.AmountPaise,
		Purpose:     pay.Purpose,
		FirstName:   user.Username,
		Email:       user.Email,
		Phone:       user.Phone,
		SuccessURL:  callbackURL,
		FailureURL:  callbackURL,
	})
}

func (s *PaymentService) GetByID(id uint) (*models.Payment, error) {
	return s.payments.GetByID(id)
}

func (s *PaymentService) ListByUser(userID uint, limit, offset int) ([]models.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.payments.ListByUser(userID, limit, offset)
}

// HandleCallback verifies and settles a gateway callback. Signature
// verification happens before any lookup; an already-settled transaction id
// returns the payment unchanged so the gateway gets its ack on replays.
func (s *PaymentService) HandleCallback(ctx context.Context, values url.Values) (*models.Payment, error) {
	result, err := s.provider.VerifyCallback(values)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return nil, domain.ErrInvalidSignature
		}
		return nil, err
	}

	pay, err := s.payments.GetByTxnID(result.TxnID)
	if err != nil {
		return nil, fmt.Errorf("unknown transaction %s", result.TxnID)
	}
	if pay.Status == domain.PaymentStatusCompleted {
		return pay, nil
	}
	if result.AmountPaise != pay.AmountPaise {
		log.Printf("[payment] amount mismatch txn=%s expected=%d got=%d", pay.TxnID, pay.AmountPaise, result.AmountPaise)
		return nil, domain.ErrInvalidSignature
	}

	if lateSuccess(pay.Status, result.Succeeded) {
		return s.parkLateSuccess(pay, result)
	}

	if !result.Succeeded {
		return s.fail(pay, result.GatewayRef)
	}
	if err := s.settle(ctx, pay, result); err != nil {
		return nil, err
	}
	return s.payments.GetByID(pay.ID)
}

// lateSuccess reports a verified success that arrived after the expiry
// sweep already closed the payment. Hosted gateways do deliver callbacks
// hours late.
func lateSuccess(status string, succeeded bool) bool {
	return status == domain.PaymentStatusExpired && succeeded
}

// parkLateSuccess records a late verified success on the reconciliation
// topic. The money moved at the gateway but the linked records were already
// failed by the sweep, so settlement needs a human decision; silently acking
// would lose the event entirely.
func (s *PaymentService) parkLateSuccess(pay *models.Payment, result *payment.CallbackResult) (*models.Payment, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"payment_id":   pay.ID,
		"user_id":      pay.UserID,
		"purpose":      pay.Purpose,
		"amount_paise": pay.AmountPaise,
		"txn_id":       pay.TxnID,
		"gateway_ref":  result.GatewayRef,
	})
	if err := s.outbox.Create(s.db, &models.OutboxMessage{
		MessageKey: pay.TxnID,
		Topic:      s.cfg.Kafka.Topic.PaymentReconcile,
		Payload:    string(payload),
		Status:     models.OutboxStatusPending,
	}); err != nil {
		return nil, err
	}
	log.Printf("[payment] success callback for expired txn=%s amount=%d paise, parked for reconciliation", pay.TxnID, pay.AmountPaise)
	return pay, nil
}

func (s *PaymentService) fail(pay *models.Payment, gatewayRef string) (*models.Payment, error) {
	if _, err := s.payments.FailIfPending(pay.ID, gatewayRef); err != nil {
		return nil, err
	}
	s.failLinked(pay)
	log.Printf("[payment] failed txn=%s purpose=%s", pay.TxnID, pay.Purpose)
	return s.payments.GetByID(pay.ID)
}

func (s *PaymentService) failLinked(pay *models.Payment) {
	switch pay.Purpose {
	case domain.PaymentPurposeInvestment:
		if inv, err := s.investments.GetByPaymentID(pay.ID); err == nil {
			if _, err := s.investments.FailIfPending(inv.ID); err != nil {
				log.Printf("[payment] fail investment %d: %v", inv.ID, err)
			}
		}
	case domain.PaymentPurposeEventRegistration:
		if reg, err := s.events.GetRegistrationByPaymentID(pay.ID); err == nil {
			if err := s.events.FailRegistration(reg.ID); err != nil {
				log.Printf("[payment] fail registration %d: %v", reg.ID, err)
			}
		}
	}
}

func (s *PaymentService) settle(ctx context.Context, pay *models.Payment, result *payment.CallbackResult) error {
	switch pay.Purpose {
	case domain.PaymentPurposeDeposit:
		return s.settleDeposit(ctx, pay, result)
	case domain.PaymentPurposeInvestment:
		return s.settleInvestment(ctx, pay, result)
	case domain.PaymentPurposeEventRegistration:
		return s.settleEventRegistration(ctx, pay, result)
	case domain.PaymentPurposeCompanyRegistration:
		return s.settleCompanyRegistration(ctx, pay, result)
	default:
		return fmt.Errorf("unknown payment purpose %s", pay.Purpose)
	}
}

// settleDeposit credits the wallet and notifies the referral program of a
// potential first deposit. The PENDING -> COMPLETED transition gates the
// ledger append, so a raced duplicate settles exactly once.
func (s *PaymentService) settleDeposit(ctx context.Context, pay *models.Payment, result *payment.CallbackResult) error {
	var settled bool
	err := s.wallets.WithWalletLock(ctx, pay.UserID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			ok, err := s.payments.CompleteIfPending(tx, pay.ID, result.GatewayRef)
			if err != nil || !ok {
				return err
			}
			_, err = s.wallets.AppendTx(tx, pay.UserID, domain.LedgerTypeDeposit, pay.AmountPaise,
				"wallet deposit via payment gateway", "payment", pay.TxnID)
			if err != nil {
				return err
			}
			if err := s.enqueueSettled(tx, pay); err != nil {
				return err
			}
			settled = true
			return nil
		})
	})
	if err != nil || !settled {
		return err
	}

	if err := s.referrals.OnFirstDeposit(ctx, pay.UserID); err != nil {
		log.Printf("[payment] referral first-deposit hook user=%d: %v", pay.UserID, err)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, pay.UserID, "deposit_settled", "Deposit successful",
			fmt.Sprintf("%d QP added to your wallet.", pay.AmountPaise/domain.PaisePerQP), "")
	}
	log.Printf("[payment] settled deposit txn=%s user=%d", pay.TxnID, pay.UserID)
	return nil
}

// settleInvestment completes the linked investment and bumps the project
// funding aggregate. The investment's own PENDING -> COMPLETED transition
// is the exactly-once gate for the increment.
func (s *PaymentService) settleInvestment(ctx context.Context, pay *models.Payment, result *payment.CallbackResult) error {
	var completedInv *models.Investment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.payments.CompleteIfPending(tx, pay.ID, result.GatewayRef)
		if err != nil || !ok {
			return err
		}
		inv, err := s.investments.GetByPaymentID(pay.ID)
		if err != nil {
			return fmt.Errorf("investment for payment %d: %w", pay.ID, err)
		}
		ok, err = s.investments.CompleteIfPending(tx, inv.ID)
		if err != nil || !ok {
			return err
		}
		if err := s.projects.IncrementFunding(tx, inv.ProjectID, inv.AmountPaise); err != nil {
			return err
		}
		if _, err := s.projects.MarkFundedIfGoalReached(tx, inv.ProjectID); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"investment_id": inv.ID,
			"project_id":    inv.ProjectID,
			"investor_id":   inv.InvestorID,
			"amount_paise":  inv.AmountPaise,
			"type":          inv.Type,
		})
		if err := s.outbox.Create(tx, &models.OutboxMessage{
			MessageKey: fmt.Sprint(inv.ProjectID),
			Topic:      s.cfg.Kafka.Topic.InvestmentCompleted,
			Payload:    string(payload),
			Status:     models.OutboxStatusPending,
		}); err != nil {
			return err
		}
		completedInv = inv
		return nil
	})
	if err != nil || completedInv == nil {
		return err
	}

	project, err := s.projects.GetByID(completedInv.ProjectID)
	if err == nil {
		if s.broadcaster != nil {
			s.broadcaster.BroadcastFunding(project.ID, project.CurrentFundingPaise,
				project.FundingGoalPaise, project.ProgressPercent())
		}
		if s.notifier != nil {
			s.notifier.Notify(ctx, project.OwnerID, "investment_received", "New funding received",
				fmt.Sprintf("%s received %d QP in new funding.", project.Title, completedInv.AmountPaise/domain.PaisePerQP), "")
		}
	}
	log.Printf("[payment] settled investment txn=%s project=%d amount=%d paise", pay.TxnID, completedInv.ProjectID, completedInv.AmountPaise)
	return nil
}

func (s *PaymentService) settleEventRegistration(ctx context.Context, pay *models.Payment, result *payment.CallbackResult) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.payments.CompleteIfPending(tx, pay.ID, result.GatewayRef)
		if err != nil || !ok {
			return err
		}
		reg, err := s.events.GetRegistrationByPaymentID(pay.ID)
		if err != nil {
			return fmt.Errorf("registration for payment %d: %w", pay.ID, err)
		}
		if _, err := s.events.ConfirmIfPending(tx, reg.ID); err != nil {
			return err
		}
		return s.enqueueSettled(tx, pay)
	})
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, pay.UserID, "event_confirmed", "Event registration confirmed",
			"Your seat is booked.", "")
	}
	return nil
}

func (s *PaymentService) settleCompanyRegistration(ctx context.Context, pay *models.Payment, result *payment.CallbackResult) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.payments.CompleteIfPending(tx, pay.ID, result.GatewayRef)
		if err != nil || !ok {
			return err
		}
		company, err := s.companies.GetByPaymentID(pay.ID)
		if err != nil {
			return fmt.Errorf("company for payment %d: %w", pay.ID, err)
		}
		if _, err := s.companies.ActivateIfPendingPayment(tx, company.ID); err != nil {
			return err
		}
		return s.enqueueSettled(tx, pay)
	})
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, pay.UserID, "company_active", "Company registered",
			"Your company registration is complete.", "")
	}
	return nil
}

func (s *PaymentService) enqueueSettled(tx *gorm.DB, pay *models.Payment) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"payment_id":   pay.ID,
		"user_id":      pay.UserID,
		"purpose":      pay.Purpose,
		"amount_paise": pay.AmountPaise,
		"txn_id":       pay.TxnID,
	})
	return s.outbox.Create(tx, &models.OutboxMessage{
		MessageKey: pay.TxnID,
		Topic:      s.cfg.Kafka.Topic.PaymentSettled,
		Payload:    string(payload),
		Status:     models.OutboxStatusPending,
	})
}

// ExpireStale moves abandoned PENDING payments to EXPIRED and fails their
// linked records. Run periodically by the sweep job.
func (s *PaymentService) ExpireStale(limit int) (int, error) {
	stale, err := s.payments.ListExpired(time.Now(), limit)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range stale {
		pay := &stale[i]
		ok, err := s.payments.ExpireIfPending(pay.ID)
		if err != nil {
			log.Printf("[payment] expire %s: %v", pay.TxnID, err)
			continue
		}
		if !ok {
			continue
		}
		s.failLinked(pay)
		expired++
	}
	return expired, nil
}
