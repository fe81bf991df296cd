package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"qipad/internal/domain"
	"qipad/internal/models"
	"qipad/internal/repository"
	"qipad/pkg/payment"

	"gorm.io/gorm"
)

var ErrProjectNotOpen = errors.New("project is not open for funding")

// InvestmentService records investor commitments against projects.
// Express-interest rows carry no payment and stay PENDING until followed up
// out-of-band; funded commitments go through the gateway and settle via the
// payment callback.
type InvestmentService struct {
	investments *repository.InvestmentRepository
	projects    *repository.ProjectRepository
	payments    *PaymentService
	notifier    Notifier
}

func NewInvestmentService(
	investments *repository.InvestmentRepository,
	projects *repository.ProjectRepository,
	payments *PaymentService,
	notifier Notifier,
) *InvestmentService {
	return &InvestmentService{
		investments: investments,
		projects:    projects,
		payments:    payments,
		notifier:    notifier,
	}
}

type CommitmentParams struct {
	ProjectID      uint
	InvestorID     uint
	AmountPaise    int64
	ExpectedStakes float64
	Type           string // INVEST | SUPPORT
	Phone          string
	Message        string
}

// validate enforces the commitment rules: the project must be open; INVEST
// respects the project minimum and must name a positive stake up to 100%;
// SUPPORT is a donation, so the minimum does not apply and stakes are
// forced to zero.
func (s *InvestmentService) validate(project *models.Project, p *CommitmentParams) error {
	if project.Status != domain.ProjectStatusOpen {
		return ErrProjectNotOpen
	}
	if p.AmountPaise <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	switch p.Type {
	case domain.InvestmentTypeInvest:
		if p.AmountPaise < project.MinimumInvestmentPaise {
			return domain.ErrBelowMinimum
		}
		if p.ExpectedStakes <= 0 || p.ExpectedStakes > 100 {
			return domain.ErrInvalidStake
		}
	case domain.InvestmentTypeSupport:
		p.ExpectedStakes = 0
	default:
		return fmt.Errorf("unknown commitment type %q", p.Type)
	}
	return nil
}

func platformFee(amountPaise int64) int64 {
	return amountPaise * domain.PlatformFeePercent / 100
}

// ExpressInterest records a commitment with no money movement. The
// entrepreneur follows up with the investor directly.
func (s *InvestmentService) ExpressInterest(ctx context.Context, p CommitmentParams) (*models.Investment, error) {
	project, err := s.projects.GetByID(p.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(project, &p); err != nil {
		return nil, err
	}
	inv := &models.Investment{
		ProjectID:        p.ProjectID,
		InvestorID:       p.InvestorID,
		AmountPaise:      p.AmountPaise,
		ExpectedStakes:   p.ExpectedStakes,
		Type:             p.Type,
		Status:           domain.InvestmentStatusPending,
		PlatformFeePaise: platformFee(p.AmountPaise),
		InvestorPhone:    p.Phone,
		Message:          p.Message,
	}
	if err := s.investments.Create(inv); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, project.OwnerID, "interest_received", "Investor interest",
			fmt.Sprintf("An investor expressed interest of %d QP in %s.", p.AmountPaise/domain.PaisePerQP, project.Title), "")
	}
	log.Printf("[investment] interest project=%d investor=%d amount=%d paise", p.ProjectID, p.InvestorID, p.AmountPaise)
	return inv, nil
}

// Invest records a funded commitment: a PENDING investment linked to a
// gateway payment. The funding aggregate moves only when the callback
// settles the payment.
func (s *InvestmentService) Invest(ctx context.Context, p CommitmentParams, idempotencyKey string) (*models.Investment, *payment.CheckoutSession, error) {
	project, err := s.projects.GetByID(p.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validate(project, &p); err != nil {
		return nil, nil, err
	}

	pay, session, err := s.payments.Initiate(ctx, InitiateParams{
		UserID:         p.InvestorID,
		Purpose:        domain.PaymentPurposeInvestment,
		AmountPaise:    p.AmountPaise,
		IdempotencyKey: idempotencyKey,
		Metadata:       fmt.Sprintf(`{"project_id":%d}`, p.ProjectID),
	})
	if err != nil {
		return nil, nil, err
	}

	// An idempotent replay already has its investment row.
	if existing, err := s.investments.GetByPaymentID(pay.ID); err == nil {
		return existing, session, nil
	}

	inv := &models.Investment{
		ProjectID:        p.ProjectID,
		InvestorID:       p.InvestorID,
		AmountPaise:      p.AmountPaise,
		ExpectedStakes:   p.ExpectedStakes,
		Type:             p.Type,
		Status:           domain.InvestmentStatusPending,
		PlatformFeePaise: platformFee(p.AmountPaise),
		InvestorPhone:    p.Phone,
		Message:          p.Message,
		PaymentID:        &pay.ID,
	}
	if err := s.investments.Create(inv); err != nil {
		return nil, nil, err
	}
	log.Printf("[investment] initiated project=%d investor=%d txn=%s", p.ProjectID, p.InvestorID, pay.TxnID)
	return inv, session, nil
}

func (s *InvestmentService) GetByID(id uint) (*models.Investment, error) {
	inv, err := s.investments.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("investment %d not found", id)
		}
		return nil, err
	}
	return inv, nil
}

func (s *InvestmentService) ListByProject(projectID uint, limit, offset int) ([]models.Investment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.investments.ListByProject(projectID, limit, offset)
}

func (s *InvestmentService) ListMine(investorID uint, limit, offset int) ([]models.Investment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.investments.ListByInvestor(investorID, limit, offset)
}
