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

// CompanyService registers companies. The registration fee is paid from
// wallet credits when the balance allows; otherwise the company stays
// PENDING_PAYMENT and a gateway checkout covers the fee.
type CompanyService struct {
	companies *repository.CompanyRepository
	credits   *CreditService
	payments  *PaymentService
	db        *gorm.DB
}

func NewCompanyService(companies *repository.CompanyRepository, credits *CreditService, payments *PaymentService, db *gorm.DB) *CompanyService {
	return &CompanyService{companies: companies, credits: credits, payments: payments, db: db}
}

type RegisterCompanyParams struct {
	OwnerID     uint
	Name        string
	CIN         string
	Sector      string
	Website     string
	Description string
}

// Register creates the company and settles the fee. Wallet-funded
// registrations activate immediately; a shortfall falls back to the
// gateway with the company left PENDING_PAYMENT until the callback.
func (s *CompanyService) Register(ctx context.Context, p RegisterCompanyParams) (*models.Company, *payment.CheckoutSession, error) {
	if p.Name == "" {
		return nil, nil, fmt.Errorf("company name is required")
	}
	company := &models.Company{
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		CIN:         p.CIN,
		Sector:      p.Sector,
		Website:     p.Website,
		Description: p.Description,
		Status:      domain.CompanyStatusPendingPayment,
	}
	if err := s.companies.Create(company); err != nil {
		return nil, nil, fmt.Errorf("company name already registered")
	}

	_, err := s.credits.Deduct(ctx, p.OwnerID, domain.ActionCompany, "company", fmt.Sprint(company.ID))
	if err == nil {
		if _, aerr := s.companies.ActivateIfPendingPayment(s.db, company.ID); aerr != nil {
			return nil, nil, aerr
		}
		company.Status = domain.CompanyStatusActive
		log.Printf("[company] registered id=%d owner=%d via wallet", company.ID, p.OwnerID)
		return company, nil, nil
	}
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		return nil, nil, err
	}

	cost, _ := domain.CostPaise(domain.ActionCompany)
	pay, session, err := s.payments.Initiate(ctx, InitiateParams{
		UserID:      p.OwnerID,
		Purpose:     domain.PaymentPurposeCompanyRegistration,
		AmountPaise: cost,
		Metadata:    fmt.Sprintf(`{"company_id":%d}`, company.ID),
	})
	if err != nil {
		return nil, nil, err
	}
	company.PaymentID = &pay.ID
	if err := s.companies.Update(company); err != nil {
		return nil, nil, err
	}
	log.Printf("[company] registered id=%d owner=%d pending gateway payment txn=%s", company.ID, p.OwnerID, pay.TxnID)
	return company, session, nil
}

func (s *CompanyService) GetByID(id uint) (*models.Company, error) {
	return s.companies.GetByID(id)
}

func (s *CompanyService) ListMine(ownerID uint) ([]models.Company, error) {
	return s.companies.ListByOwner(ownerID)
}
