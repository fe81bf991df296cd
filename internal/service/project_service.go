package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"qipad/internal/domain"
	"qipad/internal/models"
	"qipad/internal/repository"
)

// ProjectService manages innovation campaigns. Creation is credit-gated:
// the QP cost is deducted first, and refunded if the create itself fails.
type ProjectService struct {
	projects *repository.ProjectRepository
	credits  *CreditService
}

func NewProjectService(projects *repository.ProjectRepository, credits *CreditService) *ProjectService {
	return &ProjectService{projects: projects, credits: credits}
}

type CreateProjectParams struct {
	OwnerID                uint
	Title                  string
	Description            string
	Category               string
	FundingGoalPaise       int64
	MinimumInvestmentPaise int64
	CampaignDurationDays   int
}

// Create deducts the innovation posting cost, then creates the project. If
// the insert fails after the deduction committed, the cost is refunded as a
// compensating ledger entry.
func (s *ProjectService) Create(ctx context.Context, p CreateProjectParams) (*models.Project, error) {
	if p.FundingGoalPaise <= 0 {
		return nil, fmt.Errorf("funding goal must be positive")
	}
	if p.CampaignDurationDays <= 0 {
		p.CampaignDurationDays = 90
	}

	entry, err := s.credits.Deduct(ctx, p.OwnerID, domain.ActionInnovation, "project", "")
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		OwnerID:                p.OwnerID,
		Title:                  p.Title,
		Description:            p.Description,
		Category:               p.Category,
		FundingGoalPaise:       p.FundingGoalPaise,
		MinimumInvestmentPaise: p.MinimumInvestmentPaise,
		CampaignDurationDays:   p.CampaignDurationDays,
		EndsAt:                 time.Now().AddDate(0, 0, p.CampaignDurationDays),
		Status:                 domain.ProjectStatusOpen,
	}
	if err := s.projects.Create(project); err != nil {
		if _, rerr := s.credits.Refund(ctx, p.OwnerID, domain.ActionInnovation, "project", entry.EntryNo, "project creation failed"); rerr != nil {
			log.Printf("[project] refund after failed create for user %d: %v", p.OwnerID, rerr)
		}
		return nil, err
	}
	log.Printf("[project] created id=%d owner=%d goal=%d paise", project.ID, project.OwnerID, project.FundingGoalPaise)
	return project, nil
}

func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	return s.projects.GetByID(id)
}

func (s *ProjectService) List(category string, limit, offset int) ([]models.Project, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.projects.List(category, limit, offset)
}

func (s *ProjectService) ListMine(ownerID uint) ([]models.Project, error) {
	return s.projects.ListByOwner(ownerID)
}

// AttachMedia stores uploaded asset URLs on the owner's project.
func (s *ProjectService) AttachMedia(projectID, ownerID uint, imageURL, pitchDeckURL string) (*models.Project, error) {
	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != ownerID {
		return nil, fmt.Errorf("project %d does not belong to user %d", projectID, ownerID)
	}
	if imageURL != "" {
		project.ImageURL = imageURL
	}
	if pitchDeckURL != "" {
		project.PitchDeckURL = pitchDeckURL
	}
	if err := s.projects.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Close ends a campaign early. Only the owner can close.
func (s *ProjectService) Close(projectID, ownerID uint) error {
	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != ownerID {
		return fmt.Errorf("project %d does not belong to user %d", projectID, ownerID)
	}
	project.Status = domain.ProjectStatusClosed
	return s.projects.Update(project)
}
