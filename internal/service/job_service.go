package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"qipad/internal/domain"
	"qipad/internal/models"
	"qipad/internal/repository"
)

var ErrAlreadyApplied = errors.New("already applied to this job")

// JobService manages job postings. Posting is credit-gated like projects.
type JobService struct {
	jobs    *repository.JobRepository
	credits *CreditService
}

func NewJobService(jobs *repository.JobRepository, credits *CreditService) *JobService {
	return &JobService{jobs: jobs, credits: credits}
}

type CreateJobParams struct {
	PosterID       uint
	CompanyID      *uint
	Title          string
	Description    string
	Location       string
	SalaryMinPaise int64
	SalaryMaxPaise int64
}

func (s *JobService) Create(ctx context.Context, p CreateJobParams) (*models.Job, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	entry, err := s.credits.Deduct(ctx, p.PosterID, domain.ActionJob, "job", "")
	if err != nil {
		return nil, err
	}
	job := &models.Job{
		PosterID:       p.PosterID,
		CompanyID:      p.CompanyID,
		Title:          p.Title,
		Description:    p.Description,
		Location:       p.Location,
		SalaryMinPaise: p.SalaryMinPaise,
		SalaryMaxPaise: p.SalaryMaxPaise,
		Status:         domain.JobStatusOpen,
	}
	if err := s.jobs.Create(job); err != nil {
		if _, rerr := s.credits.Refund(ctx, p.PosterID, domain.ActionJob, "job", entry.EntryNo, "job creation failed"); rerr != nil {
			log.Printf("[job] refund after failed create for user %d: %v", p.PosterID, rerr)
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) GetByID(id uint) (*models.Job, error) {
	return s.jobs.GetByID(id)
}

func (s *JobService) List(location string, limit, offset int) ([]models.Job, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.jobs.List(location, limit, offset)
}

// Apply records one application per (job, applicant); the unique index
// turns a duplicate into ErrAlreadyApplied.
func (s *JobService) Apply(jobID, applicantID uint, coverNote, resumeURL string) (*models.JobApplication, error) {
	job, err := s.jobs.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusOpen {
		return nil, fmt.Errorf("job is closed")
	}
	app := &models.JobApplication{
		JobID:       jobID,
		ApplicantID: applicantID,
		CoverNote:   coverNote,
		ResumeURL:   resumeURL,
	}
	if err := s.jobs.CreateApplication(app); err != nil {
		return nil, ErrAlreadyApplied
	}
	return app, nil
}

func (s *JobService) ListApplications(jobID, requesterID uint, limit, offset int) ([]models.JobApplication, error) {
	job, err := s.jobs.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job.PosterID != requesterID {
		return nil, fmt.Errorf("only the poster can view applications")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.jobs.ListApplications(jobID, limit, offset)
}
