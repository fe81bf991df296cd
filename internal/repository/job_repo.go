package repository

import (
	"qipad/internal/domain"
	"qipad/internal/models"

	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) GetByID(id uint) (*models.Job, error) {
	var j models.Job
	if err := r.db.Preload("Company").First(&j, id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) Update(job *models.Job) error {
	return r.db.Save(job).Error
}

func (r *JobRepository) List(location string, limit, offset int) ([]models.Job, int64, error) {
	q := r.db.Model(&models.Job{}).Where("status = ?", domain.JobStatusOpen)
	if location != "" {
		q = q.Where("location = ?", location)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Job
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *JobRepository) ListByPoster(posterID uint) ([]models.Job, error) {
	var list []models.Job
	err := r.db.Where("poster_id = ?", posterID).Order("id DESC").Find(&list).Error
	return list, err
}

// CreateApplication relies on the unique (job_id, applicant_id) index to
// reject duplicate applications.
func (r *JobRepository) CreateApplication(app *models.JobApplication) error {
	return r.db.Create(app).Error
}

func (r *JobRepository) ListApplications(jobID uint, limit, offset int) ([]models.JobApplication, error) {
	var list []models.JobApplication
	err := r.db.Where("job_id = ?", jobID).
		Preload("Applicant").
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
