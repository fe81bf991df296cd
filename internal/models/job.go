package models

import (
	"time"

	"gorm.io/gorm"
)

type Job struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	PosterID       uint           `gorm:"not null;index" json:"poster_id"`
	CompanyID      *uint          `gorm:"index" json:"company_id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Location       string         `gorm:"size:128" json:"location"`
	SalaryMinPaise int64          `json:"salary_min_paise"`
	SalaryMaxPaise int64          `json:"salary_max_paise"`
	Status         string         `gorm:"size:20;not null;index;default:'OPEN'" json:"status"` // OPEN | CLOSED
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Poster  User     `gorm:"foreignKey:PosterID" json:"-"`
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (Job) TableName() string { return "jobs" }

type JobApplication struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	JobID       uint           `gorm:"not null;index;uniqueIndex:idx_job_applicant" json:"job_id"`
	ApplicantID uint           `gorm:"not null;index;uniqueIndex:idx_job_applicant" json:"applicant_id"`
	CoverNote   string         `gorm:"type:text" json:"cover_note"`
	ResumeURL   string         `gorm:"size:512" json:"resume_url"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Job       Job  `gorm:"foreignKey:JobID" json:"-"`
	Applicant User `gorm:"foreignKey:ApplicantID" json:"-"`
}

func (JobApplication) TableName() string { return "job_applications" }
