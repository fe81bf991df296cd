package models

import (
	"time"

	"gorm.io/gorm"
)

// Project is an innovation campaign raising funds. CurrentFundingPaise is a
// cached sum of COMPLETED investment amounts; it only ever grows while the
// campaign is open and is incremented exactly once per settled investment.
type Project struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	OwnerID                uint           `gorm:"not null;index" json:"owner_id"`
	Title                  string         `gorm:"size:255;not null" json:"title"`
	Description            string         `gorm:"type:text" json:"description"`
	Category               string         `gorm:"size:64;index" json:"category"`
	ImageURL               string         `gorm:"size:512" json:"image_url"`
	PitchDeckURL           string         `gorm:"size:512" json:"pitch_deck_url"`
	FundingGoalPaise       int64          `gorm:"not null" json:"funding_goal_paise"`
	CurrentFundingPaise    int64          `gorm:"not null;default:0" json:"current_funding_paise"`
	MinimumInvestmentPaise int64          `gorm:"not null;default:0" json:"minimum_investment_paise"`
	CampaignDurationDays   int            `gorm:"not null;default:90" json:"campaign_duration_days"`
	EndsAt                 time.Time      `gorm:"index" json:"ends_at"`
	Status                 string         `gorm:"size:20;not null;index;default:'OPEN'" json:"status"` // OPEN, FUNDED, CLOSED
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`

	Owner       User         `gorm:"foreignKey:OwnerID" json:"-"`
	Investments []Investment `gorm:"foreignKey:ProjectID" json:"investments,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

// ProgressPercent is display-only; the authoritative state is the
// investment rows.
func (p *Project) ProgressPercent() float64 {
	if p.FundingGoalPaise <= 0 {
		return 0
	}
	pct := float64(p.CurrentFundingPaise) / float64(p.FundingGoalPaise) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
