package models

import (
	"time"

	"brandhub/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Application is one influencer's work on one ad: applied -> delivered -> paid.
type Application struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	AdID         uint           `gorm:"not null;uniqueIndex:idx_application_ad_influencer" json:"ad_id"`
	InfluencerID uint           `gorm:"not null;uniqueIndex:idx_application_ad_influencer;index" json:"influencer_id"`
	State        string         `gorm:"size:64" json:"state"` // assigned region
	Message      string         `gorm:"type:text" json:"message"`
	Status       string         `gorm:"size:20;not null;index" json:"status"`
	Submission   datatypes.JSON `json:"submission,omitempty"`
	SubmittedAt  *time.Time     `json:"submitted_at"`
	PaidAt       *time.Time     `json:"paid_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Ad         Ad         `gorm:"foreignKey:AdID" json:"ad,omitempty"`
	Influencer Influencer `gorm:"foreignKey:InfluencerID" json:"-"`
}

func (Application) TableName() string { return "applications" }

func (a *Application) IsPaid() bool { return a.Status == domain.ApplicationStatusPaid }
