package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Influencer carries the progression state and the referral relationship.
// CompletedAdsCount and Badges are written only by the badge progression step.
type Influencer struct {
	ID                     uint                        `gorm:"primaryKey" json:"id"`
	UserID                 uint                        `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName            string                      `gorm:"size:128" json:"display_name"`
	PayoutVerified         bool                        `gorm:"not null;default:false" json:"payout_verified"`
	ReferralCode           *string                     `gorm:"uniqueIndex;size:20" json:"referral_code,omitempty"`
	ReferredByInfluencerID *uint                       `gorm:"index" json:"referred_by_influencer_id,omitempty"`
	CompletedAdsCount      int                         `gorm:"not null;default:0" json:"completed_ads_count"`
	Badges                 datatypes.JSONSlice[string] `gorm:"type:json" json:"badges"`
	CreatedAt              time.Time                   `json:"created_at"`
	UpdatedAt              time.Time                   `json:"updated_at"`
	DeletedAt              gorm.DeletedAt              `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Influencer) TableName() string { return "influencers" }

type InfluencerSummary struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	DisplayName string `json:"display_name"`
}

func (i *Influencer) Summary() *InfluencerSummary {
	if i == nil || i.ID == 0 {
		return nil
	}
	return &InfluencerSummary{ID: i.ID, UserID: i.UserID, DisplayName: i.DisplayName}
}
