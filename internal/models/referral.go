package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ReferralCommission pays the referrer of the influencer whose payout triggered it.
// At most one row per (referrer, payout): enforced by idx_referral_commission_payout.
type ReferralCommission struct {
	ID                   uint              `gorm:"primaryKey" json:"id"`
	ReferrerInfluencerID uint              `gorm:"not null;uniqueIndex:idx_referral_commission_payout" json:"referrer_influencer_id"`
	SourceInfluencerID   uint              `gorm:"not null;index" json:"source_influencer_id"`
	PayoutID             *uint             `gorm:"uniqueIndex:idx_referral_commission_payout" json:"payout_id"`
	Amount               decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status               string            `gorm:"size:20;not null;index" json:"status"`
	Metadata             datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`

	Referrer *Influencer `gorm:"foreignKey:ReferrerInfluencerID" json:"-"`
	Source   *Influencer `gorm:"foreignKey:SourceInfluencerID" json:"-"`
}

func (ReferralCommission) TableName() string { return "referral_commissions" }
