package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PrCommission pays the brand's PR representative for a settled payout on one of its ads.
// At most one row per (PR user, payout): enforced by idx_pr_commission_payout.
type PrCommission struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	PrUserID      uint              `gorm:"not null;uniqueIndex:idx_pr_commission_payout" json:"pr_user_id"`
	BrandID       uint              `gorm:"not null;index" json:"brand_id"`
	AdID          *uint             `gorm:"index" json:"ad_id"`
	ApplicationID *uint             `gorm:"index" json:"application_id"`
	PayoutID      *uint             `gorm:"uniqueIndex:idx_pr_commission_payout" json:"payout_id"`
	Amount        decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status        string            `gorm:"size:20;not null;index" json:"status"`
	Metadata      datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	PrUser *User  `gorm:"foreignKey:PrUserID" json:"-"`
	Brand  *Brand `gorm:"foreignKey:BrandID" json:"-"`
}

func (PrCommission) TableName() string { return "pr_commissions" }
