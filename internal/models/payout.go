package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout is the immutable record of one settled application.
// The unique index on ApplicationID is what makes double approval impossible.
type Payout struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ApplicationID uint            `gorm:"not null;uniqueIndex" json:"application_id"`
	InfluencerID  uint            `gorm:"not null;index" json:"influencer_id"`
	GrossAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gross_amount"`
	Commission    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"commission"`
	NetAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_amount"`
	Rate          float64         `gorm:"type:decimal(5,4);not null" json:"rate"`
	Region        string          `gorm:"size:64" json:"region"`
	Status        string          `gorm:"size:20;not null;index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Payout) TableName() string { return "payouts" }
