package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Brand struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerUserID uint           `gorm:"not null;index" json:"owner_user_id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Brand) TableName() string { return "brands" }

type BrandSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (b *Brand) Summary() *BrandSummary {
	if b == nil || b.ID == 0 {
		return nil
	}
	return &BrandSummary{ID: b.ID, Name: b.Name}
}

// BrandMember grants a user access to a brand under a role (owner, manager, pr).
// Among pr members the primary one receives PR commissions.
type BrandMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BrandID   uint      `gorm:"not null;uniqueIndex:idx_brand_member" json:"brand_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_brand_member;index" json:"user_id"`
	Role      string    `gorm:"size:20;not null;index" json:"role"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Brand Brand `gorm:"foreignKey:BrandID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

func (BrandMember) TableName() string { return "brand_members" }

// Ad is owned by a brand. PayPerInfluencer is the agreed gross price of one deliverable;
// nil means the brand never set one.
type Ad struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	BrandID          uint             `gorm:"not null;index" json:"brand_id"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	PayPerInfluencer *decimal.Decimal `gorm:"type:decimal(12,2)" json:"pay_per_influencer"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`

	Brand Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

func (Ad) TableName() string { return "ads" }
