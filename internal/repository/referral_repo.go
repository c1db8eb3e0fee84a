package repository

import (
	"context"
	"time"

	"brandhub/internal/domain"
	"brandhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// CreateOnce inserts the commission or returns the existing row for the same (referrer, payout).
func (r *ReferralRepository) CreateOnce(ctx context.Context, rc *models.ReferralCommission) (*models.ReferralCommission, bool, error) {
	return insertOnce(ctx, r.db, rc, map[string]interface{}{
		"referrer_influencer_id": rc.ReferrerInfluencerID,
		"payout_id":              rc.PayoutID,
	})
}

func (r *ReferralRepository) GetByID(ctx context.Context, id uint) (*models.ReferralCommission, error) {
	var rc models.ReferralCommission
	err := r.db.WithContext(ctx).Preload("Referrer").Preload("Source").First(&rc, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rc, nil
}

// List returns commissions newest first with referrer and source influencers preloaded.
func (r *ReferralRepository) List(ctx context.Context, f LedgerFilter) ([]models.ReferralCommission, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ReferralCommission{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.OwnerID != 0 {
		q = q.Where("referrer_influencer_id = ?", f.OwnerID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.ReferralCommission
	err := q.Preload("Referrer").Preload("Source").
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&list).Error
	return list, total, err
}

// MarkPaid moves earned -> paid once. An already paid row is returned unchanged with changed=false.
func (r *ReferralRepository) MarkPaid(ctx context.Context, id, actorID uint, at time.Time) (*models.ReferralCommission, bool, error) {
	var (
		rc      models.ReferralCommission
		changed bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rc, id).Error; err != nil {
			return translate(err)
		}
		if rc.Status == domain.CommissionStatusPaid {
			return nil
		}
		updates := paidUpdates(rc.Metadata, actorID, at)
		if err := tx.Model(&models.ReferralCommission{}).Where("id = ?", rc.ID).Updates(updates).Error; err != nil {
			return err
		}
		rc.Status = domain.CommissionStatusPaid
		rc.Metadata = paidMetadata(rc.Metadata, actorID, at)
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &rc, changed, nil
}
