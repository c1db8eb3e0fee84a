package repository

import (
	"context"
	"time"

	"brandhub/internal/domain"
	"brandhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PrCommissionRepository struct {
	db *gorm.DB
}

func NewPrCommissionRepository(db *gorm.DB) *PrCommissionRepository {
	return &PrCommissionRepository{db: db}
}

// CreateOnce inserts the commission or returns the existing row for the same (PR user, payout).
func (r *PrCommissionRepository) CreateOnce(ctx context.Context, pc *models.PrCommission) (*models.PrCommission, bool, error) {
	return insertOnce(ctx, r.db, pc, map[string]interface{}{
		"pr_user_id": pc.PrUserID,
		"payout_id":  pc.PayoutID,
	})
}

func (r *PrCommissionRepository) GetByID(ctx context.Context, id uint) (*models.PrCommission, error) {
	var pc models.PrCommission
	err := r.db.WithContext(ctx).Preload("PrUser").Preload("Brand").First(&pc, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &pc, nil
}

func (r *PrCommissionRepository) List(ctx context.Context, f LedgerFilter) ([]models.PrCommission, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.PrCommission{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.OwnerID != 0 {
		q = q.Where("pr_user_id = ?", f.OwnerID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.PrCommission
	err := q.Preload("PrUser").Preload("Brand").
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&list).Error
	return list, total, err
}

func (r *PrCommissionRepository) MarkPaid(ctx context.Context, id, actorID uint, at time.Time) (*models.PrCommission, bool, error) {
	var (
		pc      models.PrCommission
		changed bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&pc, id).Error; err != nil {
			return translate(err)
		}
		if pc.Status == domain.CommissionStatusPaid {
			return nil
		}
		if err := tx.Model(&models.PrCommission{}).Where("id = ?", pc.ID).Updates(paidUpdates(pc.Metadata, actorID, at)).Error; err != nil {
			return err
		}
		pc.Status = domain.CommissionStatusPaid
		pc.Metadata = paidMetadata(pc.Metadata, actorID, at)
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &pc, changed, nil
}
