package repository

import (
	"context"

	"brandhub/internal/domain"
	"brandhub/internal/models"

	"gorm.io/gorm"
)

type BrandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) GetByID(ctx context.Context, id uint) (*models.Brand, error) {
	var b models.Brand
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// CanManage reports whether the user owns the brand or holds an owner/manager membership.
func (r *BrandRepository) CanManage(ctx context.Context, brandID, userID uint) (bool, error) {
	b, err := r.GetByID(ctx, brandID)
	if err != nil {
		return false, err
	}
	if b.OwnerUserID == userID {
		return true, nil
	}
	var count int64
	err = r.db.WithContext(ctx).Model(&models.BrandMember{}).
		Where("brand_id = ? AND user_id = ? AND role IN ?", brandID, userID,
			[]string{domain.MemberRoleOwner, domain.MemberRoleManager}).
		Count(&count).Error
	return count > 0, err
}

// PrimaryPR resolves the brand's PR representative: the primary pr member if one exists,
// otherwise the oldest pr member. ErrNotFound when the brand has none.
func (r *BrandRepository) PrimaryPR(ctx context.Context, brandID uint) (*models.BrandMember, error) {
	var m models.BrandMember
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND role = ?", brandID, domain.MemberRolePR).
		Order("is_primary DESC").Order("id ASC").
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *BrandRepository) GetAd(ctx context.Context, id uint) (*models.Ad, error) {
	var ad models.Ad
	if err := r.db.WithContext(ctx).Preload("Brand").First(&ad, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ad, nil
}
