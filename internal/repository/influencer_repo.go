package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"brandhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlreadyReferred = errors.New("influencer already has a referrer")

// BadgeFunc derives the new badge list from the post-increment completed count
// and the badges currently stored.
type BadgeFunc func(completed int, current []string) []string

type InfluencerRepository struct {
	db *gorm.DB
}

func NewInfluencerRepository(db *gorm.DB) *InfluencerRepository {
	return &InfluencerRepository{db: db}
}

func (r *InfluencerRepository) GetByID(ctx context.Context, id uint) (*models.Influencer, error) {
	var inf models.Influencer
	if err := r.db.WithContext(ctx).First(&inf, id).Error; err != nil {
		return nil, translate(err)
	}
	return &inf, nil
}

func (r *InfluencerRepository) GetByUserID(ctx context.Context, userID uint) (*models.Influencer, error) {
	var inf models.Influencer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&inf).Error; err != nil {
		return nil, translate(err)
	}
	return &inf, nil
}

func (r *InfluencerRepository) GetByReferralCode(ctx context.Context, code string) (*models.Influencer, error) {
	var inf models.Influencer
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&inf).Error; err != nil {
		return nil, translate(err)
	}
	return &inf, nil
}

// generateReferralCode returns 8 lowercase hex chars, e.g. "a3f2c1b0".
func generateReferralCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// EnsureReferralCode returns the influencer's referral code, assigning a fresh unique one if unset.
func (r *InfluencerRepository) EnsureReferralCode(ctx context.Context, id uint) (string, error) {
	inf, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if inf.ReferralCode != nil && *inf.ReferralCode != "" {
		return *inf.ReferralCode, nil
	}
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return "", err
		}
		res := r.db.WithContext(ctx).Model(&models.Influencer{}).
			Where("id = ? AND referral_code IS NULL", id).
			Update("referral_code", code)
		if res.Error != nil {
			if IsDuplicate(res.Error) {
				continue // collision, retry with a new code
			}
			return "", res.Error
		}
		if res.RowsAffected == 0 {
			// someone else assigned one concurrently
			inf, err := r.GetByID(ctx, id)
			if err != nil {
				return "", err
			}
			if inf.ReferralCode != nil {
				return *inf.ReferralCode, nil
			}
			continue
		}
		return code, nil
	}
	return "", fmt.Errorf("failed to generate a unique referral code after retries")
}

// SetReferredBy records the referrer exactly once. A second call returns ErrAlreadyReferred.
func (r *InfluencerRepository) SetReferredBy(ctx context.Context, id, referrerID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Influencer{}).
		Where("id = ? AND referred_by_influencer_id IS NULL", id).
		Update("referred_by_influencer_id", referrerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyReferred
	}
	return nil
}

// RecordCompletion increments completed_ads_count by one and rewrites badges under a row lock.
func (r *InfluencerRepository) RecordCompletion(ctx context.Context, id uint, badges BadgeFunc) (*models.Influencer, error) {
	var inf models.Influencer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inf, id).Error; err != nil {
			return translate(err)
		}
		inf.CompletedAdsCount++
		inf.Badges = badges(inf.CompletedAdsCount, inf.Badges)
		return tx.Model(&models.Influencer{}).Where("id = ?", inf.ID).Updates(map[string]interface{}{
			"completed_ads_count": inf.CompletedAdsCount,
			"badges":              inf.Badges,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &inf, nil
}
