package repository

import (
	"context"
	"errors"
	"time"

	"brandhub/internal/domain"
	"brandhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlreadySettled = errors.New("application already settled")

// PayoutBuilder computes the payout for an application inside the settlement transaction.
// Returning an error aborts the settlement with nothing written.
type PayoutBuilder func(app *models.Application, ad *models.Ad) (*models.Payout, error)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return translate(r.db.WithContext(ctx).Create(app).Error)
}

// GetByID returns the application with its ad and the ad's brand.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Preload("Ad.Brand").First(&app, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// MarkDelivered moves an application from applied to delivered and stores the submission.
// Returns ErrNotFound when no applied row with that id exists.
func (r *ApplicationRepository) MarkDelivered(ctx context.Context, id uint, submission []byte, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND status = ?", id, domain.ApplicationStatusApplied).
		Updates(map[string]interface{}{
			"status":       domain.ApplicationStatusDelivered,
			"submission":   submission,
			"submitted_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Settle flips the application to paid and inserts its payout in one transaction.
// The application row is locked for the duration, and payouts.application_id is unique,
// so concurrent approvals produce exactly one payout; the losers get ErrAlreadySettled.
func (r *ApplicationRepository) Settle(ctx context.Context, id uint, build PayoutBuilder) (*models.Application, *models.Payout, error) {
	var (
		app    models.Application
		payout *models.Payout
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&app, id).Error; err != nil {
			return translate(err)
		}
		if app.IsPaid() {
			return ErrAlreadySettled
		}
		var ad models.Ad
		if err := tx.Preload("Brand").First(&ad, app.AdID).Error; err != nil {
			return translate(err)
		}
		// missing or soft-deleted brand
		if ad.Brand.ID == 0 {
			return ErrNotFound
		}
		app.Ad = ad

		p, err := build(&app, &ad)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.Application{}).Where("id = ?", app.ID).Updates(map[string]interface{}{
			"status":  domain.ApplicationStatusPaid,
			"paid_at": now,
		}).Error; err != nil {
			return err
		}
		app.Status = domain.ApplicationStatusPaid
		app.PaidAt = &now

		p.ApplicationID = app.ID
		if err := tx.Create(p).Error; err != nil {
			if IsDuplicate(err) {
				return ErrAlreadySettled
			}
			return err
		}
		payout = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &app, payout, nil
}

func (r *ApplicationRepository) GetPayoutByApplicationID(ctx context.Context, applicationID uint) (*models.Payout, error) {
	var p models.Payout
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}
