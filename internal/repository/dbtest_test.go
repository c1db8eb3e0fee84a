package repository

import (
	"path/filepath"
	"testing"

	"brandhub/internal/database"
	"brandhub/internal/domain"
	"brandhub/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a migrated sqlite database in a temp dir. One connection, so
// concurrent callers queue the way they would behind a row lock.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "brandhub.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type settlementSeed struct {
	brand      models.Brand
	ad         models.Ad
	referrer   models.Influencer
	influencer models.Influencer
	app        models.Application
}

// seedSettlement creates brand "Acme" with an ad priced 1000.00 and a delivered application
// from an influencer who was referred by another.
func seedSettlement(t *testing.T, db *gorm.DB) *settlementSeed {
	t.Helper()
	mustCreate := func(v interface{}) {
		t.Helper()
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed %T: %v", v, err)
		}
	}

	owner := models.User{Name: "Owner", Email: "owner@acme.test", Role: domain.RoleBrand}
	referrerUser := models.User{Name: "Ref", Email: "ref@acme.test", Role: domain.RoleInfluencer}
	infUser := models.User{Name: "Inf", Email: "inf@acme.test", Role: domain.RoleInfluencer}
	mustCreate(&owner)
	mustCreate(&referrerUser)
	mustCreate(&infUser)

	s := &settlementSeed{}
	s.brand = models.Brand{OwnerUserID: owner.ID, Name: "Acme"}
	mustCreate(&s.brand)
	price := decimal.RequireFromString("1000.00")
	s.ad = models.Ad{BrandID: s.brand.ID, Title: "Launch", PayPerInfluencer: &price}
	mustCreate(&s.ad)

	s.referrer = models.Influencer{UserID: referrerUser.ID, DisplayName: "Ref"}
	mustCreate(&s.referrer)
	s.influencer = models.Influencer{UserID: infUser.ID, DisplayName: "Inf", ReferredByInfluencerID: &s.referrer.ID}
	mustCreate(&s.influencer)

	s.app = models.Application{AdID: s.ad.ID, InfluencerID: s.influencer.ID, State: "Nairobi", Status: domain.ApplicationStatusDelivered}
	mustCreate(&s.app)
	return s
}

// flatPayout settles at a fixed 20% platform cut.
func flatPayout(app *models.Application, ad *models.Ad) (*models.Payout, error) {
	gross := *ad.PayPerInfluencer
	commission := gross.Mul(decimal.RequireFromString("0.2")).Round(2)
	return &models.Payout{
		InfluencerID: app.InfluencerID,
		GrossAmount:  gross,
		Commission:   commission,
		NetAmount:    gross.Sub(commission),
		Rate:         0.2,
		Region:       app.State,
		Status:       domain.PayoutStatusCompleted,
	}, nil
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}
