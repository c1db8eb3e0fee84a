package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"brandhub/internal/domain"
	"brandhub/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func settledPayout(t *testing.T, db *gorm.DB) (*settlementSeed, *models.Payout) {
	t.Helper()
	seed := seedSettlement(t, db)
	_, payout, err := NewApplicationRepository(db).Settle(context.Background(), seed.app.ID, flatPayout)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	return seed, payout
}

func referralRow(seed *settlementSeed, payout *models.Payout) *models.ReferralCommission {
	return &models.ReferralCommission{
		ReferrerInfluencerID: seed.referrer.ID,
		SourceInfluencerID:   seed.influencer.ID,
		PayoutID:             &payout.ID,
		Amount:               decimal.RequireFromString("50.00"),
		Status:               domain.CommissionStatusEarned,
		Metadata:             datatypes.JSONMap{"basis": domain.BasisCommission, "rate": 0.25},
	}
}

func TestReferralCreateOnce_ConcurrentRetriesKeepOneRow(t *testing.T) {
	db := newTestDB(t)
	seed, payout := settledPayout(t, db)
	repo := NewReferralRepository(db)

	const callers = 5
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[uint]bool{}
		errs    []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc, fresh, err := repo.CreateOnce(context.Background(), referralRow(seed, payout))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if fresh {
				created++
			}
			ids[rc.ID] = true
		}()
	}
	wg.Wait()

	if len(errs) != 0 {
		t.Fatalf("duplicates must resolve to the existing row, got %v", errs)
	}
	if created != 1 || len(ids) != 1 {
		t.Fatalf("created = %d, distinct ids = %d, want 1/1", created, len(ids))
	}
	if n := countRows(t, db, &models.ReferralCommission{}); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestPrCreateOnce_SecondCallReturnsExisting(t *testing.T) {
	db := newTestDB(t)
	seed, payout := settledPayout(t, db)
	repo := NewPrCommissionRepository(db)
	row := func() *models.PrCommission {
		return &models.PrCommission{
			PrUserID:      seed.brand.OwnerUserID,
			BrandID:       seed.brand.ID,
			AdID:          &seed.ad.ID,
			ApplicationID: &seed.app.ID,
			PayoutID:      &payout.ID,
			Amount:        decimal.RequireFromString("20.00"),
			Status:        domain.CommissionStatusEarned,
		}
	}

	first, created, err := repo.CreateOnce(context.Background(), row())
	if err != nil || !created {
		t.Fatalf("first CreateOnce = %v, %v", created, err)
	}
	second, created, err := repo.CreateOnce(context.Background(), row())
	if err != nil {
		t.Fatal(err)
	}
	if created || second.ID != first.ID || !second.Amount.Equal(first.Amount) {
		t.Fatalf("second = %+v created=%v, want existing row %d", second, created, first.ID)
	}
	if n := countRows(t, db, &models.PrCommission{}); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestReferralMarkPaid_KeepsFirstPaidAt(t *testing.T) {
	db := newTestDB(t)
	seed, payout := settledPayout(t, db)
	repo := NewReferralRepository(db)
	ctx := context.Background()

	rc, _, err := repo.CreateOnce(ctx, referralRow(seed, payout))
	if err != nil {
		t.Fatal(err)
	}
	firstAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	paid, changed, err := repo.MarkPaid(ctx, rc.ID, 9, firstAt)
	if err != nil || !changed || paid.Status != domain.CommissionStatusPaid {
		t.Fatalf("first MarkPaid = %+v changed=%v err=%v", paid, changed, err)
	}
	again, changed, err := repo.MarkPaid(ctx, rc.ID, 10, firstAt.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Fatal("second MarkPaid must report no change")
	}

	stored, err := repo.GetByID(ctx, rc.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, got := range []*models.ReferralCommission{again, stored} {
		if got.Metadata["paidAt"] != "2026-05-01T10:00:00Z" {
			t.Fatalf("paidAt = %v, want the first payment time", got.Metadata["paidAt"])
		}
		if got.Metadata["basis"] != domain.BasisCommission {
			t.Fatalf("metadata lost existing keys: %v", got.Metadata)
		}
	}
	if stored.Referrer == nil || stored.Referrer.ID != seed.referrer.ID {
		t.Fatalf("referrer not preloaded: %+v", stored.Referrer)
	}
}

func TestPrMarkPaid_Once(t *testing.T) {
	db := newTestDB(t)
	seed, payout := settledPayout(t, db)
	repo := NewPrCommissionRepository(db)
	ctx := context.Background()

	pc, _, err := repo.CreateOnce(ctx, &models.PrCommission{
		PrUserID: seed.brand.OwnerUserID,
		BrandID:  seed.brand.ID,
		PayoutID: &payout.ID,
		Amount:   decimal.RequireFromString("20.00"),
		Status:   domain.CommissionStatusEarned,
	})
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)
	if _, changed, err := repo.MarkPaid(ctx, pc.ID, 1, at); err != nil || !changed {
		t.Fatalf("first MarkPaid changed=%v err=%v", changed, err)
	}
	got, changed, err := repo.MarkPaid(ctx, pc.ID, 2, at.Add(24*time.Hour))
	if err != nil || changed {
		t.Fatalf("second MarkPaid changed=%v err=%v", changed, err)
	}
	if got.Metadata["paidAt"] != "2026-05-02T08:30:00Z" {
		t.Fatalf("paidAt = %v", got.Metadata["paidAt"])
	}
	if _, _, err := repo.MarkPaid(ctx, 404, 1, at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestReferralList_FiltersAndPages(t *testing.T) {
	db := newTestDB(t)
	seed, payout := settledPayout(t, db)
	repo := NewReferralRepository(db)
	ctx := context.Background()

	rc, _, err := repo.CreateOnce(ctx, referralRow(seed, payout))
	if err != nil {
		t.Fatal(err)
	}

	list, total, err := repo.List(ctx, LedgerFilter{Status: domain.CommissionStatusEarned, OwnerID: seed.referrer.ID, Limit: 20})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != rc.ID || list[0].Source == nil {
		t.Fatalf("list = %+v total=%d", list, total)
	}
	if _, total, _ := repo.List(ctx, LedgerFilter{Status: domain.CommissionStatusPaid, Limit: 20}); total != 0 {
		t.Fatalf("paid filter total = %d, want 0", total)
	}
	if _, total, _ := repo.List(ctx, LedgerFilter{OwnerID: seed.influencer.ID, Limit: 20}); total != 0 {
		t.Fatalf("other owner total = %d, want 0", total)
	}
}
