package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"brandhub/internal/domain"
	"brandhub/internal/models"
	"brandhub/internal/repository"
	"brandhub/pkg/money"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := money.FromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func uintPtr(v uint) *uint { return &v }

// fakeApplications holds applications and ads in memory and settles them under a mutex,
// standing in for the locked transaction of the real repository.
type fakeApplications struct {
	mu       sync.Mutex
	apps     map[uint]*models.Application
	ads      map[uint]*models.Ad
	payouts  map[uint]*models.Payout
	nextID   uint
	settles  int
	settleFn func() error
}

func newFakeApplications() *fakeApplications {
	return &fakeApplications{
		apps:    map[uint]*models.Application{},
		ads:     map[uint]*models.Ad{},
		payouts: map[uint]*models.Payout{},
		nextID:  100,
	}
}

func (f *fakeApplications) Create(ctx context.Context, app *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.AdID == app.AdID && a.InfluencerID == app.InfluencerID {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	app.ID = f.nextID
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeApplications) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	if ad, ok := f.ads[a.AdID]; ok {
		cp.Ad = *ad
	}
	return &cp, nil
}

func (f *fakeApplications) GetAd(ctx context.Context, id uint) (*models.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ad, ok := f.ads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *ad
	return &cp, nil
}

func (f *fakeApplications) MarkDelivered(ctx context.Context, id uint, submission []byte, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok || a.Status != domain.ApplicationStatusApplied {
		return repository.ErrNotFound
	}
	a.Status = domain.ApplicationStatusDelivered
	a.Submission = submission
	a.SubmittedAt = &at
	return nil
}

func (f *fakeApplications) Settle(ctx context.Context, id uint, build repository.PayoutBuilder) (*models.Application, *models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settles++
	if f.settleFn != nil {
		if err := f.settleFn(); err != nil {
			return nil, nil, err
		}
	}
	a, ok := f.apps[id]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	if a.IsPaid() {
		return nil, nil, repository.ErrAlreadySettled
	}
	ad, ok := f.ads[a.AdID]
	if !ok || ad.Brand.ID == 0 {
		return nil, nil, repository.ErrNotFound
	}
	p, err := build(a, ad)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	a.Status = domain.ApplicationStatusPaid
	a.PaidAt = &now
	f.nextID++
	p.ID = f.nextID
	f.payouts[a.ID] = p
	cp := *a
	cp.Ad = *ad
	return &cp, p, nil
}

func (f *fakeApplications) GetPayoutByApplicationID(ctx context.Context, applicationID uint) (*models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payouts[applicationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

type fakeBrands struct {
	managers map[uint][]uint // brand id -> user ids
	pr       map[uint]*models.BrandMember
	prErr    error
}

func (f *fakeBrands) CanManage(ctx context.Context, brandID, userID uint) (bool, error) {
	for _, id := range f.managers[brandID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBrands) PrimaryPR(ctx context.Context, brandID uint) (*models.BrandMember, error) {
	if f.prErr != nil {
		return nil, f.prErr
	}
	m, ok := f.pr[brandID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

type fakeInfluencers struct {
	mu      sync.Mutex
	byID    map[uint]*models.Influencer
	failRec error
}

func newFakeInfluencers(infs ...*models.Influencer) *fakeInfluencers {
	f := &fakeInfluencers{byID: map[uint]*models.Influencer{}}
	for _, inf := range infs {
		f.byID[inf.ID] = inf
	}
	return f
}

func (f *fakeInfluencers) GetByID(ctx context.Context, id uint) (*models.Influencer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inf, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *inf
	return &cp, nil
}

func (f *fakeInfluencers) GetByUserID(ctx context.Context, userID uint) (*models.Influencer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inf := range f.byID {
		if inf.UserID == userID {
			cp := *inf
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeInfluencers) GetByReferralCode(ctx context.Context, code string) (*models.Influencer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inf := range f.byID {
		if inf.ReferralCode != nil && *inf.ReferralCode == code {
			cp := *inf
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeInfluencers) EnsureReferralCode(ctx context.Context, id uint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inf, ok := f.byID[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	if inf.ReferralCode == nil {
		code := fmt.Sprintf("code%04d", id)
		inf.ReferralCode = &code
	}
	return *inf.ReferralCode, nil
}

func (f *fakeInfluencers) SetReferredBy(ctx context.Context, id, referrerID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inf, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if inf.ReferredByInfluencerID != nil {
		return repository.ErrAlreadyReferred
	}
	inf.ReferredByInfluencerID = &referrerID
	return nil
}

func (f *fakeInfluencers) RecordCompletion(ctx context.Context, id uint, badges repository.BadgeFunc) (*models.Influencer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRec != nil {
		return nil, f.failRec
	}
	inf, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	inf.CompletedAdsCount++
	inf.Badges = badges(inf.CompletedAdsCount, inf.Badges)
	cp := *inf
	return &cp, nil
}

// fakeReferralLedger enforces the (referrer, payout) key the way the unique index does.
type fakeReferralLedger struct {
	mu     sync.Mutex
	rows   map[string]*models.ReferralCommission
	nextID uint
	err    error
}

func newFakeReferralLedger() *fakeReferralLedger {
	return &fakeReferralLedger{rows: map[string]*models.ReferralCommission{}}
}

func (f *fakeReferralLedger) CreateOnce(ctx context.Context, rc *models.ReferralCommission) (*models.ReferralCommission, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	key := fmt.Sprintf("%d/%d", rc.ReferrerInfluencerID, *rc.PayoutID)
	if existing, ok := f.rows[key]; ok {
		return existing, false, nil
	}
	f.nextID++
	rc.ID = f.nextID
	f.rows[key] = rc
	return rc, true, nil
}

type fakePrLedger struct {
	mu     sync.Mutex
	rows   map[string]*models.PrCommission
	nextID uint
}

func newFakePrLedger() *fakePrLedger {
	return &fakePrLedger{rows: map[string]*models.PrCommission{}}
}

func (f *fakePrLedger) CreateOnce(ctx context.Context, pc *models.PrCommission) (*models.PrCommission, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d/%d", pc.PrUserID, *pc.PayoutID)
	if existing, ok := f.rows[key]; ok {
		return existing, false, nil
	}
	f.nextID++
	pc.ID = f.nextID
	f.rows[key] = pc
	return pc, true, nil
}

type sentNotification struct {
	kind   string
	userID uint
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) add(kind string, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{kind: kind, userID: userID})
	return f.err
}

func (f *fakeNotifier) NotifyPayoutSettled(ctx context.Context, userID uint, p *models.Payout) error {
	return f.add(NotifyPayoutSettled, userID)
}

func (f *fakeNotifier) NotifyReferralEarned(ctx context.Context, userID uint, rc *models.ReferralCommission) error {
	return f.add(NotifyReferralEarned, userID)
}

func (f *fakeNotifier) NotifyPrEarned(ctx context.Context, userID uint, pc *models.PrCommission) error {
	return f.add(NotifyPrEarned, userID)
}

type fakePublisher struct {
	mu        sync.Mutex
	keys      []string
	deadlines []time.Time // zero when the publish context had none
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, routingKey)
	d, _ := ctx.Deadline()
	f.deadlines = append(f.deadlines, d)
	return f.err
}

// assertBoundedPublishes fails unless every publish carried a deadline no later than publishTimeout from now.
func (f *fakePublisher) assertBoundedPublishes(t *testing.T) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	limit := time.Now().Add(publishTimeout)
	for i, d := range f.deadlines {
		if d.IsZero() || d.After(limit) {
			t.Errorf("publish %s: deadline = %v, want within %v", f.keys[i], d, publishTimeout)
		}
	}
}

var errStorage = errors.New("storage unavailable")
