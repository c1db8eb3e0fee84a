package service

import (
	"context"
	"errors"
	"time"

	"brandhub/internal/domain"
	"brandhub/internal/models"
	"brandhub/internal/repository"
	"brandhub/pkg/events"
	"brandhub/pkg/logger"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ListQuery is a validated ledger page request.
type ListQuery struct {
	Status string
	Limit  int
	Offset int
}

func (q ListQuery) validate() (ListQuery, error) {
	if q.Status != "" && !domain.IsCommissionStatus(q.Status) {
		return q, ErrInvalidStatus
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit < 1 || q.Limit > MaxPageLimit || q.Offset < 0 {
		return q, ErrInvalidPagination
	}
	return q, nil
}

type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type ReferralCommissionView struct {
	models.ReferralCommission
	Referrer *models.InfluencerSummary `json:"referrer"`
	Source   *models.InfluencerSummary `json:"source"`
}

func referralView(rc models.ReferralCommission) ReferralCommissionView {
	return ReferralCommissionView{ReferralCommission: rc, Referrer: rc.Referrer.Summary(), Source: rc.Source.Summary()}
}

type PrCommissionView struct {
	models.PrCommission
	PrUser *models.UserSummary  `json:"pr_user"`
	Brand  *models.BrandSummary `json:"brand"`
}

func prView(pc models.PrCommission) PrCommissionView {
	return PrCommissionView{PrCommission: pc, PrUser: pc.PrUser.Summary(), Brand: pc.Brand.Summary()}
}

type ReferralLedgerStore interface {
	GetByID(ctx context.Context, id uint) (*models.ReferralCommission, error)
	List(ctx context.Context, f repository.LedgerFilter) ([]models.ReferralCommission, int64, error)
	MarkPaid(ctx context.Context, id, actorID uint, at time.Time) (*models.ReferralCommission, bool, error)
}

type PrLedgerStore interface {
	GetByID(ctx context.Context, id uint) (*models.PrCommission, error)
	List(ctx context.Context, f repository.LedgerFilter) ([]models.PrCommission, int64, error)
	MarkPaid(ctx context.Context, id, actorID uint, at time.Time) (*models.PrCommission, bool, error)
}

type InfluencerByUser interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Influencer, error)
}

type StatsReader interface {
	GetSettlementStats(ctx context.Context) (*repository.SettlementStats, error)
}

// LedgerService lists commission ledgers and performs the admin mark-paid transition.
type LedgerService struct {
	referrals   ReferralLedgerStore
	prs         PrLedgerStore
	influencers InfluencerByUser
	stats       StatsReader
	events      EventPublisher
	log         *logger.Logger
	now         func() time.Time
}

func NewLedgerService(referrals ReferralLedgerStore, prs PrLedgerStore, influencers InfluencerByUser, stats StatsReader, pub EventPublisher, log *logger.Logger) *LedgerService {
	return &LedgerService{
		referrals:   referrals,
		prs:         prs,
		influencers: influencers,
		stats:       stats,
		events:      pub,
		log:         log,
		now:         time.Now,
	}
}

func (s *LedgerService) ListReferralCommissions(ctx context.Context, q ListQuery) (*Page[ReferralCommissionView], error) {
	return s.listReferral(ctx, q, 0)
}

// ListMyReferralCommissions lists commissions earned by the caller's influencer profile.
func (s *LedgerService) ListMyReferralCommissions(ctx context.Context, userID uint, q ListQuery) (*Page[ReferralCommissionView], error) {
	inf, err := s.influencers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotInfluencer
		}
		return nil, err
	}
	return s.listReferral(ctx, q, inf.ID)
}

func (s *LedgerService) listReferral(ctx context.Context, q ListQuery, ownerID uint) (*Page[ReferralCommissionView], error) {
	q, err := q.validate()
	if err != nil {
		return nil, err
	}
	list, total, err := s.referrals.List(ctx, repository.LedgerFilter{Status: q.Status, OwnerID: ownerID, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]ReferralCommissionView, 0, len(list))
	for _, rc := range list {
		items = append(items, referralView(rc))
	}
	return &Page[ReferralCommissionView]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

func (s *LedgerService) ListPrCommissions(ctx context.Context, q ListQuery) (*Page[PrCommissionView], error) {
	return s.listPr(ctx, q, 0)
}

func (s *LedgerService) ListMyPrCommissions(ctx context.Context, userID uint, q ListQuery) (*Page[PrCommissionView], error) {
	return s.listPr(ctx, q, userID)
}

func (s *LedgerService) listPr(ctx context.Context, q ListQuery, ownerID uint) (*Page[PrCommissionView], error) {
	q, err := q.validate()
	if err != nil {
		return nil, err
	}
	list, total, err := s.prs.List(ctx, repository.LedgerFilter{Status: q.Status, OwnerID: ownerID, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]PrCommissionView, 0, len(list))
	for _, pc := range list {
		items = append(items, prView(pc))
	}
	return &Page[PrCommissionView]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// MarkReferralPaid moves a referral commission to paid. Repeating it is a no-op that still succeeds.
func (s *LedgerService) MarkReferralPaid(ctx context.Context, actor Actor, id uint) (*ReferralCommissionView, error) {
	_, changed, err := s.referrals.MarkPaid(ctx, id, actor.UserID, s.now())
	if err != nil {
		return nil, err
	}
	rc, err := s.referrals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		s.paid(ctx, events.RoutingReferralPaid, id, actor.UserID, rc)
	}
	v := referralView(*rc)
	return &v, nil
}

func (s *LedgerService) MarkPrPaid(ctx context.Context, actor Actor, id uint) (*PrCommissionView, error) {
	_, changed, err := s.prs.MarkPaid(ctx, id, actor.UserID, s.now())
	if err != nil {
		return nil, err
	}
	pc, err := s.prs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		s.paid(ctx, events.RoutingPrPaid, id, actor.UserID, pc)
	}
	v := prView(*pc)
	return &v, nil
}

func (s *LedgerService) paid(ctx context.Context, key string, id, actorID uint, row interface{}) {
	log := s.log.WithFields(map[string]interface{}{"commission_id": id, "paid_by": actorID, "routing_key": key})
	log.Info("commission marked paid")
	if s.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.Publish(pctx, key, row); err != nil {
		log.WithError(err).Warn("event publish failed")
	}
}

func (s *LedgerService) SettlementStats(ctx context.Context) (*repository.SettlementStats, error) {
	return s.stats.GetSettlementStats(ctx)
}
