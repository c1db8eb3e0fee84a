package service

import (
	"context"
	"fmt"
	"time"

	"brandhub/internal/domain"
	"brandhub/internal/models"
	"brandhub/internal/repository"
	"brandhub/pkg/events"
	"brandhub/pkg/logger"
)

// publishTimeout bounds a single event publish; the broker can block under flow control.
const publishTimeout = 5 * time.Second

// Actor is the authenticated caller of a pipeline operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

const (
	StepBadge              = "badge_progression"
	StepReferralCommission = "referral_commission"
	StepPrCommission       = "pr_commission"
)

const (
	StepOK      = "ok"
	StepSkipped = "skipped"
	StepFailed  = "failed"
)

// StepOutcome reports how one best-effort cascade step ended.
type StepOutcome struct {
	Step   string `json:"step"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SettlementResult is everything an approval produced. Payout is always set on success;
// the commission rows are nil when their step was skipped or failed.
type SettlementResult struct {
	Application        *models.Application
	Payout             *models.Payout
	Influencer         *models.Influencer
	ReferralCommission *models.ReferralCommission
	PrCommission       *models.PrCommission
	Steps              []StepOutcome
	Warnings           []string
}

type SettlementStore interface {
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	Settle(ctx context.Context, id uint, build repository.PayoutBuilder) (*models.Application, *models.Payout, error)
}

type BrandAccess interface {
	CanManage(ctx context.Context, brandID, userID uint) (bool, error)
}

type InfluencerReader interface {
	GetByID(ctx context.Context, id uint) (*models.Influencer, error)
}

type Notifier interface {
	NotifyPayoutSettled(ctx context.Context, influencerUserID uint, p *models.Payout) error
	NotifyReferralEarned(ctx context.Context, referrerUserID uint, rc *models.ReferralCommission) error
	NotifyPrEarned(ctx context.Context, prUserID uint, pc *models.PrCommission) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data interface{}) error
}

type ProgressionRecorder interface {
	RecordCompletion(ctx context.Context, influencerID uint) (*models.Influencer, error)
}

type ReferralCreditor interface {
	Credit(ctx context.Context, source *models.Influencer, payout *models.Payout) (*models.ReferralCommission, bool, error)
}

type PrCreditor interface {
	Credit(ctx context.Context, app *models.Application, payout *models.Payout) (*models.PrCommission, bool, error)
}

// SettlementService runs the approve-and-pay pipeline for one application.
type SettlementService struct {
	apps        SettlementStore
	brands      BrandAccess
	influencers InfluencerReader
	calc        *PayoutCalculator
	badges      ProgressionRecorder
	referrals   ReferralCreditor
	prs         PrCreditor
	notifier    Notifier
	events      EventPublisher
	log         *logger.Logger
}

type SettlementDeps struct {
	Applications SettlementStore
	Brands       BrandAccess
	Influencers  InfluencerReader
	Calculator   *PayoutCalculator
	Badges       ProgressionRecorder
	Referrals    ReferralCreditor
	PRs          PrCreditor
	Notifier     Notifier
	Events       EventPublisher
	Log          *logger.Logger
}

func NewSettlementService(d SettlementDeps) *SettlementService {
	return &SettlementService{
		apps:        d.Applications,
		brands:      d.Brands,
		influencers: d.Influencers,
		calc:        d.Calculator,
		badges:      d.Badges,
		referrals:   d.Referrals,
		prs:         d.PRs,
		notifier:    d.Notifier,
		events:      d.Events,
		log:         d.Log,
	}
}

// Approve settles the application: status flip and payout insert commit together,
// then badge, referral and PR steps run best-effort. A cascade failure never
// undoes the payout; it shows up in Steps and Warnings instead.
func (s *SettlementService) Approve(ctx context.Context, actor Actor, applicationID uint) (*SettlementResult, error) {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Ad.ID == 0 || app.Ad.Brand.ID == 0 {
		return nil, fmt.Errorf("brand of ad %d: %w", app.AdID, ErrNotFound)
	}
	if err := s.authorize(ctx, actor, app); err != nil {
		return nil, err
	}
	if app.IsPaid() {
		return nil, ErrAlreadySettled
	}

	app, payout, err := s.apps.Settle(ctx, applicationID, s.calc.Build)
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(map[string]interface{}{
		"application_id": app.ID,
		"payout_id":      payout.ID,
	})
	log.WithFields(map[string]interface{}{
		"gross":      payout.GrossAmount.String(),
		"commission": payout.Commission.String(),
		"net":        payout.NetAmount.String(),
	}).Info("application settled")

	res := &SettlementResult{Application: app, Payout: payout}

	// The payout is committed; cascade steps must finish even if the client goes away.
	cctx := context.WithoutCancel(ctx)

	inf, err := s.badges.RecordCompletion(cctx, app.InfluencerID)
	res.record(log, StepBadge, err == nil, err)
	if err != nil {
		// the referral step still needs the influencer
		inf, err = s.influencers.GetByID(cctx, app.InfluencerID)
		if err != nil {
			res.record(log, StepReferralCommission, false, fmt.Errorf("load influencer: %w", err))
		}
	}
	res.Influencer = inf

	if inf != nil {
		rc, created, err := s.referrals.Credit(cctx, inf, payout)
		res.record(log, StepReferralCommission, rc != nil, err)
		if rc != nil {
			res.ReferralCommission = rc
			if created {
				s.announceReferral(cctx, log, rc)
			}
		}
	}

	pc, created, err := s.prs.Credit(cctx, app, payout)
	res.record(log, StepPrCommission, pc != nil, err)
	if pc != nil {
		res.PrCommission = pc
		if created {
			s.announcePr(cctx, log, pc)
		}
	}

	s.announceSettlement(cctx, log, res)
	return res, nil
}

func (s *SettlementService) authorize(ctx context.Context, actor Actor, app *models.Application) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role != domain.RoleBrand {
		return ErrForbidden
	}
	ok, err := s.brands.CanManage(ctx, app.Ad.BrandID, actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// record appends the outcome of step. done=false with a nil error means the step had nothing to do.
func (r *SettlementResult) record(log *logger.Logger, step string, done bool, err error) {
	switch {
	case err != nil:
		r.Steps = append(r.Steps, StepOutcome{Step: step, Status: StepFailed, Error: err.Error()})
		r.Warnings = append(r.Warnings, step+": "+err.Error())
		log.WithField("step", step).WithError(err).Error("settlement cascade step failed")
	case done:
		r.Steps = append(r.Steps, StepOutcome{Step: step, Status: StepOK})
	default:
		r.Steps = append(r.Steps, StepOutcome{Step: step, Status: StepSkipped})
	}
}

func (s *SettlementService) announceSettlement(ctx context.Context, log *logger.Logger, res *SettlementResult) {
	if res.Influencer != nil && s.notifier != nil {
		if err := s.notifier.NotifyPayoutSettled(ctx, res.Influencer.UserID, res.Payout); err != nil {
			log.WithError(err).Warn("payout notification failed")
		}
	}
	s.publish(ctx, log, events.RoutingSettlementCompleted, map[string]interface{}{
		"application_id": res.Application.ID,
		"payout":         res.Payout,
		"warnings":       res.Warnings,
	})
}

func (s *SettlementService) announceReferral(ctx context.Context, log *logger.Logger, rc *models.ReferralCommission) {
	if s.notifier != nil {
		referrer, err := s.influencers.GetByID(ctx, rc.ReferrerInfluencerID)
		if err == nil {
			err = s.notifier.NotifyReferralEarned(ctx, referrer.UserID, rc)
		}
		if err != nil {
			log.WithError(err).Warn("referral notification failed")
		}
	}
	s.publish(ctx, log, events.RoutingReferralEarned, rc)
}

func (s *SettlementService) announcePr(ctx context.Context, log *logger.Logger, pc *models.PrCommission) {
	if s.notifier != nil {
		if err := s.notifier.NotifyPrEarned(ctx, pc.PrUserID, pc); err != nil {
			log.WithError(err).Warn("pr notification failed")
		}
	}
	s.publish(ctx, log, events.RoutingPrEarned, pc)
}

func (s *SettlementService) publish(ctx context.Context, log *logger.Logger, key string, data interface{}) {
	if s.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.events.Publish(pctx, key, data); err != nil {
		log.WithError(err).WithField("routing_key", key).Warn("event publish failed")
	}
}
