package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"brandhub/internal/domain"
	"brandhub/internal/models"
	"brandhub/internal/repository"
)

type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	MarkDelivered(ctx context.Context, id uint, submission []byte, at time.Time) error
	GetPayoutByApplicationID(ctx context.Context, applicationID uint) (*models.Payout, error)
}

type AdReader interface {
	GetAd(ctx context.Context, id uint) (*models.Ad, error)
}

type ApplyInput struct {
	AdID    uint
	State   string
	Message string
}

// ApplicationDetail is an application together with its payout once settled.
type ApplicationDetail struct {
	Application *models.Application `json:"application"`
	Payout      *models.Payout      `json:"payout"`
}

// ApplicationService covers the influencer side of the lifecycle: apply and submit.
type ApplicationService struct {
	apps        ApplicationStore
	ads         AdReader
	brands      BrandAccess
	influencers InfluencerByUser
	now         func() time.Time
}

func NewApplicationService(apps ApplicationStore, ads AdReader, brands BrandAccess, influencers InfluencerByUser) *ApplicationService {
	return &ApplicationService{apps: apps, ads: ads, brands: brands, influencers: influencers, now: time.Now}
}

func (s *ApplicationService) callerInfluencer(ctx context.Context, actor Actor) (*models.Influencer, error) {
	inf, err := s.influencers.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotInfluencer
	}
	return inf, err
}

func (s *ApplicationService) Apply(ctx context.Context, actor Actor, in ApplyInput) (*models.Application, error) {
	inf, err := s.callerInfluencer(ctx, actor)
	if err != nil {
		return nil, err
	}
	ad, err := s.ads.GetAd(ctx, in.AdID)
	if err != nil {
		return nil, err
	}
	app := &models.Application{
		AdID:         ad.ID,
		InfluencerID: inf.ID,
		State:        strings.TrimSpace(in.State),
		Message:      strings.TrimSpace(in.Message),
		Status:       domain.ApplicationStatusApplied,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}
	app.Ad = *ad
	return app, nil
}

// Submit records the deliverable and moves the application from applied to delivered.
func (s *ApplicationService) Submit(ctx context.Context, actor Actor, id uint, submission json.RawMessage) (*models.Application, error) {
	inf, err := s.callerInfluencer(ctx, actor)
	if err != nil {
		return nil, err
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.InfluencerID != inf.ID {
		return nil, ErrForbidden
	}
	if app.Status != domain.ApplicationStatusApplied {
		return nil, ErrInvalidTransition
	}
	if err := s.apps.MarkDelivered(ctx, id, submission, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			// lost a race with another submit or an approval
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return s.apps.GetByID(ctx, id)
}

// Get returns the application to an admin, its influencer, or a manager of the ad's brand.
func (s *ApplicationService) Get(ctx context.Context, actor Actor, id uint) (*ApplicationDetail, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canView(ctx, actor, app); err != nil {
		return nil, err
	}
	d := &ApplicationDetail{Application: app}
	if app.IsPaid() {
		p, err := s.apps.GetPayoutByApplicationID(ctx, app.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		d.Payout = p
	}
	return d, nil
}

func (s *ApplicationService) canView(ctx context.Context, actor Actor, app *models.Application) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleInfluencer:
		inf, err := s.callerInfluencer(ctx, actor)
		if err != nil {
			return err
		}
		if inf.ID == app.InfluencerID {
			return nil
		}
	case domain.RoleBrand:
		ok, err := s.brands.CanManage(ctx, app.Ad.BrandID, actor.UserID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrForbidden
}
