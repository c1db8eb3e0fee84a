package service

import (
	"context"
	"errors"
	"strings"

	"brandhub/internal/domain"
	"brandhub/internal/models"
)

type ReferralGraph interface {
	GetByID(ctx context.Context, id uint) (*models.Influencer, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Influencer, error)
	GetByReferralCode(ctx context.Context, code string) (*models.Influencer, error)
	EnsureReferralCode(ctx context.Context, id uint) (string, error)
	SetReferredBy(ctx context.Context, id, referrerID uint) error
}

// Progress is the public view of an influencer's progression state.
type Progress struct {
	InfluencerID      uint     `json:"influencer_id"`
	CompletedAdsCount int      `json:"completed_ads_count"`
	Tier              string   `json:"tier"`
	Badges            []string `json:"badges"`
}

// InfluencerService owns the referral relationship and exposes progression.
type InfluencerService struct {
	influencers ReferralGraph
}

func NewInfluencerService(influencers ReferralGraph) *InfluencerService {
	return &InfluencerService{influencers: influencers}
}

func (s *InfluencerService) byUser(ctx context.Context, userID uint) (*models.Influencer, error) {
	inf, err := s.influencers.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotInfluencer
	}
	return inf, err
}

// ReferralCode returns the caller's code, generating one on first use.
func (s *InfluencerService) ReferralCode(ctx context.Context, userID uint) (string, error) {
	inf, err := s.byUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.influencers.EnsureReferralCode(ctx, inf.ID)
}

// Redeem links the caller to the owner of code. The link can be set only once.
func (s *InfluencerService) Redeem(ctx context.Context, userID uint, code string) (*models.Influencer, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrEmptyReferralCode
	}
	inf, err := s.byUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if inf.ReferredByInfluencerID != nil {
		return nil, ErrAlreadyReferred
	}
	referrer, err := s.influencers.GetByReferralCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if referrer.ID == inf.ID {
		return nil, ErrSelfReferral
	}
	if err := s.influencers.SetReferredBy(ctx, inf.ID, referrer.ID); err != nil {
		return nil, err
	}
	inf.ReferredByInfluencerID = &referrer.ID
	return inf, nil
}

func (s *InfluencerService) Progress(ctx context.Context, influencerID uint) (*Progress, error) {
	inf, err := s.influencers.GetByID(ctx, influencerID)
	if err != nil {
		return nil, err
	}
	badges := []string(inf.Badges)
	if badges == nil {
		badges = []string{}
	}
	return &Progress{
		InfluencerID:      inf.ID,
		CompletedAdsCount: inf.CompletedAdsCount,
		Tier:              domain.TierFor(inf.CompletedAdsCount),
		Badges:            badges,
	}, nil
}
