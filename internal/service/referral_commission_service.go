package service

import (
	"context"

	"brandhub/config"
	"brandhub/internal/domain"
	"brandhub/internal/models"
)

type ReferralLedger interface {
	CreateOnce(ctx context.Context, rc *models.ReferralCommission) (*models.ReferralCommission, bool, error)
}

// ReferralCommissionService pays the referrer of an influencer a share of each of their payouts.
type ReferralCommissionService struct {
	ledger ReferralLedger
	rates  config.CommissionRates
}

func NewReferralCommissionService(ledger ReferralLedger, rates config.CommissionRates) *ReferralCommissionService {
	return &ReferralCommissionService{ledger: ledger, rates: clampRates(rates)}
}

// Credit records the referral commission for payout, earned by source.
// It returns nil without error when source has no referrer or the amount is not positive.
// Retries are safe: a second call for the same (referrer, payout) returns the first row
// with created=false.
func (s *ReferralCommissionService) Credit(ctx context.Context, source *models.Influencer, payout *models.Payout) (*models.ReferralCommission, bool, error) {
	if source == nil || source.ReferredByInfluencerID == nil {
		return nil, false, nil
	}
	referrerID := *source.ReferredByInfluencerID
	if referrerID == 0 || referrerID == source.ID {
		return nil, false, nil
	}
	q := quoteCommission(payout, s.rates)
	if !q.Payable() {
		return nil, false, nil
	}
	payoutID := payout.ID
	return s.ledger.CreateOnce(ctx, &models.ReferralCommission{
		ReferrerInfluencerID: referrerID,
		SourceInfluencerID:   source.ID,
		PayoutID:             &payoutID,
		Amount:               q.Amount,
		Status:               domain.CommissionStatusEarned,
		Metadata:             q.metadata(),
	})
}
