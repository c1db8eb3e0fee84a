package service

import (
	"context"
	"errors"

	"brandhub/config"
	"brandhub/internal/domain"
	"brandhub/internal/models"
)

type PrRepresentativeResolver interface {
	PrimaryPR(ctx context.Context, brandID uint) (*models.BrandMember, error)
}

type PrLedger interface {
	CreateOnce(ctx context.Context, pc *models.PrCommission) (*models.PrCommission, bool, error)
}

// PrCommissionService pays a brand's PR representative for payouts on the brand's ads.
type PrCommissionService struct {
	members PrRepresentativeResolver
	ledger  PrLedger
	rates   config.CommissionRates
}

func NewPrCommissionService(members PrRepresentativeResolver, ledger PrLedger, rates config.CommissionRates) *PrCommissionService {
	return &PrCommissionService{members: members, ledger: ledger, rates: clampRates(rates)}
}

// Credit records the PR commission for payout on app's ad. No PR member or a
// non-positive amount is a no-op. Safe to retry, keyed by (PR user, payout).
func (s *PrCommissionService) Credit(ctx context.Context, app *models.Application, payout *models.Payout) (*models.PrCommission, bool, error) {
	brandID := app.Ad.BrandID
	if brandID == 0 {
		return nil, false, nil
	}
	member, err := s.members.PrimaryPR(ctx, brandID)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	q := quoteCommission(payout, s.rates)
	if !q.Payable() {
		return nil, false, nil
	}
	adID, appID, payoutID := app.AdID, app.ID, payout.ID
	return s.ledger.CreateOnce(ctx, &models.PrCommission{
		PrUserID:      member.UserID,
		BrandID:       brandID,
		AdID:          &adID,
		ApplicationID: &appID,
		PayoutID:      &payoutID,
		Amount:        q.Amount,
		Status:        domain.CommissionStatusEarned,
		Metadata:      q.metadata(),
	})
}
