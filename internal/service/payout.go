package service

import (
	"brandhub/config"
	"brandhub/internal/domain"
	"brandhub/internal/models"
	"brandhub/pkg/money"

	"github.com/shopspring/decimal"
)

// PayoutCalculator splits an ad's agreed price into platform commission and influencer net.
type PayoutCalculator struct {
	rate float64
}

func NewPayoutCalculator(platformRate float64) *PayoutCalculator {
	return &PayoutCalculator{rate: config.ClampRate(platformRate)}
}

func (c *PayoutCalculator) Rate() float64 { return c.rate }

// Split returns gross, commission and net for price. A missing price is an error, never zero.
func (c *PayoutCalculator) Split(price *decimal.Decimal) (gross, commission, net decimal.Decimal, err error) {
	if price == nil {
		return gross, commission, net, ErrMissingPrice
	}
	if price.IsNegative() {
		return gross, commission, net, ErrInvalidPrice
	}
	gross = money.Round(*price)
	commission, net = money.Split(gross, c.rate)
	return gross, commission, net, nil
}

// Build produces the payout row for an application; it satisfies repository.PayoutBuilder.
func (c *PayoutCalculator) Build(app *models.Application, ad *models.Ad) (*models.Payout, error) {
	gross, commission, net, err := c.Split(ad.PayPerInfluencer)
	if err != nil {
		return nil, err
	}
	return &models.Payout{
		ApplicationID: app.ID,
		InfluencerID:  app.InfluencerID,
		GrossAmount:   gross,
		Commission:    commission,
		NetAmount:     net,
		Rate:          c.rate,
		Region:        app.State,
		Status:        domain.PayoutStatusCompleted,
	}, nil
}
