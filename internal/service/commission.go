package service

import (
	"brandhub/config"
	"brandhub/internal/domain"
	"brandhub/internal/models"
	"brandhub/pkg/money"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// commissionQuote is the outcome of the two-mode secondary commission computation.
type commissionQuote struct {
	Amount decimal.Decimal
	Basis  string
	Rate   float64
	Base   decimal.Decimal
}

func clampRates(r config.CommissionRates) config.CommissionRates {
	return config.CommissionRates{
		GrossRate: config.ClampRate(r.GrossRate),
		ShareRate: config.ClampRate(r.ShareRate),
	}
}

// quoteCommission applies the gross rate to the payout gross when it is positive,
// otherwise the share rate to the platform commission.
func quoteCommission(p *models.Payout, rates config.CommissionRates) commissionQuote {
	if rates.GrossRate > 0 {
		return commissionQuote{
			Amount: money.ApplyRate(p.GrossAmount, rates.GrossRate),
			Basis:  domain.BasisGross,
			Rate:   rates.GrossRate,
			Base:   p.GrossAmount,
		}
	}
	return commissionQuote{
		Amount: money.ApplyRate(p.Commission, rates.ShareRate),
		Basis:  domain.BasisCommission,
		Rate:   rates.ShareRate,
		Base:   p.Commission,
	}
}

func (q commissionQuote) Payable() bool { return q.Amount.IsPositive() }

func (q commissionQuote) metadata() datatypes.JSONMap {
	return datatypes.JSONMap{
		"rate":       q.Rate,
		"basis":      q.Basis,
		"baseAmount": q.Base.StringFixed(money.Places),
	}
}
