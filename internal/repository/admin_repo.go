package repository

import (
	"context"

	"brandhub/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayoutTotals struct {
	Count      int64           `json:"count"`
	Gross      decimal.Decimal `json:"gross"`
	Commission decimal.Decimal `json:"commission"`
	Net        decimal.Decimal `json:"net"`
}

type StatusTotal struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type SettlementStats struct {
	Payouts              PayoutTotals  `json:"payouts"`
	ReferralCommissions  []StatusTotal `json:"referral_commissions"`
	PrCommissions        []StatusTotal `json:"pr_commissions"`
	ApplicationsByStatus []StatusTotal `json:"applications_by_status"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetSettlementStats(ctx context.Context) (*SettlementStats, error) {
	db := r.db.WithContext(ctx)
	var s SettlementStats

	err := db.Model(&models.Payout{}).
		Select("COUNT(*) AS count, COALESCE(SUM(gross_amount), 0) AS gross, " +
			"COALESCE(SUM(commission), 0) AS commission, COALESCE(SUM(net_amount), 0) AS net").
		Scan(&s.Payouts).Error
	if err != nil {
		return nil, err
	}
	if err := byStatus(db.Model(&models.ReferralCommission{}), "COALESCE(SUM(amount), 0)", &s.ReferralCommissions); err != nil {
		return nil, err
	}
	if err := byStatus(db.Model(&models.PrCommission{}), "COALESCE(SUM(amount), 0)", &s.PrCommissions); err != nil {
		return nil, err
	}
	if err := byStatus(db.Model(&models.Application{}), "0", &s.ApplicationsByStatus); err != nil {
		return nil, err
	}
	return &s, nil
}

func byStatus(q *gorm.DB, amountExpr string, out *[]StatusTotal) error {
	return q.Select("status, COUNT(*) AS count, " + amountExpr + " AS amount").
		Group("status").
		Order("status ASC").
		Scan(out).Error
}
