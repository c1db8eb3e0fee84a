package service

import (
	"context"
	"encoding/json"

	"brandhub/internal/models"
	"brandhub/pkg/logger"
	"brandhub/pkg/money"
)

const (
	NotifyPayoutSettled  = "PAYOUT_SETTLED"
	NotifyReferralEarned = "REFERRAL_COMMISSION_EARNED"
	NotifyPrEarned       = "PR_COMMISSION_EARNED"
)

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

type UserReader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type pusher interface {
	SendToUser(ctx context.Context, fcmToken string, notifType, title, body string, data map[string]interface{}) error
}

type NotificationService struct {
	repo  NotificationStore
	users UserReader
	fcm   pusher
	log   *logger.Logger
}

// NewNotificationService wires persistence and, when fcm is non-nil, push delivery.
func NewNotificationService(repo NotificationStore, users UserReader, fcm *FCMService, log *logger.Logger) *NotificationService {
	s := &NotificationService{repo: repo, users: users, log: log}
	if fcm != nil {
		s.fcm = fcm
	}
	return s
}

func (s *NotificationService) Notify(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(ctx, &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	s.sendPush(ctx, userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.users == nil {
		return
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	if err := s.fcm.SendToUser(ctx, u.FCMToken, notifType, title, body, data); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("push delivery failed")
	}
}

func (s *NotificationService) NotifyPayoutSettled(ctx context.Context, influencerUserID uint, p *models.Payout) error {
	return s.Notify(ctx, influencerUserID, NotifyPayoutSettled, "Payout settled",
		"Your deliverable was approved. "+p.NetAmount.StringFixed(money.Places)+" is on its way.",
		map[string]interface{}{"payout_id": p.ID, "application_id": p.ApplicationID, "net_amount": p.NetAmount})
}

func (s *NotificationService) NotifyReferralEarned(ctx context.Context, referrerUserID uint, rc *models.ReferralCommission) error {
	return s.Notify(ctx, referrerUserID, NotifyReferralEarned, "Referral commission earned",
		"Someone you referred completed a job. You earned "+rc.Amount.StringFixed(money.Places)+".",
		map[string]interface{}{"referral_commission_id": rc.ID, "amount": rc.Amount})
}

func (s *NotificationService) NotifyPrEarned(ctx context.Context, prUserID uint, pc *models.PrCommission) error {
	return s.Notify(ctx, prUserID, NotifyPrEarned, "PR commission earned",
		"A payout on one of your brand's ads earned you "+pc.Amount.StringFixed(money.Places)+".",
		map[string]interface{}{"pr_commission_id": pc.ID, "brand_id": pc.BrandID, "amount": pc.Amount})
}
