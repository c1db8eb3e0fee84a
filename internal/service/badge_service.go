package service

import (
	"context"

	"brandhub/internal/domain"
	"brandhub/internal/models"
	"brandhub/internal/repository"
)

type ProgressionStore interface {
	RecordCompletion(ctx context.Context, id uint, badges repository.BadgeFunc) (*models.Influencer, error)
}

// BadgeService bumps an influencer's completed-job counter and recomputes the tier badge.
type BadgeService struct {
	store ProgressionStore
}

func NewBadgeService(store ProgressionStore) *BadgeService {
	return &BadgeService{store: store}
}

func (s *BadgeService) RecordCompletion(ctx context.Context, influencerID uint) (*models.Influencer, error) {
	return s.store.RecordCompletion(ctx, influencerID, NextBadges)
}

// NextBadges puts the tier for completed first and keeps every other label,
// tier or not, in its previous order without duplicates.
func NextBadges(completed int, current []string) []string {
	tier := domain.TierFor(completed)
	out := make([]string, 0, len(current)+1)
	out = append(out, tier)
	seen := map[string]bool{tier: true}
	for _, b := range current {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}
