package service

import (
	"context"
	"reflect"
	"testing"

	"brandhub/internal/domain"
	"brandhub/internal/models"
)

func TestNextBadges(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		current   []string
		want      []string
	}{
		{"first job", 1, nil, []string{"Ready"}},
		{"promotion keeps old tier after new one", 5, []string{"Ready"}, []string{"Fit", "Ready"}},
		{"same tier not duplicated", 6, []string{"Fit", "Ready"}, []string{"Fit", "Ready"}},
		{"non-tier labels preserved", 10, []string{"Fit", "Verified", "Ready", "Top Creator"}, []string{"Pro", "Fit", "Verified", "Ready", "Top Creator"}},
		{"duplicates and blanks dropped", 25, []string{"Verified", "", "Verified", "Prime"}, []string{"Prime", "Verified"}},
		{"elite", 50, []string{"Prime"}, []string{"Elite", "Prime"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextBadges(tt.completed, tt.current)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("NextBadges(%d, %v) = %v, want %v", tt.completed, tt.current, got, tt.want)
			}
		})
	}
}

func TestBadgeService_IncrementsExactlyOncePerCompletion(t *testing.T) {
	store := newFakeInfluencers(&models.Influencer{ID: 1, CompletedAdsCount: 3, Badges: []string{"Ready", "Verified"}})
	svc := NewBadgeService(store)

	for want := 4; want <= 11; want++ {
		inf, err := svc.RecordCompletion(context.Background(), 1)
		if err != nil {
			t.Fatal(err)
		}
		if inf.CompletedAdsCount != want {
			t.Fatalf("count = %d, want %d", inf.CompletedAdsCount, want)
		}
		if inf.Badges[0] != domain.TierFor(want) {
			t.Fatalf("first badge = %s, want tier %s", inf.Badges[0], domain.TierFor(want))
		}
	}
	inf, _ := store.GetByID(context.Background(), 1)
	want := []string{"Pro", "Fit", "Ready", "Verified"}
	if !reflect.DeepEqual([]string(inf.Badges), want) {
		t.Fatalf("badges = %v, want %v", inf.Badges, want)
	}
}
