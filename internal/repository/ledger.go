package repository

import (
	"context"
	"time"

	"brandhub/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LedgerFilter narrows commission listings. Zero values mean "any".
type LedgerFilter struct {
	Status  string
	OwnerID uint // referrer influencer id or PR user id
	Limit   int
	Offset  int
}

// insertOnce creates row; on a unique-key violation it loads and returns the row matching key.
// The bool reports whether this call created the row.
func insertOnce[T any](ctx context.Context, db *gorm.DB, row *T, key map[string]interface{}) (*T, bool, error) {
	err := db.WithContext(ctx).Create(row).Error
	if err == nil {
		return row, true, nil
	}
	if !IsDuplicate(err) {
		return nil, false, err
	}
	var existing T
	if err := db.WithContext(ctx).Where(key).First(&existing).Error; err != nil {
		return nil, false, translate(err)
	}
	return &existing, false, nil
}

// paidMetadata copies meta and stamps the payment time and acting user.
func paidMetadata(meta datatypes.JSONMap, actorID uint, at time.Time) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(meta)+2)
	for k, v := range meta {
		out[k] = v
	}
	out["paidAt"] = at.UTC().Format(time.RFC3339)
	out["paidBy"] = actorID
	return out
}

func paidUpdates(meta datatypes.JSONMap, actorID uint, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"status":   domain.CommissionStatusPaid,
		"metadata": paidMetadata(meta, actorID, at),
	}
}
