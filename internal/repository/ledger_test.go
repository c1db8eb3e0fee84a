package repository

import (
	"testing"
	"time"

	"brandhub/internal/domain"

	"gorm.io/datatypes"
)

func TestPaidMetadata_PreservesExistingKeys(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("EAT", 3*3600))
	meta := datatypes.JSONMap{"rate": 0.25, "basis": domain.BasisCommission}

	out := paidMetadata(meta, 7, at)

	if out["rate"] != 0.25 || out["basis"] != domain.BasisCommission {
		t.Fatalf("existing keys lost: %v", out)
	}
	if out["paidAt"] != "2026-03-01T09:00:00Z" {
		t.Fatalf("paidAt = %v, want UTC RFC3339", out["paidAt"])
	}
	if out["paidBy"] != uint(7) {
		t.Fatalf("paidBy = %v, want 7", out["paidBy"])
	}
	if _, ok := meta["paidAt"]; ok {
		t.Fatal("input metadata must not be mutated")
	}
}

func TestPaidUpdates_SetsPaidStatus(t *testing.T) {
	u := paidUpdates(nil, 1, time.Now())
	if u["status"] != domain.CommissionStatusPaid {
		t.Fatalf("status = %v, want %s", u["status"], domain.CommissionStatusPaid)
	}
	if _, ok := u["metadata"].(datatypes.JSONMap); !ok {
		t.Fatalf("metadata should be a JSONMap, got %T", u["metadata"])
	}
}
