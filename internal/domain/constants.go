package domain

const (
	RoleAdmin      = "ADMIN"
	RoleBrand      = "BRAND"
	RoleInfluencer = "INFLUENCER"
	RolePR         = "PR"
)

// Brand member roles.
const (
	MemberRoleOwner   = "owner"
	MemberRoleManager = "manager"
	MemberRolePR      = "pr"
)

const (
	ApplicationStatusApplied   = "applied"
	ApplicationStatusDelivered = "delivered"
	ApplicationStatusPaid      = "paid"
)

const (
	PayoutStatusCompleted = "completed"
)

const (
	CommissionStatusEarned = "earned"
	CommissionStatusPaid   = "paid"
)

// Commission computation basis recorded in ledger metadata.
const (
	BasisGross      = "gross"
	BasisCommission = "commission"
)

// Badge tiers, lowest first.
const (
	TierReady = "Ready"
	TierFit   = "Fit"
	TierPro   = "Pro"
	TierPrime = "Prime"
	TierElite = "Elite"
)

var Tiers = []string{TierReady, TierFit, TierPro, TierPrime, TierElite}

func IsTier(label string) bool {
	for _, t := range Tiers {
		if t == label {
			return true
		}
	}
	return false
}

// TierFor maps a completed-job count to its badge tier.
func TierFor(completed int) string {
	switch {
	case completed >= 50:
		return TierElite
	case completed >= 25:
		return TierPrime
	case completed >= 10:
		return TierPro
	case completed >= 5:
		return TierFit
	default:
		return TierReady
	}
}

func IsCommissionStatus(s string) bool {
	return s == CommissionStatusEarned || s == CommissionStatusPaid
}
