// Package loyalty holds the pure membership-tier policy: the mapping from
// lifetime points and nights stayed to a tier, its earning multiplier,
// benefits and retention requirements. Nothing in here touches storage.
package loyalty

import (
	"time"

	"github.com/example/solara/internal/models"
)

// Tier is a membership level, ordered by rank.
type Tier int

const (
	ClubMember Tier = iota
	SilverElite
	GoldElite
	DiamondElite
	PlatinumElite
)

var tierNames = [...]string{
	ClubMember:    "Club Member",
	SilverElite:   "Silver Elite",
	GoldElite:     "Gold Elite",
	DiamondElite:  "Diamond Elite",
	PlatinumElite: "Platinum Elite",
}

func (t Tier) String() string {
	if t < ClubMember || t > PlatinumElite {
		return tierNames[ClubMember]
	}
	return tierNames[t]
}

// ParseTier maps a stored tier name to its rank. Legacy names from older
// naming schemes are normalized here so the rest of the system only ever
// sees the canonical five tiers.
func ParseTier(name string) Tier {
	switch name {
	case "Club Member", "Member":
		return ClubMember
	case "Silver Elite", "Silver":
		return SilverElite
	case "Gold Elite", "Gold":
		return GoldElite
	case "Diamond Elite", "Diamond":
		return DiamondElite
	case "Platinum Elite", "Platinum", "Ambassador":
		return PlatinumElite
	}
	return ClubMember
}

// Lifetime-points thresholds, inclusive.
const (
	silverPoints   = 50_000
	goldPoints     = 100_000
	diamondPoints  = 500_000
	platinumPoints = 1_000_000
)

// Nights thresholds, inclusive. The historical 40-night Gold boundary was
// a duplicate of the 20-night one and is collapsed here.
const (
	silverNights   = 10
	goldNights     = 20
	diamondNights  = 70
	platinumNights = 200
)

// TierByPoints maps lifetime points to a tier.
func TierByPoints(lifetimePoints int) Tier {
	switch {
	case lifetimePoints >= platinumPoints:
		return PlatinumElite
	case lifetimePoints >= diamondPoints:
		return DiamondElite
	case lifetimePoints >= goldPoints:
		return GoldElite
	case lifetimePoints >= silverPoints:
		return SilverElite
	}
	return ClubMember
}

// TierByNights maps total nights stayed to a tier.
func TierByNights(nights int) Tier {
	switch {
	case nights >= platinumNights:
		return PlatinumElite
	case nights >= diamondNights:
		return DiamondElite
	case nights >= goldNights:
		return GoldElite
	case nights >= silverNights:
		return SilverElite
	}
	return ClubMember
}

// EffectiveTier is the higher of the points-based and nights-based tiers;
// a guest can qualify via either path.
func EffectiveTier(lifetimePoints, nights int) Tier {
	pt := TierByPoints(lifetimePoints)
	nt := TierByNights(nights)
	if pt >= nt {
		return pt
	}
	return nt
}

// Multiplier returns the points-earning multiplier for a tier.
func (t Tier) Multiplier() float64 {
	switch t {
	case SilverElite:
		return 1.2
	case GoldElite:
		return 1.5
	case DiamondElite:
		return 2.0
	case PlatinumElite:
		return 2.5
	}
	return 1.0
}

// RetentionRequirement is the per-tier-year requalification bar: meeting
// either the nights or the points threshold within the tier year avoids a
// downgrade at expiry.
type RetentionRequirement struct {
	Nights int `json:"nights"`
	Points int `json:"points"`
}

// Retention returns the requalification requirement for a tier. Club
// Member is the permanent floor and has no requirement.
func (t Tier) Retention() (RetentionRequirement, bool) {
	switch t {
	case SilverElite:
		return RetentionRequirement{Nights: 10, Points: 25_000}, true
	case GoldElite:
		return RetentionRequirement{Nights: 20, Points: 50_000}, true
	case DiamondElite:
		return RetentionRequirement{Nights: 70, Points: 150_000}, true
	case PlatinumElite:
		return RetentionRequirement{Nights: 200, Points: 300_000}, true
	}
	return RetentionRequirement{}, false
}

// Benefits returns the member-facing benefit list for a tier.
func (t Tier) Benefits() []string {
	switch t {
	case SilverElite:
		return []string{
			"All Club Member benefits",
			"1.2x points multiplier",
			"Late checkout (2 PM)",
			"Welcome amenity",
			"Priority support",
		}
	case GoldElite:
		return []string{
			"All Silver Elite benefits",
			"1.5x points multiplier",
			"Room upgrade (subject to availability)",
			"Complimentary breakfast",
			"Priority check-in",
		}
	case DiamondElite:
		return []string{
			"All Gold Elite benefits",
			"2x points multiplier",
			"Suite upgrade (subject to availability)",
			"Executive lounge access",
			"Guaranteed late checkout (4 PM)",
		}
	case PlatinumElite:
		return []string{
			"All Diamond Elite benefits",
			"2.5x points multiplier",
			"Penthouse upgrade (subject to availability)",
			"Personal travel advisor",
			"Exclusive events access",
		}
	}
	return []string{
		"Earn points on stays",
		"Member-only rates",
		"Mobile check-in",
	}
}

// NextTier returns the next tier up, or the same tier at the top.
func (t Tier) NextTier() Tier {
	if t >= PlatinumElite {
		return PlatinumElite
	}
	return t + 1
}

// PointsToNextTier returns how many more lifetime points reach the next
// points-based tier, or 0 at the top.
func PointsToNextTier(current Tier, lifetimePoints int) int {
	var threshold int
	switch current {
	case ClubMember:
		threshold = silverPoints
	case SilverElite:
		threshold = goldPoints
	case GoldElite:
		threshold = diamondPoints
	case DiamondElite:
		threshold = platinumPoints
	default:
		return 0
	}
	if remaining := threshold - lifetimePoints; remaining > 0 {
		return remaining
	}
	return 0
}

// tierYearDays is the length of the retention window.
const tierYearDays = 365

// ApplyTier recomputes the user's tier from lifetime stats and stores it
// when it increased. Upgrades reset the tier year: earned date today,
// expiry 365 days out, year counters zeroed. A same-or-lower result never
// downgrades; downgrades happen only through retention expiry processing.
// Reports whether an upgrade occurred.
func ApplyTier(user *models.User, today time.Time) bool {
	current := ParseTier(user.MembershipLevel)
	effective := EffectiveTier(user.LifetimePoints, user.NightsStayed)
	if effective <= current {
		return false
	}

	user.MembershipLevel = effective.String()
	StartTierYear(user, today)
	return true
}

// StartTierYear resets the retention window and counters from today.
func StartTierYear(user *models.User, today time.Time) {
	earned := today
	expiry := today.AddDate(0, 0, tierYearDays)
	user.TierEarnedDate = &earned
	user.TierExpiryDate = &expiry
	user.CurrentYearNights = 0
	user.CurrentYearPoints = 0
}
