// Package pricing computes booking bills and loyalty points. All functions
// are pure; the booking service feeds them snapshots and persists the
// results. Point amounts use truncation toward zero, never rounding.
package pricing

import (
	"math"

	"github.com/example/solara/internal/loyalty"
)

const (
	// TaxRate and FeeRate apply to the room subtotal.
	TaxRate = 0.10
	FeeRate = 0.05

	// effectiveRateFactor approximates the nightly rate including its
	// tax/fee equivalent for points accrual.
	effectiveRateFactor = 1.15

	// basePointsPerUnit is points earned per currency unit of effective
	// nightly rate, before the tier multiplier.
	basePointsPerUnit = 10

	// RedemptionRate converts currency to points when paying with
	// points: 100 points per currency unit.
	RedemptionRate = 100
)

// Quote is a priced stay. Subtotal, Taxes, Fees and TotalCost cover the
// rooms; BreakfastTotal is the ancillary line; FinalTotal is what the
// guest actually pays.
type Quote struct {
	BaseRate   float64 `json:"base_rate"`
	Nights     int     `json:"nights"`
	RoomsCount int     `json:"rooms_count"`

	Subtotal       float64 `json:"subtotal"`
	Taxes          float64 `json:"taxes"`
	Fees           float64 `json:"fees"`
	TotalCost      float64 `json:"total_cost"`
	BreakfastTotal float64 `json:"breakfast_total"`
	FinalTotal     float64 `json:"final_total"`

	PointsEarned int `json:"points_earned"`
	PointsUsed   int `json:"points_used"`
}

// Compute prices a stay and derives the points it will earn at the given
// tier.
func Compute(baseRate float64, nights, roomsCount int, tier loyalty.Tier) Quote {
	subtotal := baseRate * float64(nights) * float64(roomsCount)
	taxes := subtotal * TaxRate
	fees := subtotal * FeeRate
	total := subtotal + taxes + fees

	return Quote{
		BaseRate:     baseRate,
		Nights:       nights,
		RoomsCount:   roomsCount,
		Subtotal:     subtotal,
		Taxes:        taxes,
		Fees:         fees,
		TotalCost:    total,
		FinalTotal:   total,
		PointsEarned: PointsForStay(baseRate, nights, roomsCount, tier),
	}
}

// PointsForStay implements the accrual formula: per-night effective rate
// times ten, floored, times the tier multiplier, floored, times nights and
// rooms.
func PointsForStay(baseRate float64, nights, roomsCount int, tier loyalty.Tier) int {
	perNightEffective := baseRate * effectiveRateFactor
	basePerNight := floorPoints(perNightEffective * basePointsPerUnit)
	perNight := floorPoints(float64(basePerNight) * tier.Multiplier())
	return perNight * nights * roomsCount
}

// floorPoints truncates a points product. Exact decimal products can sit
// a few ulps below their true value (100*1.15 != 115 in binary), so a
// small epsilon is added before flooring; genuinely fractional values
// still truncate.
func floorPoints(v float64) int {
	return int(math.Floor(v + 1e-9))
}

// EstimatedPointsPerNight is the per-night accrual shown on room detail
// pages.
func EstimatedPointsPerNight(baseRate float64, tier loyalty.Tier) int {
	basePerNight := floorPoints(baseRate * effectiveRateFactor * basePointsPerUnit)
	return floorPoints(float64(basePerNight) * tier.Multiplier())
}

// AddBreakfast charges breakfast for every room of the stay. It is one of
// the two independent adjustments a booking may carry.
func (q *Quote) AddBreakfast(pricePerRoom float64) {
	q.BreakfastTotal = pricePerRoom * float64(q.RoomsCount)
	q.FinalTotal = q.TotalCost + q.BreakfastTotal
}

// RedeemBreakfastPerk zeroes the breakfast line, for stays covered by a
// milestone voucher. The caller is responsible for consuming the voucher.
func (q *Quote) RedeemBreakfastPerk() {
	q.BreakfastTotal = 0
	q.FinalTotal = q.TotalCost
}

// PointsPrice returns the points cost of settling the current final total
// with points. Truncation matches the rest of the points math.
func (q *Quote) PointsPrice() int {
	return int(q.FinalTotal * RedemptionRate)
}

// PayWithPoints settles the bill with points: the cash due drops to zero
// and the stay earns nothing, since earning applies only to cash spend.
// Returns the points debited.
func (q *Quote) PayWithPoints() int {
	needed := q.PointsPrice()
	q.PointsUsed = needed
	q.FinalTotal = 0
	q.PointsEarned = 0
	return needed
}
