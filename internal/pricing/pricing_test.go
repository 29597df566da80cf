package pricing

import (
	"math"
	"testing"

	"github.com/example/solara/internal/loyalty"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeBaseQuote(t *testing.T) {
	q := Compute(100, 2, 1, loyalty.ClubMember)

	if !almostEqual(q.Subtotal, 200) {
		t.Errorf("subtotal = %v, want 200", q.Subtotal)
	}
	if !almostEqual(q.Taxes, 20) {
		t.Errorf("taxes = %v, want 20", q.Taxes)
	}
	if !almostEqual(q.Fees, 10) {
		t.Errorf("fees = %v, want 10", q.Fees)
	}
	if !almostEqual(q.TotalCost, 230) {
		t.Errorf("total = %v, want 230", q.TotalCost)
	}
	// floor(100 * 1.15 * 10) * 2 nights = 1150 * 2
	if q.PointsEarned != 2300 {
		t.Errorf("points earned = %d, want 2300", q.PointsEarned)
	}
	if !almostEqual(q.FinalTotal, q.TotalCost) {
		t.Errorf("final total = %v, want %v", q.FinalTotal, q.TotalCost)
	}
}

func TestPointsForStayExactProducts(t *testing.T) {
	// 100 * 1.15 * 10 is exactly 1150 in decimal but lands a few ulps
	// short in binary floating point; the floor must not lose a point.
	if got := PointsForStay(100, 1, 1, loyalty.ClubMember); got != 1150 {
		t.Errorf("points = %d, want 1150", got)
	}
	// Same for the multiplier step: 1150 * 2.5 = 2875 exactly.
	if got := PointsForStay(100, 1, 1, loyalty.PlatinumElite); got != 2875 {
		t.Errorf("platinum points = %d, want 2875", got)
	}
}

func TestPointsForStayTruncates(t *testing.T) {
	// 99.99 * 1.15 * 10 = 1149.885 -> 1149, then *1.2 = 1378.8 -> 1378
	got := PointsForStay(99.99, 1, 1, loyalty.SilverElite)
	if got != 1378 {
		t.Errorf("points = %d, want 1378 (truncation, not rounding)", got)
	}
}

func TestPointsScaleWithRoomsAndMultiplier(t *testing.T) {
	base := PointsForStay(100, 2, 1, loyalty.ClubMember)
	doubled := PointsForStay(100, 2, 2, loyalty.ClubMember)
	if doubled != base*2 {
		t.Errorf("two rooms = %d, want %d", doubled, base*2)
	}

	platinum := PointsForStay(100, 2, 1, loyalty.PlatinumElite)
	if platinum != 2300*5/2 {
		t.Errorf("platinum points = %d, want 5750", platinum)
	}
}

func TestBreakfastAdjustment(t *testing.T) {
	q := Compute(100, 2, 3, loyalty.ClubMember)
	q.AddBreakfast(15)

	if !almostEqual(q.BreakfastTotal, 45) {
		t.Errorf("breakfast total = %v, want 45", q.BreakfastTotal)
	}
	if !almostEqual(q.FinalTotal, q.TotalCost+45) {
		t.Errorf("final total = %v, want %v", q.FinalTotal, q.TotalCost+45)
	}

	q.RedeemBreakfastPerk()
	if q.BreakfastTotal != 0 {
		t.Errorf("breakfast total after perk = %v, want 0", q.BreakfastTotal)
	}
	if !almostEqual(q.FinalTotal, q.TotalCost) {
		t.Errorf("final total after perk = %v, want %v", q.FinalTotal, q.TotalCost)
	}
}

func TestPayWithPointsEarnsNothing(t *testing.T) {
	q := Compute(100, 2, 1, loyalty.GoldElite)
	q.AddBreakfast(10)

	wantPrice := int(q.FinalTotal * 100)
	used := q.PayWithPoints()

	if used != wantPrice {
		t.Errorf("points used = %d, want %d", used, wantPrice)
	}
	if q.FinalTotal != 0 {
		t.Errorf("final total = %v, want 0", q.FinalTotal)
	}
	if q.PointsEarned != 0 {
		t.Errorf("points earned = %d, want 0 on a points-paid stay", q.PointsEarned)
	}
	if q.PointsUsed != wantPrice {
		t.Errorf("points used on quote = %d, want %d", q.PointsUsed, wantPrice)
	}
}

func TestEstimatedPointsPerNight(t *testing.T) {
	if got := EstimatedPointsPerNight(100, loyalty.ClubMember); got != 1150 {
		t.Errorf("estimate = %d, want 1150", got)
	}
	if got := EstimatedPointsPerNight(100, loyalty.DiamondElite); got != 2300 {
		t.Errorf("diamond estimate = %d, want 2300", got)
	}
}
