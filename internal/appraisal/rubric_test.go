package appraisal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refurrm/internal/authenticity"
)

func TestComputeRangeGamingLaptopYardSale(t *testing.T) {
	// base = 650 x 0.90 = 585; min = 497.25; max = 585 x 1.15 x 0.65 = 437.29.
	// The cheap yard-sale multiplier pushes max under min, so the
	// repair step resets min to 90% of max.
	avg, ok := MarketValue("Gaming Laptop (Mid-Tier)")
	require.True(t, ok)

	min, max := ComputeRange(avg, ConditionGood, SourceYardSale)

	assert.InDelta(t, 437.29, max, 0.01)
	assert.InDelta(t, max*0.9, min, 0.01)
	assert.LessOrEqual(t, min, max)
}

func TestComputeRangeStandardPath(t *testing.T) {
	// base = 150 x 1.05 = 157.5; min = 133.88; max = 157.5 x 1.15 = 181.13.
	avg, ok := MarketValue("KitchenAid Stand Mixer (Used)")
	require.True(t, ok)

	min, max := ComputeRange(avg, ConditionExcellent, SourceMarketplace)

	assert.InDelta(t, 133.88, min, 0.01)
	assert.InDelta(t, 181.13, max, 0.01)
}

func TestComputeRangeMinNeverExceedsMax(t *testing.T) {
	for name, avg := range coreMarketData {
		for _, c := range Conditions {
			for _, s := range Sources {
				min, max := ComputeRange(avg, c, s)
				assert.LessOrEqual(t, min, max, "%s / %s / %s", name, c, s)
				assert.GreaterOrEqual(t, min, 0.0)
			}
		}
	}
}

func TestHighRisk(t *testing.T) {
	tests := []struct {
		category  CategoryTag
		condition Condition
		want      bool
	}{
		{CategorySafetyHygiene, ConditionGood, true},
		{CategorySafetyHygiene, ConditionFair, true},
		{CategoryConsumable, ConditionExcellent, true},
		{CategorySafetyHygiene, ConditionNew, false},
		{CategoryConsumable, ConditionNew, false},
		{CategoryGeneral, ConditionFair, false},
		{CategoryLuxuryGoods, ConditionGood, false},
		{CategoryPowerTool, ConditionFair, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HighRisk(tt.category, tt.condition), "%s / %s", tt.category, tt.condition)
	}
}

func TestApplyHighRiskPinsToRetail(t *testing.T) {
	min, max, note := ApplyHighRisk(110.00, "used helmet, visible scratches")

	assert.Equal(t, 110.00, min)
	assert.Equal(t, 110.00, max)
	assert.True(t, strings.HasPrefix(note, "***NO RESALE VALUE.***"))
	assert.Contains(t, note, "used helmet")
}

func TestAnalyzeProfitVerdicts(t *testing.T) {
	tests := []struct {
		name        string
		maxResale   float64
		askingPrice float64
		wantVerdict string
	}{
		// net = 850 - asking 400 = 450 profit, roi 112.5%
		{"high roi", 1000, 400, VerdictBuyNow},
		// net = 850 - asking 700 = 150 profit, roi 21.4%
		{"modest roi", 1000, 700, VerdictGoodDeal},
		// net = 850 - asking 855 = -5, within the -10 band
		{"near break even", 1000, 855, VerdictBreakEven},
		// net = 850 - asking 1000 = -150
		{"clear loss", 1000, 1000, VerdictNoDeal},
		// a free item with positive net is the best possible deal
		{"free item", 1000, 0, VerdictBuyNow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeProfit(tt.maxResale, tt.askingPrice)
			assert.Equal(t, tt.wantVerdict, got.Verdict)
		})
	}
}

func TestAnalyzeProfitNumbers(t *testing.T) {
	got := AnalyzeProfit(1000, 700)

	assert.InDelta(t, 850.00, got.EstimatedNetResale, 0.001)
	assert.InDelta(t, 150.00, got.PotentialGrossProfit, 0.001)
	assert.InDelta(t, 21.4, got.PotentialRoiPercent, 0.01)
}

func TestAnalyzeProfitNegativeRoiIsZero(t *testing.T) {
	got := AnalyzeProfit(100, 500)
	assert.Zero(t, got.PotentialRoiPercent)
	assert.Negative(t, got.PotentialGrossProfit)
}

func TestAnalyzeProfitFreeItem(t *testing.T) {
	got := AnalyzeProfit(1000, 0)

	assert.Equal(t, VerdictBuyNow, got.Verdict)
	assert.InDelta(t, 850.00, got.EstimatedNetResale, 0.001)
	assert.InDelta(t, 850.00, got.PotentialGrossProfit, 0.001)
	assert.Zero(t, got.PotentialRoiPercent)
}

func TestRejectedProfit(t *testing.T) {
	got := RejectedProfit()
	assert.Equal(t, VerdictDoNotBuy, got.Verdict)
	assert.Zero(t, got.EstimatedNetResale)
	assert.Zero(t, got.PotentialGrossProfit)
	assert.Zero(t, got.PotentialRoiPercent)
}

func TestConsignmentViableCrossProduct(t *testing.T) {
	verdicts := []authenticity.Verdict{
		authenticity.VerdictAuthentic,
		authenticity.VerdictPossibleFake,
		authenticity.VerdictLowRisk,
		authenticity.VerdictNotApplicable,
	}

	for _, pt := range []PriceType{PriceResale, PriceRetail} {
		for _, v := range verdicts {
			want := pt == PriceResale && (v == authenticity.VerdictAuthentic || v == authenticity.VerdictLowRisk)
			assert.Equal(t, want, ConsignmentViable(pt, v), "%s / %s", pt, v)
		}
	}
}
