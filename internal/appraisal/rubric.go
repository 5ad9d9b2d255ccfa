package appraisal

import (
	"fmt"
	"math"

	"refurrm/internal/authenticity"
	"refurrm/internal/logging"
)

// Marketplace fee rate used for net resale estimates.
const feeRate = 0.15

// Profit verdicts. UI code matches on the leading keyword.
const (
	VerdictBuyNow    = "BUY NOW: High ROI flip opportunity."
	VerdictGoodDeal  = "Good Deal: Solid margin after fees."
	VerdictBreakEven = "Break-even risk: Negotiate the price down."
	VerdictNoDeal    = "NO DEAL: You would lose money on resale."
	VerdictDoNotBuy  = "DO NOT BUY"
)

// Justification prefix forced onto high-risk appraisals.
const noResalePrefix = "***NO RESALE VALUE.***"

// conditionMultipliers adjust the base resale value for wear.
var conditionMultipliers = map[Condition]float64{
	ConditionNew:       1.25,
	ConditionExcellent: 1.05,
	ConditionGood:      0.90,
	ConditionFair:      0.70,
}

// sourceMultipliers adjust the ceiling for where the deal happens.
var sourceMultipliers = map[Source]float64{
	SourceGarage:      0.95,
	SourceYardSale:    0.65,
	SourceRetailStore: 1.20,
	SourceMarketplace: 1.00,
}

// coreMarketData holds known average resale prices. Items absent
// from this table get the model's own estimate.
var coreMarketData = map[string]float64{
	"Gaming Laptop (Mid-Tier)":              650.00,
	"KitchenAid Stand Mixer (Used)":         150.00,
	"Vintage Vinyl Record (Specific Title)": 15.00,
	"Unopened Lego Set (Current)":           80.00,
}

// MarketValue returns the known average resale value for an item.
func MarketValue(itemName string) (float64, bool) {
	v, ok := coreMarketData[itemName]
	return v, ok
}

// ConditionMultiplier returns the multiplier for a condition level.
func ConditionMultiplier(c Condition) (float64, bool) {
	m, ok := conditionMultipliers[c]
	return m, ok
}

// SourceMultiplier returns the multiplier for a source context.
func SourceMultiplier(s Source) (float64, bool) {
	m, ok := sourceMultipliers[s]
	return m, ok
}

// ComputeRange applies the pricing rubric to a base resale value.
//
//	base = avgResale x conditionMultiplier
//	min  = base x 0.85
//	max  = base x 1.15 x sourceMultiplier
//
// A cheap-source multiplier can push max under min; the repair step
// then resets min to 90% of max.
func ComputeRange(avgResale float64, condition Condition, source Source) (min, max float64) {
	base := avgResale * conditionMultipliers[condition]
	min = base * 0.85
	max = base * 1.15 * sourceMultipliers[source]

	if min > max {
		min = max * 0.9
	}
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	return round2(min), round2(max)
}

// HighRisk reports whether an item cannot be resold: hygiene, safety,
// and consumable categories lose all resale value once unsealed.
func HighRisk(category CategoryTag, condition Condition) bool {
	if category != CategorySafetyHygiene && category != CategoryConsumable {
		return false
	}
	return condition != ConditionNew
}

// ApplyHighRisk pins an appraisal to its retail price and marks the
// justification. This takes precedence over the standard rubric.
func ApplyHighRisk(retailPrice float64, justification string) (min, max float64, note string) {
	logging.AppraisalWarn("high-risk item pinned to retail %.2f", retailPrice)
	return round2(retailPrice), round2(retailPrice), fmt.Sprintf("%s %s", noResalePrefix, justification)
}

// AnalyzeProfit estimates flip economics at an asking price using the
// max resale value. Only valid on the standard (resale) path.
func AnalyzeProfit(maxResale, askingPrice float64) ProfitAnalysis {
	net := maxResale * (1 - feeRate)
	gross := net - askingPrice

	var roi float64
	if gross > 0 && askingPrice > 0 {
		roi = gross / askingPrice * 100
	}

	var verdict string
	switch {
	// A free item with positive net resale is pure profit. ROI stays
	// at zero because the ratio is undefined, but the verdict must not
	// fall through to the break-even branch.
	case askingPrice == 0 && gross > 0:
		verdict = VerdictBuyNow
	case roi > 50:
		verdict = VerdictBuyNow
	case roi > 0:
		verdict = VerdictGoodDeal
	case gross >= -10:
		verdict = VerdictBreakEven
	default:
		verdict = VerdictNoDeal
	}

	return ProfitAnalysis{
		EstimatedNetResale:   round2(net),
		PotentialGrossProfit: round2(gross),
		PotentialRoiPercent:  round1(roi),
		Verdict:              verdict,
	}
}

// RejectedProfit is the zeroed analysis forced onto high-risk items.
func RejectedProfit() ProfitAnalysis {
	return ProfitAnalysis{Verdict: VerdictDoNotBuy}
}

// ConsignmentViable gates the consignment flow: only resale-priced
// items that passed authentication qualify.
func ConsignmentViable(priceType PriceType, verdict authenticity.Verdict) bool {
	if priceType != PriceResale {
		return false
	}
	return verdict == authenticity.VerdictAuthentic || verdict == authenticity.VerdictLowRisk
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
