// Package appraisal implements the valuation engine: item scans,
// value verification against the pricing rubric, profit analysis,
// and the consignment viability gate.
package appraisal

import (
	"refurrm/internal/authenticity"
)

// CategoryTag is the primary market category for routing and pricing.
type CategoryTag string

const (
	CategoryLuxuryGoods        CategoryTag = "LUXURY_GOODS"
	CategoryPowerTool          CategoryTag = "POWER_TOOL"
	CategoryVintageCollectible CategoryTag = "VINTAGE_COLLECTIBLE"
	CategorySafetyHygiene      CategoryTag = "SAFETY_HYGIENE"
	CategoryConsumable         CategoryTag = "CONSUMABLE"
	CategoryGeneral            CategoryTag = "GENERAL"
)

// PriceType distinguishes flippable items from those whose price can
// only be stated as original retail.
type PriceType string

const (
	PriceResale PriceType = "RESALE"
	PriceRetail PriceType = "RETAIL"
)

// Condition is the item's physical condition.
type Condition string

const (
	ConditionNew       Condition = "New (Sealed)"
	ConditionExcellent Condition = "Excellent (Like New)"
	ConditionGood      Condition = "Good (Used, Working)"
	ConditionFair      Condition = "Fair (Scratches/Minor Issue)"
)

// Conditions lists the accepted condition levels.
var Conditions = []Condition{ConditionNew, ConditionExcellent, ConditionGood, ConditionFair}

// Source is the context the valuation happens in.
type Source string

const (
	SourceGarage      Source = "Personal Garage/Storage"
	SourceYardSale    Source = "Yard Sale/Flea Market (Buying)"
	SourceRetailStore Source = "Retail Store (Walmart/Target)"
	SourceMarketplace Source = "Online Marketplace (eBay/Poshmark)"
)

// Sources lists the accepted source contexts.
var Sources = []Source{SourceGarage, SourceYardSale, SourceRetailStore, SourceMarketplace}

// Appraisal is the full scan result for an item.
type Appraisal struct {
	SuggestedTitle       string               `json:"suggestedTitle"`
	SuggestedDescription string               `json:"suggestedDescription"`
	CategoryTag          CategoryTag          `json:"categoryTag"`
	PriceType            PriceType            `json:"priceType"`
	MinPrice             float64              `json:"minPrice"`
	MaxPrice             float64              `json:"maxPrice"`
	AppraisalNote        string               `json:"appraisalNote"`
	AuthenticityVerdict  authenticity.Verdict `json:"authenticityVerdict"`
	IsConsignmentViable  bool                 `json:"isConsignmentViable"`
}

// ProfitAnalysis estimates the flip economics at a given asking price.
type ProfitAnalysis struct {
	EstimatedNetResale   float64 `json:"estimatedNetResale"`
	PotentialGrossProfit float64 `json:"potentialGrossProfit"`
	PotentialRoiPercent  float64 `json:"potentialRoiPercent"`
	Verdict              string  `json:"verdict"`
}

// VerificationInput requests a value verification. Either
// PhotoDataURI or ItemName must be set; AskingPrice is optional.
type VerificationInput struct {
	PhotoDataURI string    `json:"photoDataUri,omitempty"`
	ItemName     string    `json:"itemName,omitempty"`
	Condition    Condition `json:"condition"`
	Source       Source    `json:"source"`
	AskingPrice  *float64  `json:"askingPrice,omitempty"`
}

// VerificationResult is the full verification output: the value
// range, the authenticity report, and the optional profit analysis.
type VerificationResult struct {
	ItemName       string              `json:"itemName"`
	MinResaleValue float64             `json:"minResaleValue"`
	MaxResaleValue float64             `json:"maxResaleValue"`
	Justification  string              `json:"justification"`
	Authenticity   authenticity.Report `json:"authenticity"`
	ProfitAnalysis *ProfitAnalysis     `json:"profitAnalysis,omitempty"`
}

// ValidCondition reports whether c is an accepted condition level.
func ValidCondition(c Condition) bool {
	for _, v := range Conditions {
		if v == c {
			return true
		}
	}
	return false
}

// ValidSource reports whether s is an accepted source context.
func ValidSource(s Source) bool {
	for _, v := range Sources {
		if v == s {
			return true
		}
	}
	return false
}
