// Package deal implements the UPC deal checker: given a barcode and
// an asking price, it estimates resale profit after marketplace fees
// and renders a buy verdict.
package deal

import (
	"fmt"
	"math"

	"refurrm/internal/logging"
)

// Verdict is the deal checker's conclusion.
type Verdict string

const (
	VerdictExcellentDeal Verdict = "Excellent Deal" // High profit and good margin
	VerdictPotentialDeal Verdict = "Potential Deal" // Low profit
	VerdictWarning       Verdict = "Warning"        // Likely a loss, or no data
)

// Marketplace fee rate deducted from the estimated resale value.
const estimatedFeeRate = 0.15

// VendorPrice is one vendor's listed price for a product.
type VendorPrice struct {
	Vendor string  `json:"vendor"`
	Price  float64 `json:"price"`
	IsNew  bool    `json:"isNew"` // true for new-in-box, false for used/average
}

// Input is a UPC lookup request.
type Input struct {
	UPCCode     string  `json:"upcCode"`
	AskingPrice float64 `json:"askingPrice"`
}

// Result is the deal checker output.
type Result struct {
	ItemName              string        `json:"itemName"`
	ComparisonAvailable   bool          `json:"comparisonAvailable"`
	Verdict               Verdict       `json:"verdict"`
	PotentialProfit       float64       `json:"potentialProfit"`
	SuggestedListingPrice float64       `json:"suggestedListingPrice"`
	PricingData           []VendorPrice `json:"pricingData"`
}

// ValidationError reports malformed deal checker input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// product is a UPC database entry.
type product struct {
	Name string
	Data []VendorPrice
}

// upcDatabase simulates a vendor pricing feed keyed by UPC.
var upcDatabase = map[string]product{
	"850020123456": {
		Name: "Gaming Laptop (Mid-Tier)",
		Data: []VendorPrice{
			{Vendor: "Amazon (New)", Price: 1299.99, IsNew: true},
			{Vendor: "Best Buy (Open Box)", Price: 1050.00, IsNew: false},
			{Vendor: "eBay (Completed Sales Avg)", Price: 950.00, IsNew: false},
		},
	},
	"000456789012": {
		Name: "Generic Power Drill",
		Data: []VendorPrice{
			{Vendor: "Home Depot (New)", Price: 89.99, IsNew: true},
			{Vendor: "eBay (Completed Sales Avg)", Price: 45.00, IsNew: false},
			{Vendor: "Local Marketplace Avg", Price: 35.00, IsNew: false},
		},
	},
}

// Evaluator checks UPC deals against the vendor pricing database.
type Evaluator struct{}

// NewEvaluator creates a deal evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Lookup returns the vendor pricing for a UPC, if known.
func (e *Evaluator) Lookup(upc string) (string, []VendorPrice, bool) {
	p, ok := upcDatabase[upc]
	if !ok {
		return "", nil, false
	}
	data := make([]VendorPrice, len(p.Data))
	copy(data, p.Data)
	return p.Name, data, true
}

// Evaluate looks up the UPC and renders a verdict.
//
// The resale estimate averages the non-new vendor prices; when only
// retail prices exist it falls back to averaging everything. Net
// value deducts the marketplace fee, and the verdict compares net
// value against the asking price. An unknown UPC is a Warning with
// zeroed financials.
func (e *Evaluator) Evaluate(input Input) (*Result, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	name, pricing, found := e.Lookup(input.UPCCode)
	if !found {
		logging.Deal("upc %s not found", input.UPCCode)
		return &Result{
			ItemName:              "Unknown Product",
			ComparisonAvailable:   false,
			Verdict:               VerdictWarning,
			PotentialProfit:       0,
			SuggestedListingPrice: 0,
			PricingData:           []VendorPrice{},
		}, nil
	}

	var resaleSum float64
	var resaleCount int
	for _, p := range pricing {
		if !p.IsNew {
			resaleSum += p.Price
			resaleCount++
		}
	}

	var avgResale float64
	if resaleCount > 0 {
		avgResale = resaleSum / float64(resaleCount)
	} else {
		// Only retail prices exist; average everything
		var sum float64
		for _, p := range pricing {
			sum += p.Price
		}
		avgResale = sum / float64(len(pricing))
	}

	netResaleValue := avgResale * (1 - estimatedFeeRate)
	grossProfit := netResaleValue - input.AskingPrice

	verdict := VerdictPotentialDeal
	switch {
	case grossProfit > 50 && avgResale > input.AskingPrice*1.5:
		verdict = VerdictExcellentDeal
	case grossProfit <= 0:
		verdict = VerdictWarning
	}

	logging.Deal("upc %s (%s): profit %.2f verdict %q", input.UPCCode, name, grossProfit, verdict)

	return &Result{
		ItemName:              name,
		ComparisonAvailable:   true,
		Verdict:               verdict,
		PotentialProfit:       round2(grossProfit),
		SuggestedListingPrice: round2(avgResale),
		PricingData:           pricing,
	}, nil
}

func validate(input Input) error {
	if len(input.UPCCode) < 10 {
		return &ValidationError{Field: "upcCode", Message: "UPC must be at least 10 digits."}
	}
	for _, r := range input.UPCCode {
		if r < '0' || r > '9' {
			return &ValidationError{Field: "upcCode", Message: "UPC must contain only digits."}
		}
	}
	if input.AskingPrice < 0 {
		return &ValidationError{Field: "askingPrice", Message: "Asking price must be a positive number."}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
