package deal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateGamingLaptopAt700(t *testing.T) {
	e := NewEvaluator()

	result, err := e.Evaluate(Input{UPCCode: "850020123456", AskingPrice: 700})
	require.NoError(t, err)

	assert.Equal(t, "Gaming Laptop (Mid-Tier)", result.ItemName)
	assert.True(t, result.ComparisonAvailable)
	// Resale avg is (1050 + 950) / 2 = 1000; net after 15% fees is 850.
	assert.InDelta(t, 150.00, result.PotentialProfit, 0.001)
	assert.InDelta(t, 1000.00, result.SuggestedListingPrice, 0.001)
	// Profit clears 50 but the 1.5x margin gate fails (1000 < 1050).
	assert.Equal(t, VerdictPotentialDeal, result.Verdict)
	assert.Len(t, result.PricingData, 3)
}

func TestEvaluateVerdictBands(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name        string
		askingPrice float64
		want        Verdict
	}{
		{"cheap enough for excellent", 400, VerdictExcellentDeal},
		{"thin margin", 700, VerdictPotentialDeal},
		{"break even is a warning", 850, VerdictWarning},
		{"overpriced is a warning", 1200, VerdictWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Evaluate(Input{UPCCode: "850020123456", AskingPrice: tt.askingPrice})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Verdict)
		})
	}
}

func TestEvaluatePowerDrill(t *testing.T) {
	e := NewEvaluator()

	result, err := e.Evaluate(Input{UPCCode: "000456789012", AskingPrice: 10})
	require.NoError(t, err)

	assert.Equal(t, "Generic Power Drill", result.ItemName)
	// Resale avg is (45 + 35) / 2 = 40; net is 34; profit is 24.
	assert.InDelta(t, 24.00, result.PotentialProfit, 0.001)
	assert.InDelta(t, 40.00, result.SuggestedListingPrice, 0.001)
	// Profit is under 50 so this never reaches Excellent Deal.
	assert.Equal(t, VerdictPotentialDeal, result.Verdict)
}

func TestEvaluateUnknownUPC(t *testing.T) {
	e := NewEvaluator()

	result, err := e.Evaluate(Input{UPCCode: "9999999999", AskingPrice: 25})
	require.NoError(t, err)

	assert.Equal(t, "Unknown Product", result.ItemName)
	assert.False(t, result.ComparisonAvailable)
	assert.Equal(t, VerdictWarning, result.Verdict)
	assert.Zero(t, result.PotentialProfit)
	assert.Zero(t, result.SuggestedListingPrice)
	assert.Empty(t, result.PricingData)
}

func TestEvaluateValidation(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name  string
		input Input
		field string
	}{
		{"short upc", Input{UPCCode: "12345", AskingPrice: 10}, "upcCode"},
		{"non-numeric upc", Input{UPCCode: "85002012345X", AskingPrice: 10}, "upcCode"},
		{"negative price", Input{UPCCode: "850020123456", AskingPrice: -1}, "askingPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	e := NewEvaluator()

	_, data, ok := e.Lookup("850020123456")
	require.True(t, ok)
	data[0].Price = 1

	_, fresh, _ := e.Lookup("850020123456")
	assert.InDelta(t, 1299.99, fresh[0].Price, 0.001)
}
