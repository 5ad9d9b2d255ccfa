package appraisal

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"refurrm/internal/authenticity"
	"refurrm/internal/llm"
	"refurrm/internal/logging"
)

// Engine orchestrates appraisals. The model identifies and describes
// items; the engine enforces the pricing rubric, the high-risk gate,
// and the consignment viability rule deterministically on top of
// whatever the model returns.
type Engine struct {
	client llm.Client
	scout  *authenticity.Scout
}

// NewEngine creates an appraisal engine.
func NewEngine(client llm.Client, scout *authenticity.Scout) *Engine {
	return &Engine{client: client, scout: scout}
}

// ValidationError reports malformed appraisal input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Scan runs the full photo appraisal: identification, listing copy,
// pricing, and the consignment gate.
func (e *Engine) Scan(ctx context.Context, photoDataURI string) (*Appraisal, error) {
	if photoDataURI == "" {
		return nil, &ValidationError{Field: "photoDataUri", Message: "a photo is required"}
	}

	timer := logging.StartTimer(logging.CategoryAppraisal, "scan")
	defer timer.Stop()

	result, err := llm.Structured[Appraisal](ctx, e.client, "scanItem", scanSystemPrompt, buildScanPrompt(photoDataURI), scanSchema)
	if err != nil {
		return nil, err
	}

	// The model's viability flag is advisory; the business rule wins.
	result.IsConsignmentViable = ConsignmentViable(result.PriceType, result.AuthenticityVerdict)

	if result.MinPrice < 0 {
		result.MinPrice = 0
	}
	if result.MaxPrice < 0 {
		result.MaxPrice = 0
	}
	if result.MinPrice > result.MaxPrice {
		result.MinPrice = round2(result.MaxPrice * 0.9)
	}

	logging.Appraisal("scan: %q category=%s priceType=%s range=%.2f-%.2f viable=%v",
		result.SuggestedTitle, result.CategoryTag, result.PriceType,
		result.MinPrice, result.MaxPrice, result.IsConsignmentViable)

	return result, nil
}

// verifyOutput is the model's half of a verification.
type verifyOutput struct {
	ItemName             string      `json:"itemName"`
	MinResaleValue       float64     `json:"minResaleValue"`
	MaxResaleValue       float64     `json:"maxResaleValue"`
	Justification        string      `json:"justification"`
	CategoryTag          CategoryTag `json:"categoryTag"`
	EstimatedRetailPrice float64     `json:"estimatedRetailPrice"`
}

// Verify values an item against the pricing rubric and screens it
// for counterfeits. When the item name is supplied up front the
// valuation and the scout run concurrently; the speculative scout
// pass is discarded and re-run whenever the model identifies the
// item under a different name, because the knowledge base matches
// names exactly. With a photo the scout has to wait for
// identification.
func (e *Engine) Verify(ctx context.Context, input VerificationInput) (*VerificationResult, error) {
	if err := validateVerification(input); err != nil {
		return nil, err
	}

	timer := logging.StartTimer(logging.CategoryAppraisal, "verify")
	defer timer.Stop()

	location := authenticity.CheckInHandScan
	if input.Source == SourceMarketplace {
		location = authenticity.CheckAuctionPhoto
	}

	var valuation *verifyOutput
	var report authenticity.Report

	if input.ItemName != "" {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			v, err := llm.Structured[verifyOutput](gctx, e.client, "verifyItemValue", verifySystemPrompt, buildVerifyPrompt(input), verifySchema)
			if err != nil {
				return err
			}
			valuation = v
			return nil
		})
		g.Go(func() error {
			report = e.scout.Inspect(input.ItemName, location)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if valuation.ItemName != input.ItemName {
			report = e.scout.Inspect(valuation.ItemName, location)
		}
	} else {
		v, err := llm.Structured[verifyOutput](ctx, e.client, "verifyItemValue", verifySystemPrompt, buildVerifyPrompt(input), verifySchema)
		if err != nil {
			return nil, err
		}
		valuation = v
		report = e.scout.Inspect(valuation.ItemName, location)
	}

	min, max, justification, highRisk := e.enforceRubric(valuation, input)

	result := &VerificationResult{
		ItemName:       valuation.ItemName,
		MinResaleValue: min,
		MaxResaleValue: max,
		Justification:  justification,
		Authenticity:   report,
	}

	if input.AskingPrice != nil {
		var analysis ProfitAnalysis
		if highRisk {
			analysis = RejectedProfit()
		} else {
			analysis = AnalyzeProfit(max, *input.AskingPrice)
		}
		result.ProfitAnalysis = &analysis
	}

	logging.Appraisal("verify: %q range=%.2f-%.2f verdict=%s highRisk=%v",
		result.ItemName, result.MinResaleValue, result.MaxResaleValue,
		report.Verdict, highRisk)

	return result, nil
}

// enforceRubric recomputes the value range deterministically. The
// model's numbers only survive for items outside the market table,
// and even then the repair step applies. The high-risk gate takes
// precedence over everything.
func (e *Engine) enforceRubric(valuation *verifyOutput, input VerificationInput) (min, max float64, justification string, highRisk bool) {
	justification = valuation.Justification

	if HighRisk(valuation.CategoryTag, input.Condition) {
		min, max, justification = ApplyHighRisk(valuation.EstimatedRetailPrice, valuation.Justification)
		return min, max, justification, true
	}

	if avg, ok := MarketValue(valuation.ItemName); ok {
		min, max = ComputeRange(avg, input.Condition, input.Source)
		return min, max, justification, false
	}

	min, max = valuation.MinResaleValue, valuation.MaxResaleValue
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	if min > max {
		min = max * 0.9
	}
	return round2(min), round2(max), justification, false
}

func validateVerification(input VerificationInput) error {
	if input.PhotoDataURI == "" && input.ItemName == "" {
		return &ValidationError{Field: "photoDataUri", Message: "a photo or item name is required"}
	}
	if !ValidCondition(input.Condition) {
		return &ValidationError{Field: "condition", Message: fmt.Sprintf("unknown condition %q", input.Condition)}
	}
	if !ValidSource(input.Source) {
		return &ValidationError{Field: "source", Message: fmt.Sprintf("unknown source %q", input.Source)}
	}
	if input.AskingPrice != nil && *input.AskingPrice < 0 {
		return &ValidationError{Field: "askingPrice", Message: "asking price must not be negative"}
	}
	return nil
}
