// Package listing implements the listing studio: AI-generated
// listing copy, price suggestions, and comparable-sale lookups.
package listing

import (
	"context"
	"fmt"
	"strings"

	"refurrm/internal/llm"
	"refurrm/internal/logging"
)

// Details is generated listing copy.
type Details struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// PriceSuggestion is a free-form price range with justification.
type PriceSuggestion struct {
	SuggestedPriceRange string `json:"suggestedPriceRange"`
}

const detailsSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "description": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["title", "description", "tags"]
}`

const priceSchema = `{
  "type": "object",
  "properties": {
    "suggestedPriceRange": {"type": "string"}
  },
  "required": ["suggestedPriceRange"]
}`

const generatorSystemPrompt = "You are an AI assistant helping users create listings for items " +
	"they want to sell online."

const pricingSystemPrompt = "You are an expert pricing assistant for secondhand goods."

// Generator produces listing copy and price suggestions.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a listing generator.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// ValidationError reports malformed listing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Generate produces a title, description, and tags for a listing
// from the item's photo.
func (g *Generator) Generate(ctx context.Context, photoDataURI, additionalDetails string) (*Details, error) {
	if photoDataURI == "" {
		return nil, &ValidationError{Field: "photoDataUri", Message: "a photo is required"}
	}

	var b strings.Builder
	b.WriteString("Based on the photo and any additional details provided, generate a title, description, and relevant tags for the listing.\n\n")
	fmt.Fprintf(&b, "Photo: {{photo:%s}}\n", photoDataURI)
	if additionalDetails != "" {
		fmt.Fprintf(&b, "Additional Details: %s\n", additionalDetails)
	}

	details, err := llm.Structured[Details](ctx, g.client, "generateListingDetails", generatorSystemPrompt, b.String(), detailsSchema)
	if err != nil {
		return nil, err
	}

	logging.Listing("generated listing %q with %d tags", details.Title, len(details.Tags))
	return details, nil
}

// SuggestPrice asks for a price range with justification, based on
// comparable sales.
func (g *Generator) SuggestPrice(ctx context.Context, description, photoDataURI string) (*PriceSuggestion, error) {
	if description == "" {
		return nil, &ValidationError{Field: "description", Message: "a description is required"}
	}
	if photoDataURI == "" {
		return nil, &ValidationError{Field: "photoDataUri", Message: "a photo is required"}
	}

	var b strings.Builder
	b.WriteString("Based on the provided description and photo, suggest a price range for the item. ")
	b.WriteString("Provide a brief justification for your suggested price range based on comparable sales.\n\n")
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "Photo: {{photo:%s}}\n", photoDataURI)

	suggestion, err := llm.Structured[PriceSuggestion](ctx, g.client, "aiPriceSuggestion", pricingSystemPrompt, b.String(), priceSchema)
	if err != nil {
		return nil, err
	}

	logging.Listing("price suggestion: %s", suggestion.SuggestedPriceRange)
	return suggestion, nil
}
