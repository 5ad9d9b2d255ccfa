package ambassador

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"refurrm/internal/llm"
	"refurrm/internal/logging"
)

// Action is what the user wants to do with the item.
type Action string

const (
	ActionSell   Action = "SELL"   // Consignment
	ActionDonate Action = "DONATE" // Donation pickup
)

// SelectionInput describes the listing and the user's fulfillment
// needs.
type SelectionInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Action      Action  `json:"action"`
	ZipCode     string  `json:"zipCode"`
	Service     Service `json:"service"`
}

// Candidate is a recommended ambassador with a pickup estimate.
type Candidate struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Area               string  `json:"area"`
	Specialty          string  `json:"specialty"`
	Rating             float64 `json:"rating"`
	ExpectedPickupTime string  `json:"expectedPickupTime"`
}

// SelectionResult is the ranked candidate list. Empty when no local
// ambassador matches.
type SelectionResult struct {
	Ambassadors []Candidate `json:"ambassadors"`
}

const maxCandidates = 3

const selectionSchema = `{
  "type": "object",
  "properties": {
    "ambassadors": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "area": {"type": "string"},
          "specialty": {"type": "string"},
          "rating": {"type": "number"},
          "expectedPickupTime": {"type": "string"}
        },
        "required": ["id", "name", "area", "specialty", "rating", "expectedPickupTime"]
      }
    }
  },
  "required": ["ambassadors"]
}`

const selectionSystemPrompt = "You rank fulfillment ambassador candidates for a resale marketplace. " +
	"Respond only with structured JSON."

// Selector recommends ambassadors for a listing. When an LLM client
// is present it refines the filtered roster; without one it falls
// back to a deterministic ranking.
type Selector struct {
	directory *Directory
	client    llm.Client
}

// NewSelector creates a selector. client may be nil.
func NewSelector(directory *Directory, client llm.Client) *Selector {
	return &Selector{directory: directory, client: client}
}

// Select finds local candidates for the input and ranks up to three
// of them. The roster filter always runs first; the model only ever
// reorders and annotates candidates that passed it.
func (s *Selector) Select(ctx context.Context, input SelectionInput) (*SelectionResult, error) {
	if !ValidService(input.Service) {
		return nil, &ValidationError{Field: "service", Message: fmt.Sprintf("unknown service %q", input.Service)}
	}
	if input.Action != ActionSell && input.Action != ActionDonate {
		return nil, &ValidationError{Field: "action", Message: fmt.Sprintf("action must be SELL or DONATE, got %q", input.Action)}
	}

	matches := s.directory.FindLocal(input.ZipCode, input.Service)
	if len(matches) == 0 {
		logging.Matcher("no candidates for zip=%s service=%s", input.ZipCode, input.Service)
		return &SelectionResult{Ambassadors: []Candidate{}}, nil
	}

	if s.client == nil {
		return s.rankLocally(matches), nil
	}

	result, err := s.rankWithModel(ctx, input, matches)
	if err != nil {
		logging.Get(logging.CategoryMatcher).Error("model ranking failed, using local ranking: %v", err)
		return s.rankLocally(matches), nil
	}
	return s.sanitize(result, matches), nil
}

// rankLocally orders candidates by rating, caps at three, and applies
// the default pickup estimate.
func (s *Selector) rankLocally(matches []Ambassador) *SelectionResult {
	ranked := sortByRatingDesc(matches)
	if len(ranked) > maxCandidates {
		ranked = ranked[:maxCandidates]
	}

	out := make([]Candidate, 0, len(ranked))
	for _, a := range ranked {
		out = append(out, Candidate{
			ID:                 a.ID,
			Name:               a.Name,
			Area:               a.City,
			Specialty:          a.Specialty,
			Rating:             a.Rating,
			ExpectedPickupTime: "1-2 days",
		})
	}
	return &SelectionResult{Ambassadors: out}
}

func (s *Selector) rankWithModel(ctx context.Context, input SelectionInput, matches []Ambassador) (*SelectionResult, error) {
	raw := make([]Candidate, 0, len(matches))
	for _, a := range matches {
		raw = append(raw, Candidate{
			ID:                 a.ID,
			Name:               a.Name,
			Area:               a.City,
			Specialty:          a.Specialty,
			Rating:             a.Rating,
			ExpectedPickupTime: "1-2 days",
		})
	}
	rawJSON, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, err
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "The user has decided to proceed with a %s action for the following item:\n", input.Action)
	fmt.Fprintf(&prompt, "Title: %s\nDescription: %s\nPrice: %.2f\n\n", input.Title, input.Description, input.Price)
	fmt.Fprintf(&prompt, "Here is a list of raw Ambassador candidates and their profiles:\n%s\n\n", rawJSON)
	prompt.WriteString("Select up to 3 of the best Ambassadors from the raw list based on their specialty and service area.\n")
	prompt.WriteString("For the expectedPickupTime, refine the rough estimate based on the chosen action:\n")
	prompt.WriteString("- If 'SELL', prioritize the higher rated and relevant specialty.\n")
	prompt.WriteString("- If 'DONATE', prioritize the fastest pickup time.\n")

	return llm.Structured[SelectionResult](ctx, s.client, "selectAmbassador", selectionSystemPrompt, prompt.String(), selectionSchema)
}

// sanitize drops candidates the model invented and enforces the cap.
// The model may only reorder and annotate what the roster filter
// produced.
func (s *Selector) sanitize(result *SelectionResult, matches []Ambassador) *SelectionResult {
	allowed := make(map[string]bool, len(matches))
	for _, a := range matches {
		allowed[a.ID] = true
	}

	kept := make([]Candidate, 0, maxCandidates)
	for _, c := range result.Ambassadors {
		if !allowed[c.ID] {
			logging.Get(logging.CategoryMatcher).Warn("dropping hallucinated candidate %q", c.ID)
			continue
		}
		kept = append(kept, c)
		if len(kept) == maxCandidates {
			break
		}
	}
	return &SelectionResult{Ambassadors: kept}
}

// ValidationError reports bad matcher or service input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
