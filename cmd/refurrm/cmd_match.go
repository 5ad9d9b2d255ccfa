package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"refurrm/internal/ambassador"
	"refurrm/internal/llm"
)

var (
	matchTitle       string
	matchDescription string
	matchPrice       float64
	matchAction      string
	matchZip         string
	matchService     string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find ambassadors for a listing",
	Long: `Matches a listing against the ambassador roster by ZIP code and
service. When a Gemini API key is configured, candidates are ranked by
the model; otherwise they are ranked by rating.

Example:
  refurrm match --title "Vintage Armchair" --zip 90210 \
    --action SELL --service pickup`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchTitle, "title", "", "listing title")
	matchCmd.Flags().StringVar(&matchDescription, "description", "", "listing description")
	matchCmd.Flags().Float64Var(&matchPrice, "price", 0, "listing price")
	matchCmd.Flags().StringVar(&matchAction, "action", string(ambassador.ActionSell), "SELL or DONATE")
	matchCmd.Flags().StringVar(&matchZip, "zip", "", "listing ZIP code")
	matchCmd.Flags().StringVar(&matchService, "service", string(ambassador.ServicePickup), "required service")
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	directory := ambassador.NewDirectory()
	if cfg.Directory.RosterPath != "" {
		roster, err := ambassador.LoadRoster(cfg.Directory.RosterPath)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		directory.Replace(roster)
	}

	var client llm.Client
	if cfg.LLM.APIKey != "" {
		c, err := llm.NewClient(ctx, llm.Options{
			Provider: llm.Provider(cfg.LLM.Provider),
			APIKey:   cfg.LLM.APIKey,
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
			Timeout:  cfg.GetLLMTimeout(),
		})
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		client = c
	}

	selector := ambassador.NewSelector(directory, client)
	result, err := selector.Select(ctx, ambassador.SelectionInput{
		Title:       matchTitle,
		Description: matchDescription,
		Price:       matchPrice,
		Action:      ambassador.Action(matchAction),
		ZipCode:     matchZip,
		Service:     ambassador.Service(matchService),
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}
