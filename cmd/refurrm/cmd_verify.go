package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"refurrm/internal/appraisal"
	"refurrm/internal/authenticity"
	"refurrm/internal/llm"
)

var (
	verifyPhoto       string
	verifyItem        string
	verifyCondition   string
	verifySource      string
	verifyAskingPrice float64
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify an item's resale value",
	Long: `Values an item against the pricing rubric and screens it for
counterfeits. Provide either --photo (a local image file) or --item
(a known item name). Add --asking-price to get a profit analysis.

Example:
  refurrm verify --item "Gaming Laptop (Mid-Tier)" \
    --condition "Good (Used, Working)" \
    --source "Yard Sale/Flea Market (Buying)" \
    --asking-price 450`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyPhoto, "photo", "", "path to an item photo")
	verifyCmd.Flags().StringVar(&verifyItem, "item", "", "item name (alternative to --photo)")
	verifyCmd.Flags().StringVar(&verifyCondition, "condition", string(appraisal.ConditionGood), "item condition")
	verifyCmd.Flags().StringVar(&verifySource, "source", string(appraisal.SourceYardSale), "valuation context")
	verifyCmd.Flags().Float64Var(&verifyAskingPrice, "asking-price", -1, "asking price for profit analysis")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := llm.NewClient(ctx, llm.Options{
		Provider: llm.Provider(cfg.LLM.Provider),
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.GetLLMTimeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	input := appraisal.VerificationInput{
		ItemName:  verifyItem,
		Condition: appraisal.Condition(verifyCondition),
		Source:    appraisal.Source(verifySource),
	}
	if verifyPhoto != "" {
		uri, err := photoToDataURI(verifyPhoto)
		if err != nil {
			return err
		}
		input.PhotoDataURI = uri
	}
	if verifyAskingPrice >= 0 {
		input.AskingPrice = &verifyAskingPrice
	}

	engine := appraisal.NewEngine(client, authenticity.NewScoutWithRand(newScoutRand()))
	result, err := engine.Verify(ctx, input)
	if err != nil {
		return err
	}
	return printJSON(result)
}

// photoToDataURI reads an image file into a base64 data URI.
func photoToDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
