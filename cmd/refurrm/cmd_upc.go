package main

import (
	"github.com/spf13/cobra"

	"refurrm/internal/deal"
)

var upcAskingPrice float64

var upcCmd = &cobra.Command{
	Use:   "upc <code>",
	Short: "Evaluate a deal by UPC code",
	Long: `Looks up a UPC code against vendor pricing and compares the asking
price to the estimated net resale value after fees.

Example:
  refurrm upc 850020123456 --asking-price 700`,
	Args: cobra.ExactArgs(1),
	RunE: runUPC,
}

func init() {
	upcCmd.Flags().Float64Var(&upcAskingPrice, "asking-price", 0, "price being asked for the item")
}

func runUPC(cmd *cobra.Command, args []string) error {
	evaluator := deal.NewEvaluator()
	result, err := evaluator.Evaluate(deal.Input{
		UPCCode:     args[0],
		AskingPrice: upcAskingPrice,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}
