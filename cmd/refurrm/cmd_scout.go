package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"refurrm/internal/authenticity"
)

var scoutLocation string

var scoutCmd = &cobra.Command{
	Use:   "scout <item-name>",
	Short: "Run a counterfeit risk check on an item",
	Long: `Screens an item name against the counterfeit knowledge base and
reports a verdict with a confidence score.

Known targets:
  ` + joinTargets(),
	Args: cobra.ExactArgs(1),
	RunE: runScout,
}

func init() {
	scoutCmd.Flags().StringVar(&scoutLocation, "location", string(authenticity.CheckInHandScan),
		"check location (In-Hand Scan or Auction Photo)")
}

func runScout(cmd *cobra.Command, args []string) error {
	location := authenticity.CheckLocation(scoutLocation)
	switch location {
	case authenticity.CheckInHandScan, authenticity.CheckAuctionPhoto:
	default:
		return fmt.Errorf("unknown check location %q", scoutLocation)
	}

	scout := authenticity.NewScoutWithRand(newScoutRand())
	report := scout.Inspect(args[0], location)
	return printJSON(report)
}

func joinTargets() string {
	return strings.Join(authenticity.KnownTargets(), "\n  ")
}

func newScoutRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
